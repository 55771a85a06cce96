package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	apperrors "browsemate/cli/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{name: "nil", err: nil, want: ClassNone},
		{name: "deadline", err: context.DeadlineExceeded, want: ClassTimeout},
		{name: "dns", err: &url.Error{Op: "Get", URL: "https://dummyjson.com/products", Err: &net.DNSError{Err: "no such host", Name: "dummyjson.com"}}, want: ClassDNS},
		{name: "refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: ClassRefused},
		{name: "tls", err: errors.New("x509: certificate signed by unknown authority"), want: ClassTLS},
		{name: "server", err: errors.New("get products failed: 503 Service Unavailable"), want: ClassServer},
		{name: "other", err: errors.New("boom"), want: ClassGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFormatNetworkError_WrapsAsNetwork(t *testing.T) {
	assert.NoError(t, FormatNetworkError(nil, "loading products"))

	base := errors.New("boom")
	err := FormatNetworkError(base, "loading products")
	assert.True(t, apperrors.Is(err, apperrors.Network))
	assert.ErrorIs(t, err, base)
}

func TestIsTransport(t *testing.T) {
	assert.True(t, IsTransport(&url.Error{Op: "Get", URL: "https://x", Err: errors.New("eof")}))
	assert.True(t, IsTransport(fmt.Errorf("wrapped: %w", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED})))
	assert.False(t, IsTransport(errors.New("EMAIL_EXISTS")))
}

func TestDescribe(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "https://dummyjson.com/products", Err: &net.DNSError{Err: "no such host", Name: "dummyjson.com"}}
	assert.Equal(t, "cannot resolve dummyjson.com", Describe(err))
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}

func TestDescribe_NeverEchoesRequestURL(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "refused",
			err:  &url.Error{Op: "Post", URL: "http://127.0.0.1:1/v1/accounts:signUp?key=AIzaSECRET", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
			want: "connection refused",
		},
		{
			name: "other url error",
			err:  &url.Error{Op: "Post", URL: "https://identitytoolkit.googleapis.com/v1/accounts:signUp?key=AIzaSECRET", Err: errors.New("EOF")},
			want: "cannot reach identitytoolkit.googleapis.com",
		},
		{
			name: "plain text with key",
			err:  errors.New("POST /v1/token?key=AIzaSECRET failed"),
			want: "POST /v1/token?key=*** failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "AIzaSECRET")
		})
	}
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "dummyjson.com", ExtractHostFromURL("https://dummyjson.com/products?limit=10"))
	assert.Equal(t, "the server", ExtractHostFromURL("::"))
}
