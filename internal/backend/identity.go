package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Provider error codes the CLI reacts to.
const (
	CodeEmailExists    = "EMAIL_EXISTS"
	CodeTokenExpired   = "TOKEN_EXPIRED"
	CodeInvalidRefresh = "INVALID_REFRESH_TOKEN"
	CodeUserDisabled   = "USER_DISABLED"
	CodeUserNotFound   = "USER_NOT_FOUND"
)

// ProviderError is a failure reported by the identity provider.
// Message is the provider's text verbatim; Code is its leading token,
// e.g. "WEAK_PASSWORD" for "WEAK_PASSWORD : Password should be at least 6 characters".
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

// IsCode reports whether err is a ProviderError with the given code.
func IsCode(err error, code string) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == code
}

// ErrMissingAPIKey is returned before any request when no API key is configured.
var ErrMissingAPIKey = errors.New("identity provider API key is not configured; set BROWSEMATE_API_KEY or api_key in config.json")

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type passwordResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

// SignInWithPassword calls POST /v1/accounts:signInWithPassword.
func (h *HTTP) SignInWithPassword(ctx context.Context, email, password string) (*Credential, error) {
	return h.passwordCall(ctx, h.m.SignInURL(), email, password)
}

// SignUp calls POST /v1/accounts:signUp.
func (h *HTTP) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	return h.passwordCall(ctx, h.m.SignUpURL(), email, password)
}

func (h *HTTP) passwordCall(ctx context.Context, endpoint, email, password string) (*Credential, error) {
	body, err := json.Marshal(passwordRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}
	req, err := h.identityRequest(ctx, endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out passwordResponse
	if err := h.doIdentity(req, &out); err != nil {
		return nil, err
	}
	if out.IDToken == "" {
		return nil, errors.New("identity provider returned no id token")
	}
	return &Credential{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		UserID:       out.LocalID,
		Email:        out.Email,
		ExpiresIn:    parseSeconds(out.ExpiresIn),
	}, nil
}

// identityRequest builds a POST to endpoint with the API key attached.
func (h *HTTP) identityRequest(ctx context.Context, endpoint, contentType string, body io.Reader) (*http.Request, error) {
	if h.m.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", h.m.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", contentType)
	return req, nil
}

// doIdentity sends req and decodes a 200 body into out. Non-200 responses
// are decoded into a ProviderError.
func (h *HTTP) doIdentity(req *http.Request, out any) error {
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseProviderError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode identity response: %w", err)
	}
	return nil
}

// parseProviderError extracts {"error":{"code":..,"message":..}} from resp.
func parseProviderError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil || envelope.Error.Message == "" {
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &ProviderError{Status: resp.StatusCode, Message: msg}
	}
	msg := envelope.Error.Message
	code := msg
	if i := strings.Index(msg, " : "); i >= 0 {
		code = msg[:i]
	}
	return &ProviderError{Status: resp.StatusCode, Code: strings.TrimSpace(code), Message: msg}
}

// parseSeconds converts "3600" into a duration; bad input yields zero.
func parseSeconds(s string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
