// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	apperrors "browsemate/cli/internal/errors"
	"browsemate/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Class is the broad cause of a network failure.
type Class int

const (
	ClassNone Class = iota
	ClassTimeout
	ClassDNS
	ClassRefused
	ClassTLS
	ClassServer
	ClassGeneric
)

// FormatNetworkError shows a user-friendly message for err and returns it
// wrapped as a network error for logging.
func FormatNetworkError(err error, context string) error {
	if err == nil {
		return nil
	}
	displayErrorMessage(err, context)
	return apperrors.Wrap(apperrors.Network, context, err)
}

// Classify sorts err into a Class.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case isTimeoutError(err):
		return ClassTimeout
	case isDNSError(err):
		return ClassDNS
	case isConnectionRefusedError(err):
		return ClassRefused
	case isSSLError(err):
		return ClassTLS
	case isServerError(err.Error()):
		return ClassServer
	}
	return ClassGeneric
}

// IsTransport reports whether err came from the network rather than from a
// response the server sent.
func IsTransport(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr)
}

func displayErrorMessage(err error, context string) {
	host := hostOf(err)
	switch Classify(err) {
	case ClassTimeout:
		showTimeoutError(context)
	case ClassDNS:
		showDNSError(context, host)
	case ClassRefused:
		showConnectionRefusedError(context)
	case ClassTLS:
		showSSLError(context)
	case ClassServer:
		showServerError(context, host)
	default:
		showGenericError(context, host, logging.Mask(err.Error()))
	}
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	for _, s := range []string{" 500", " 502", " 503", " 504", "internal server error", "bad gateway", "service unavailable", "gateway timeout"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func showTimeoutError(context string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", context)
	pterm.Println()
	pterm.Println("The server took too long to respond. This could mean:")
	pterm.Println("  • Slow internet connection")
	pterm.Println("  • Server is under heavy load")
	pterm.Println()
	pterm.Println("Please try again in a few moments. The timeout can be raised with BROWSEMATE_HTTP_TIMEOUT.")
	pterm.Println()
}

func showDNSError(context, host string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
	pterm.Println()
	pterm.Printf("Unable to look up %s. Please check:\n", host)
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • DNS settings are correct")
	pterm.Println()
}

func showConnectionRefusedError(context string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Println("The server is not accepting connections. This could mean:")
	pterm.Println("  • The service is temporarily down")
	pterm.Println("  • A custom endpoint in config.json points at the wrong port")
	pterm.Println()
}

func showSSLError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Cannot establish a secure HTTPS connection. Check your system date and")
	pterm.Println("time and any network proxy that may intercept HTTPS.")
	pterm.Println()
}

func showServerError(context, host string) {
	pterm.Printf("⚠️  Server error while %s\n", context)
	pterm.Println()
	pterm.Printf("%s returned an internal error. This is not a problem with your setup.\n", host)
	pterm.Println("Please try again in a few minutes.")
	pterm.Println()
}

func showGenericError(context, host, errDetails string) {
	pterm.Printf("❌ Cannot reach %s while %s\n", host, context)
	pterm.Println()
	if errDetails != "" {
		shortErr := errDetails
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// hostOf returns the host of the request that failed, or "the server".
func hostOf(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ExtractHostFromURL(urlErr.URL)
	}
	return "the server"
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "the server"
	}
	return u.Host
}

// Describe is a one-line summary of err for inline status text.
func Describe(err error) string {
	switch Classify(err) {
	case ClassTimeout:
		return "request timed out"
	case ClassDNS:
		return fmt.Sprintf("cannot resolve %s", hostOf(err))
	case ClassRefused:
		return "connection refused"
	case ClassTLS:
		return "secure connection failed"
	case ClassServer:
		return fmt.Sprintf("%s returned a server error", hostOf(err))
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Sprintf("cannot reach %s", hostOf(err))
	}
	return logging.Mask(err.Error())
}
