// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the diagnostic logger and helpers for secure
// logging and error presentation.
//
// Sensitive data such as passwords, identity tokens and API keys must never
// reach the log file or the terminal; Mask scrubs them from arbitrary strings.
package logging

import (
	"regexp"
)

var (
	rePassword = regexp.MustCompile(`(?i)("?password"?\s*[=:]\s*"?)([^\s;",}]+)`)
	reToken    = regexp.MustCompile(`(?i)("?(?:id_?token|refresh_?token|token)"?\s*[=:]\s*"?|bearer\s+)([A-Za-z0-9._-]+)`)
	reAPIKey   = regexp.MustCompile(`(?i)([?&](?:key|api_?key)=)([^\s&"]+)`)
	reJWT      = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
)

// Mask replaces sensitive values in the input string with "***".
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "${1}***")
	out = reToken.ReplaceAllString(out, "${1}***")
	out = reAPIKey.ReplaceAllString(out, "${1}***")
	out = reJWT.ReplaceAllString(out, "***")
	return out
}
