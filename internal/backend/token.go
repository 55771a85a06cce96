// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// RefreshToken calls POST /v1/token with grant_type=refresh_token.
// The provider may rotate the refresh token; the returned Credential always
// carries the one to keep.
func (h *HTTP) RefreshToken(ctx context.Context, refreshToken string) (*Credential, error) {
	if refreshToken == "" {
		return nil, errors.New("no refresh token")
	}
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := h.identityRequest(ctx, h.m.RefreshURL(), "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	var out refreshResponse
	if err := h.doIdentity(req, &out); err != nil {
		return nil, err
	}
	if out.IDToken == "" {
		return nil, errors.New("no id_token in response")
	}
	newRefresh := out.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}

	cred := &Credential{
		IDToken:      out.IDToken,
		RefreshToken: newRefresh,
		UserID:       out.UserID,
		ExpiresIn:    parseSeconds(out.ExpiresIn),
	}
	if claims, err := ParseIDToken(out.IDToken); err == nil {
		cred.Email = claims.Email
		if cred.UserID == "" {
			cred.UserID = claims.UserID
		}
	}
	return cred, nil
}

// IDClaims is the subset of id token claims the CLI displays.
type IDClaims struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ParseIDToken decodes the claims of an id token without verifying its
// signature. The token is only used to label the local session; the provider
// verifies it on every exchange.
func ParseIDToken(token string) (*IDClaims, error) {
	claims := &IDClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// ExpiresAt returns the expiry claim, or the zero time when absent.
func (c *IDClaims) ExpiresAt() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}
