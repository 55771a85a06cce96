// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth implements persistence for authentication state.
//
// Values live in a string key-value store, in production the OS keychain via
// internal/keychain.
package auth

import (
	"errors"

	"browsemate/cli/internal/backend"
	"browsemate/cli/internal/keychain"
)

// KV is the key-value store the session flag and tokens are persisted in.
// *keychain.Manager satisfies it.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

var _ KV = (*keychain.Manager)(nil)

// Tokens persists the identity provider tokens.
type Tokens struct {
	kv KV
}

// NewTokens returns a token store backed by kv.
func NewTokens(kv KV) *Tokens { return &Tokens{kv: kv} }

// Load returns the stored id and refresh tokens. Missing values are empty.
func (t *Tokens) Load() (idToken, refreshToken string, err error) {
	idToken, _, err = t.kv.Get(keychain.KeyIDToken)
	if err != nil {
		return "", "", err
	}
	refreshToken, _, err = t.kv.Get(keychain.KeyRefreshToken)
	if err != nil {
		return "", "", err
	}
	return idToken, refreshToken, nil
}

// Save stores the tokens carried by cred. An empty refresh token leaves the
// stored one in place.
func (t *Tokens) Save(cred *backend.Credential) error {
	if err := t.kv.Set(keychain.KeyIDToken, cred.IDToken); err != nil {
		return err
	}
	if cred.RefreshToken == "" {
		return nil
	}
	return t.kv.Set(keychain.KeyRefreshToken, cred.RefreshToken)
}

// Clear removes both tokens, attempting each even if one fails.
func (t *Tokens) Clear() error {
	return errors.Join(
		t.kv.Remove(keychain.KeyIDToken),
		t.kv.Remove(keychain.KeyRefreshToken),
	)
}
