// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the REST clients the CLI depends on: the identity
// provider (email/password accounts and token exchange) and the public
// product catalog.
package backend

import (
	"context"
	"time"

	"browsemate/cli/internal/catalog"
)

// Identity defines the identity provider operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type Identity interface {
	// SignInWithPassword authenticates an existing account.
	SignInWithPassword(ctx context.Context, email, password string) (*Credential, error)
	// SignUp creates a new account and signs it in.
	SignUp(ctx context.Context, email, password string) (*Credential, error)
	// RefreshToken exchanges a refresh token for a fresh id token.
	RefreshToken(ctx context.Context, refreshToken string) (*Credential, error)
}

// Catalog defines the product API operations.
type Catalog interface {
	FetchProducts(ctx context.Context, limit, skip int) ([]catalog.Item, error)
}

// Credential is what the identity provider issues on a successful sign-in,
// sign-up or refresh.
type Credential struct {
	IDToken      string
	RefreshToken string
	UserID       string
	Email        string
	ExpiresIn    time.Duration
}
