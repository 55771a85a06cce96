// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest resolves the set of remote endpoints the CLI talks to.
package manifest

import (
	"strings"
	"time"
)

// Manifest describes every remote endpoint used by the client.
type Manifest struct {
	// APIKey is appended as ?key= to identity requests.
	APIKey   string
	Catalog  CatalogEndpoints
	Identity IdentityEndpoints
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// CatalogEndpoints contains the product API address and paths.
type CatalogEndpoints struct {
	BaseURL  string // e.g., "https://dummyjson.com"
	Products string // e.g., "/products"
}

// IdentityEndpoints contains the identity provider addresses and paths.
type IdentityEndpoints struct {
	BaseURL        string // e.g., "https://identitytoolkit.googleapis.com"
	SecureTokenURL string // e.g., "https://securetoken.googleapis.com"
	SignIn         string // e.g., "/v1/accounts:signInWithPassword"
	SignUp         string // e.g., "/v1/accounts:signUp"
	Refresh        string // e.g., "/v1/token"
}

// ProductsURL returns the absolute URL of the products listing.
func (m *Manifest) ProductsURL() string {
	return join(m.Catalog.BaseURL, m.Catalog.Products)
}

// SignInURL returns the absolute password sign-in URL without the key.
func (m *Manifest) SignInURL() string {
	return join(m.Identity.BaseURL, m.Identity.SignIn)
}

// SignUpURL returns the absolute account creation URL without the key.
func (m *Manifest) SignUpURL() string {
	return join(m.Identity.BaseURL, m.Identity.SignUp)
}

// RefreshURL returns the absolute token exchange URL without the key.
func (m *Manifest) RefreshURL() string {
	return join(m.Identity.SecureTokenURL, m.Identity.Refresh)
}

func join(base, p string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
