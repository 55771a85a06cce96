package manifest

import (
	"fmt"
	"net/url"

	"browsemate/cli/internal/config"
)

// GetEndpoints returns the manifest, using the RAM cache if available.
// If not cached, it is built from cfg and cached for the rest of the process.
func GetEndpoints(cfg config.Config) (*Manifest, error) {
	if cached := GetCached(); cached != nil {
		return cached, nil
	}
	m, err := FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	SetCached(m)
	return m, nil
}

// FromConfig builds a manifest from configuration, checking that every base
// URL is absolute.
func FromConfig(cfg config.Config) (*Manifest, error) {
	for name, raw := range map[string]string{
		"catalog_url":     cfg.CatalogURL,
		"identity_url":    cfg.IdentityURL,
		"securetoken_url": cfg.SecureTokenURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid %s: %q is not an absolute URL", name, raw)
		}
	}
	return &Manifest{
		APIKey: cfg.APIKey,
		Catalog: CatalogEndpoints{
			BaseURL:  cfg.CatalogURL,
			Products: "/products",
		},
		Identity: IdentityEndpoints{
			BaseURL:        cfg.IdentityURL,
			SecureTokenURL: cfg.SecureTokenURL,
			SignIn:         "/v1/accounts:signInWithPassword",
			SignUp:         "/v1/accounts:signUp",
			Refresh:        "/v1/token",
		},
		Timeout: cfg.HTTPTimeout(),
	}, nil
}
