package manifest

import (
	"testing"

	"browsemate/cli/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig_BuildsURLs(t *testing.T) {
	cfg := config.Defaults()
	cfg.CatalogURL = "https://dummyjson.com/"
	cfg.APIKey = "k"

	m, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://dummyjson.com/products", m.ProductsURL())
	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword", m.SignInURL())
	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1/accounts:signUp", m.SignUpURL())
	assert.Equal(t, "https://securetoken.googleapis.com/v1/token", m.RefreshURL())
	assert.Equal(t, "k", m.APIKey)
}

func TestFromConfig_RejectsRelativeURL(t *testing.T) {
	cfg := config.Defaults()
	cfg.CatalogURL = "dummyjson.com"

	_, err := FromConfig(cfg)
	assert.ErrorContains(t, err, "catalog_url")
}

func TestGetEndpoints_Caches(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	first, err := GetEndpoints(config.Defaults())
	require.NoError(t, err)

	other := config.Defaults()
	other.CatalogURL = "http://elsewhere.local"
	second, err := GetEndpoints(other)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
