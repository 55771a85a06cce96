// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"browsemate/cli/internal/manifest"
)

// New creates the REST client for the manifest endpoints.
func New(m *manifest.Manifest) *HTTP {
	return newHTTP(m)
}
