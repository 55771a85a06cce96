package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"browsemate/cli/internal/catalog"
)

// productsPage is the envelope of GET /products. Products is a pointer so a
// missing field can be told apart from an empty page.
type productsPage struct {
	Products *[]catalog.Item `json:"products"`
	Total    int             `json:"total"`
	Skip     int             `json:"skip"`
	Limit    int             `json:"limit"`
}

// FetchProducts calls GET /products?limit=<limit>&skip=<skip>.
// No authentication header is sent. Products are validated before return.
func (h *HTTP) FetchProducts(ctx context.Context, limit, skip int) ([]catalog.Item, error) {
	u, err := url.Parse(h.m.ProductsURL())
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("get products failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out productsPage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if out.Products == nil {
		return nil, errors.New("decode products: response has no products field")
	}
	if err := catalog.ValidateAll(*out.Products); err != nil {
		return nil, fmt.Errorf("invalid products: %w", err)
	}
	return *out.Products, nil
}
