package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// SortOrder is the price ordering applied to the visible list.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAsc
	SortDesc
)

// Toggle advances the order: none and descending go to ascending, ascending
// goes to descending.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "price ↑"
	case SortDesc:
		return "price ↓"
	default:
		return "unsorted"
	}
}

// ParseSortOrder accepts "", "none", "asc" and "desc".
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, true
	case "asc":
		return SortAsc, true
	case "desc":
		return SortDesc, true
	}
	return SortNone, false
}

// Filter returns the items whose title contains query, ignoring case.
// An empty query returns every item. The input slice is not modified.
func Filter(items []Item, query string) []Item {
	q := strings.ToLower(query)
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if q == "" || strings.Contains(strings.ToLower(it.Title), q) {
			out = append(out, it)
		}
	}
	return out
}

// SortByPrice stable-sorts items in place by price.
func SortByPrice(items []Item, order SortOrder) {
	switch order {
	case SortAsc:
		slices.SortStableFunc(items, func(a, b Item) int { return cmp.Compare(a.Price, b.Price) })
	case SortDesc:
		slices.SortStableFunc(items, func(a, b Item) int { return cmp.Compare(b.Price, a.Price) })
	}
}

// Derive returns the visible list for query and order. items is never
// mutated, so clearing the order always restores fetch order.
func Derive(items []Item, query string, order SortOrder) []Item {
	out := Filter(items, query)
	SortByPrice(out, order)
	return out
}

// ListView is the ephemeral state owned by the list screen.
type ListView struct {
	Query string
	Order SortOrder
}

// ToggleSort advances the sort order.
func (v *ListView) ToggleSort() { v.Order = v.Order.Toggle() }

// ClearSort drops back to fetch order.
func (v *ListView) ClearSort() { v.Order = SortNone }

// Apply derives the visible list from the loaded items.
func (v ListView) Apply(items []Item) []Item {
	return Derive(items, v.Query, v.Order)
}
