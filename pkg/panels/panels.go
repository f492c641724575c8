// Package panels resolves the panel descriptors referenced by a permission
// set. Panels are the navigable screens of the admin front-end (admissions,
// ward, lab, billing, ...); permissions reference them by id and the UI
// matches them by description.
package panels

import (
	"context"
	"sort"

	"github.com/salusbr/admincore/pkg/textnorm"
)

// Panel is a resolved panel descriptor.
type Panel struct {
	ID        int    `json:"id"`
	Descricao string `json:"descricao"`
}

// Fetcher looks up a single panel descriptor at the backend.
type Fetcher interface {
	FetchPanel(ctx context.Context, painelID int) (Panel, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, painelID int) (Panel, error)

// FetchPanel implements Fetcher.
func (f FetcherFunc) FetchPanel(ctx context.Context, painelID int) (Panel, error) {
	return f(ctx, painelID)
}

// List is a resolved panel collection, unique by id.
type List []Panel

// ByID returns the panel with the given id.
func (l List) ByID(id int) (Panel, bool) {
	for _, p := range l {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}

// ByDescription returns the panel whose description matches desc. Matching
// is accent- and case-insensitive.
func (l List) ByDescription(desc string) (Panel, bool) {
	key := textnorm.Key(desc)
	if key == "" {
		return Panel{}, false
	}
	for _, p := range l {
		if textnorm.Key(p.Descricao) == key {
			return p, true
		}
	}
	return Panel{}, false
}

// IDs returns the panel ids of the list, ascending.
func (l List) IDs() []int {
	ids := make([]int, 0, len(l))
	for _, p := range l {
		ids = append(ids, p.ID)
	}
	sort.Ints(ids)
	return ids
}
