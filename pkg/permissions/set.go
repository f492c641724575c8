package permissions

import (
	"strings"

	"github.com/salusbr/admincore/pkg/textnorm"
)

// Set is the canonical permission set for one user on one filial. All
// queries are pure reads; the set is rebuilt wholesale on every reload or
// filial switch, never patched in place.
type Set []Record

// HasName reports whether an active permission with the given name exists.
// Matching is accent- and case-insensitive on both sides.
func (s Set) HasName(nome string) bool {
	key := textnorm.Key(nome)
	if key == "" {
		return false
	}
	for _, r := range s {
		if r.Ativo && textnorm.Key(r.Nome) == key {
			return true
		}
	}
	return false
}

// HasModule reports whether an active permission tagged with the given
// module exists.
func (s Set) HasModule(modulo string) bool {
	key := textnorm.Key(modulo)
	if key == "" {
		return false
	}
	for _, r := range s {
		if r.Ativo && textnorm.Key(r.Modulo) == key {
			return true
		}
	}
	return false
}

// ByModule collects every active permission tagged with the given module.
func (s Set) ByModule(modulo string) []Record {
	key := textnorm.Key(modulo)
	out := make([]Record, 0)
	if key == "" {
		return out
	}
	for _, r := range s {
		if r.Ativo && textnorm.Key(r.Modulo) == key {
			out = append(out, r)
		}
	}
	return out
}

// HasPanel reports whether any permission references the given panel id.
// Panel access deliberately does not require Ativo: deactivated grants keep
// the panel reachable so it can be listed and re-enabled from the panel
// management screen. Name and module checks do enforce Ativo.
func (s Set) HasPanel(painelID int) bool {
	if painelID == 0 {
		return false
	}
	for _, r := range s {
		if r.PainelID == painelID {
			return true
		}
	}
	return false
}

// PanelIDs returns the distinct non-zero panel ids referenced by the set,
// in first-seen order.
func (s Set) PanelIDs() []int {
	seen := make(map[int]struct{}, len(s))
	ids := make([]int, 0, len(s))
	for _, r := range s {
		if r.PainelID == 0 {
			continue
		}
		if _, ok := seen[r.PainelID]; ok {
			continue
		}
		seen[r.PainelID] = struct{}{}
		ids = append(ids, r.PainelID)
	}
	return ids
}

// Criteria narrows a Filter call. Each non-nil field must match; string
// fields compare case-insensitively by plain folding, without the full
// accent normalization used by the access checks.
type Criteria struct {
	UsuarioID *int
	Modulo    *string
	Nome      *string
	PainelID  *int
	Ativo     *bool
}

// Filter returns the records matching every present criterion.
func (s Set) Filter(c Criteria) []Record {
	out := make([]Record, 0)
	for _, r := range s {
		if c.UsuarioID != nil && r.UsuarioID != *c.UsuarioID {
			continue
		}
		if c.Modulo != nil && !strings.EqualFold(r.Modulo, *c.Modulo) {
			continue
		}
		if c.Nome != nil && !strings.EqualFold(r.Nome, *c.Nome) {
			continue
		}
		if c.PainelID != nil && r.PainelID != *c.PainelID {
			continue
		}
		if c.Ativo != nil && r.Ativo != *c.Ativo {
			continue
		}
		out = append(out, r)
	}
	return out
}
