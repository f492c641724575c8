// Package routes holds the static mapping from a logical route key to the
// panel that gates it. The table is built once at startup and read-only
// afterwards; route guards consult it through the session access queries.
package routes

import (
	"github.com/salusbr/admincore/pkg/textnorm"
)

// Config binds one route key to its required panel. DescricaoPainel is the
// fallback lookup key for backends that return descriptors without ids.
type Config struct {
	Key             string
	PainelID        int
	DescricaoPainel string
}

// Table is an immutable route configuration lookup.
type Table struct {
	byKey map[string]Config
}

// NewTable builds a table from the given configs. Keys are normalized so
// lookups tolerate case and accents; on duplicate keys the last config wins.
func NewTable(configs []Config) *Table {
	t := &Table{byKey: make(map[string]Config, len(configs))}
	for _, cfg := range configs {
		key := textnorm.Key(cfg.Key)
		if key == "" {
			continue
		}
		t.byKey[key] = cfg
	}
	return t
}

// Lookup returns the config for key, or false when the route is unknown.
func (t *Table) Lookup(key string) (Config, bool) {
	if t == nil {
		return Config{}, false
	}
	cfg, ok := t.byKey[textnorm.Key(key)]
	return cfg, ok
}

// Keys returns the configured route keys (normalized form).
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.byKey))
	for k := range t.byKey {
		keys = append(keys, k)
	}
	return keys
}

// Count returns the number of configured routes.
func (t *Table) Count() int {
	return len(t.byKey)
}

// DefaultTable returns the route set of the admin front-end.
func DefaultTable() *Table {
	return NewTable([]Config{
		{Key: "internacao", PainelID: 1, DescricaoPainel: "Internação"},
		{Key: "leitos", PainelID: 2, DescricaoPainel: "Leitos"},
		{Key: "laboratorio", PainelID: 5, DescricaoPainel: "Laboratório"},
		{Key: "faturamento", PainelID: 7, DescricaoPainel: "Faturamento"},
		{Key: "farmacia", PainelID: 8, DescricaoPainel: "Farmácia"},
		{Key: "agenda", PainelID: 9, DescricaoPainel: "Agenda"},
		{Key: "rh", PainelID: 11, DescricaoPainel: "Recursos Humanos"},
		{Key: "relatorios", PainelID: 12, DescricaoPainel: "Relatórios"},
		{Key: "permissoes", PainelID: 15, DescricaoPainel: "Painel de Permissões"},
	})
}
