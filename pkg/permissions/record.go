// Package permissions normalizes the raw permission payloads returned by the
// hospital backend into a canonical record shape and answers access queries
// over the resulting set. A permission is scoped to one user and one filial
// and grants either a named capability, a module, a panel, or a combination.
package permissions

// Record is the canonical shape of a granted permission. The backend has
// shipped the same data under several shapes and field spellings over the
// years; Normalize folds all of them into this struct.
type Record struct {
	ID        int    `json:"id"`
	UsuarioID int    `json:"usuarioId"`
	FilialID  int    `json:"filialId"`
	PainelID  int    `json:"painelId,omitempty"`
	Nome      string `json:"nome,omitempty"`
	Modulo    string `json:"modulo,omitempty"`
	Ativo     bool   `json:"ativo"`
	Descricao string `json:"descricao,omitempty"`
}

// Field alias chains, in priority order. The canonical spelling comes
// first so that re-normalizing canonical output is a no-op.
var (
	aliasID        = []string{"id", "Id", "ID", "codigo"}
	aliasUsuarioID = []string{"usuarioId", "usuario_id", "userId", "user_id"}
	aliasFilialID  = []string{"filialId", "filial_id", "branchId", "branch_id"}
	aliasPainelID  = []string{"painelId", "painel_id", "panelId", "panel_id"}
	aliasNome      = []string{"nome", "name", "permissao"}
	aliasModulo    = []string{"modulo", "module"}
	aliasAtivo     = []string{"ativo", "active", "habilitado"}
	aliasDescricao = []string{"descricao", "description", "desc"}
)

// fromRawMap derives a Record from one loosely-shaped entry. Missing or
// unresolvable fields stay at their zero value; a bad entry never aborts
// normalization of the remainder of the payload.
func fromRawMap(raw map[string]any) Record {
	return Record{
		ID:        intField(raw, aliasID),
		UsuarioID: intField(raw, aliasUsuarioID),
		FilialID:  intField(raw, aliasFilialID),
		PainelID:  intField(raw, aliasPainelID),
		Nome:      stringField(raw, aliasNome),
		Modulo:    stringField(raw, aliasModulo),
		Ativo:     boolField(raw, aliasAtivo),
		Descricao: stringField(raw, aliasDescricao),
	}
}

func firstDefined(raw map[string]any, aliases []string) (any, bool) {
	for _, key := range aliases {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func intField(raw map[string]any, aliases []string) int {
	v, ok := firstDefined(raw, aliases)
	if !ok {
		return 0
	}
	return coerceInt(v)
}

func stringField(raw map[string]any, aliases []string) string {
	v, ok := firstDefined(raw, aliases)
	if !ok {
		return ""
	}
	return coerceString(v)
}

func boolField(raw map[string]any, aliases []string) bool {
	v, ok := firstDefined(raw, aliases)
	if !ok {
		return false
	}
	return coerceBool(v)
}
