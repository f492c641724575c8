package permissions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantRecords = []Record{
	{ID: 1, UsuarioID: 10, FilialID: 2, PainelID: 5, Nome: "acesso_lab", Modulo: "laboratorio", Ativo: true, Descricao: "Acesso ao laboratório"},
	{ID: 2, UsuarioID: 10, FilialID: 2, PainelID: 7, Nome: "faturar", Modulo: "faturamento", Ativo: false, Descricao: "Faturamento"},
}

func decode(t *testing.T, payload string) any {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestNormalizeBareList(t *testing.T) {
	raw := decode(t, `[
		{"id":1,"usuarioId":10,"filialId":2,"painelId":5,"nome":"acesso_lab","modulo":"laboratorio","ativo":true,"descricao":"Acesso ao laboratório"},
		{"id":2,"usuarioId":10,"filialId":2,"painelId":7,"nome":"faturar","modulo":"faturamento","ativo":false,"descricao":"Faturamento"}
	]`)
	assert.Equal(t, wantRecords, Normalize(raw))
}

func TestNormalizeWrappedObject(t *testing.T) {
	raw := decode(t, `{"permissoes":[
		{"id":1,"usuarioId":10,"filialId":2,"painelId":5,"nome":"acesso_lab","modulo":"laboratorio","ativo":true,"descricao":"Acesso ao laboratório"},
		{"id":2,"usuarioId":10,"filialId":2,"painelId":7,"nome":"faturar","modulo":"faturamento","ativo":false,"descricao":"Faturamento"}
	]}`)
	assert.Equal(t, wantRecords, Normalize(raw))
}

func TestNormalizeAlternateWrapperKeys(t *testing.T) {
	for _, key := range []string{"permissions", "data", "items", "lista", "registros"} {
		raw := map[string]any{
			key: []any{map[string]any{"id": float64(3), "usuarioId": float64(1), "filialId": float64(1)}},
		}
		got := Normalize(raw)
		require.Len(t, got, 1, "wrapper key %q", key)
		assert.Equal(t, 3, got[0].ID)
	}
}

func TestNormalizeWrapperPriorityOrder(t *testing.T) {
	raw := map[string]any{
		"data":       []any{map[string]any{"id": float64(99)}},
		"permissoes": []any{map[string]any{"id": float64(1)}},
	}
	got := Normalize(raw)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID, "permissoes wins over data")
}

func TestNormalizeAliasSpellings(t *testing.T) {
	raw := decode(t, `[
		{"id":1,"user_id":10,"branch_id":2,"panel_id":5,"name":"acesso_lab","module":"laboratorio","active":"True","description":"Acesso ao laboratório"},
		{"id":2,"userId":10,"branchId":2,"panelId":7,"permissao":"faturar","modulo":"faturamento","ativo":"false","desc":"Faturamento"}
	]`)
	assert.Equal(t, wantRecords, Normalize(raw))
}

func TestNormalizeLegacyString(t *testing.T) {
	legacy := ` <permissoes>
		<permissao id="1" usuarioId="10" filialId="2" painelId="5" nome="acesso_lab" modulo="laboratorio" ativo="true" descricao="Acesso ao laboratório"/>
		<permissao id="2" usuarioId="10" filialId="2" painelId="7" nome="faturar" modulo="faturamento" ativo="false" descricao="Faturamento"/>
	</permissoes>`
	assert.Equal(t, wantRecords, Normalize(legacy))
}

func TestNormalizeLegacyParseErrorDegradesToEmpty(t *testing.T) {
	assert.Empty(t, Normalize(`<permissoes><permissao id="1"`))
	assert.Empty(t, Normalize(`<not-even-close`))
}

func TestNormalizeStringBooleanCoercion(t *testing.T) {
	raw := decode(t, `[
		{"id":1,"ativo":"true"},
		{"id":2,"ativo":"True"},
		{"id":3,"ativo":"TRUE "},
		{"id":4,"ativo":"1"},
		{"id":5,"ativo":"false"},
		{"id":6,"ativo":1}
	]`)
	got := Normalize(raw)
	require.Len(t, got, 6)
	assert.True(t, got[0].Ativo)
	assert.True(t, got[1].Ativo)
	assert.True(t, got[2].Ativo)
	assert.False(t, got[3].Ativo, `"1" is not "true"`)
	assert.False(t, got[4].Ativo)
	assert.False(t, got[5].Ativo)
}

func TestNormalizeStringNumericIDs(t *testing.T) {
	raw := decode(t, `[{"id":"12","usuarioId":"10","filialId":"2","painelId":"5"}]`)
	got := Normalize(raw)
	require.Len(t, got, 1)
	assert.Equal(t, Record{ID: 12, UsuarioID: 10, FilialID: 2, PainelID: 5}, got[0])
}

func TestNormalizeMalformedEntryDoesNotAbort(t *testing.T) {
	raw := []any{
		map[string]any{"id": float64(1), "ativo": true},
		"not a record",
		float64(42),
		map[string]any{"id": float64(2)},
	}
	got := Normalize(raw)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
}

func TestNormalizeUnknownShapesYieldEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize(42))
	assert.Empty(t, Normalize("plain string, not legacy"))
	assert.Empty(t, Normalize(map[string]any{"unrelated": "value"}))
	assert.Empty(t, Normalize(map[string]any{"permissoes": "not a list"}))
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize(decode(t, `[
		{"id":1,"user_id":10,"branch_id":2,"panel_id":5,"name":"acesso_lab","active":"true"}
	]`))

	// canonical output fed straight back in
	assert.Equal(t, first, Normalize(first))

	// and through a JSON round trip of the canonical encoding
	encoded, err := json.Marshal(first)
	require.NoError(t, err)
	assert.Equal(t, first, Normalize(decode(t, string(encoded))))
}

func TestNormalizeShapeIndependence(t *testing.T) {
	fromList := Normalize(decode(t, `[{"id":1,"usuarioId":10,"filialId":2,"painelId":5,"nome":"x","ativo":true}]`))
	fromWrapper := Normalize(decode(t, `{"permissoes":[{"id":1,"userId":10,"branchId":2,"panelId":5,"name":"x","active":"true"}]}`))
	fromLegacy := Normalize(`<l><permissao id="1" usuarioId="10" filialId="2" painelId="5" nome="x" ativo="true"/></l>`)

	assert.Equal(t, fromList, fromWrapper)
	assert.Equal(t, fromList, fromLegacy)
}
