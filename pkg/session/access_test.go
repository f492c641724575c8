package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salusbr/admincore/pkg/permissions"
	"github.com/salusbr/admincore/pkg/routes"
)

// loadedManager builds a manager with a deterministic in-memory state:
// permission "acesso_lab" (ativo) on panel 5, "faturar" (inativo) on panel 7.
func loadedManager(t *testing.T) *Manager {
	t.Helper()
	payload := []any{
		map[string]any{"id": float64(1), "usuarioId": float64(10), "filialId": float64(1), "painelId": float64(5), "nome": "acesso_lab", "modulo": "laboratorio", "ativo": true},
		map[string]any{"id": float64(2), "usuarioId": float64(10), "filialId": float64(1), "painelId": float64(7), "nome": "faturar", "modulo": "faturamento", "ativo": false},
	}
	m := NewManager(
		WithSource(staticSource(payload)),
		WithPanelFetcher(staticPanels(map[int]string{5: "Laboratorio", 7: "Faturamento"})),
		WithRouteTable(routes.NewTable([]routes.Config{
			{Key: "laboratorio", PainelID: 5},
			{Key: "faturamento", DescricaoPainel: "Faturamento"},
			{Key: "rh", PainelID: 11, DescricaoPainel: "Recursos Humanos"},
		})),
	)
	m.Login(context.Background(), testUser(1))
	require.NoError(t, m.Reload(context.Background()))
	return m
}

func TestQueriesFailClosedWithoutFilial(t *testing.T) {
	m := loadedManager(t)
	require.True(t, m.HasPermission("acesso_lab"))

	// drop the filial: every query must answer "no access" regardless of
	// the stored permissions
	m.mu.Lock()
	m.user.FilialSelecionada = nil
	m.mu.Unlock()

	assert.False(t, m.HasPermission("acesso_lab"))
	assert.False(t, m.HasModulePermission("laboratorio"))
	assert.Empty(t, m.PermissionsForModule("laboratorio"))
	assert.False(t, m.HasPanelAccess(5))
	assert.False(t, m.HasPanelAccessByDescription("Laboratorio"))
	assert.Empty(t, m.AccessiblePanels())
	assert.Empty(t, m.FilteredPermissions(permissions.Criteria{}))
	assert.False(t, m.HasRouteAccess("laboratorio"))
}

func TestAtivoAsymmetry(t *testing.T) {
	m := loadedManager(t)

	assert.False(t, m.HasPermission("faturar"), "name check enforces ativo")
	assert.False(t, m.HasModulePermission("faturamento"))
	assert.True(t, m.HasPanelAccess(7), "panel-id check ignores ativo")
	assert.True(t, m.HasPanelAccessByDescription("faturamento"))
}

func TestHasPanelAccessByDescription(t *testing.T) {
	m := loadedManager(t)

	assert.True(t, m.HasPanelAccessByDescription("laboratório"), "accent-insensitive description match")
	assert.True(t, m.HasPanelAccessByDescription(" LABORATORIO "))
	assert.False(t, m.HasPanelAccessByDescription("internacao"), "unresolved description means no access")
}

func TestHasRouteAccess(t *testing.T) {
	m := loadedManager(t)

	assert.True(t, m.HasRouteAccess("laboratorio"), "granted via panel id")
	assert.True(t, m.HasRouteAccess("faturamento"), "granted via panel description only")
	assert.False(t, m.HasRouteAccess("rh"), "configured route without a matching grant")
	assert.False(t, m.HasRouteAccess("desconhecida"), "unknown route key")
}

func TestAccessiblePanels(t *testing.T) {
	m := loadedManager(t)

	list := m.AccessiblePanels()
	assert.Equal(t, []int{5, 7}, list.IDs())
}

func TestAccessiblePanelsWithPartialResolution(t *testing.T) {
	payload := []any{
		map[string]any{"id": float64(1), "painelId": float64(5), "ativo": true},
		map[string]any{"id": float64(2), "painelId": float64(7), "ativo": true},
		map[string]any{"id": float64(3), "painelId": float64(9), "ativo": true},
	}
	// panel 9 fails to resolve; the other two must survive
	m := NewManager(
		WithSource(staticSource(payload)),
		WithPanelFetcher(staticPanels(map[int]string{5: "Laboratorio", 7: "Faturamento"})),
	)
	m.Login(context.Background(), testUser(1))
	require.NoError(t, m.Reload(context.Background()))

	assert.Equal(t, []int{5, 7}, m.AccessiblePanels().IDs())
	assert.True(t, m.HasPanelAccess(9), "id check works straight off the permission records")
	assert.False(t, m.HasPanelAccessByDescription("painel 9"), "description check needs the resolved panel")
}

func TestEmptyPermissionSet(t *testing.T) {
	m := NewManager(WithSource(staticSource([]any{})))
	m.Login(context.Background(), testUser(1))
	require.NoError(t, m.Reload(context.Background()))

	assert.Empty(t, m.AccessiblePanels())
	assert.False(t, m.HasPermission("qualquer"))
	assert.False(t, m.HasModulePermission("qualquer"))
	assert.False(t, m.HasPanelAccess(1))
	assert.False(t, m.HasRouteAccess("laboratorio"))
}

func TestFilteredPermissions(t *testing.T) {
	m := loadedManager(t)

	ativos := m.FilteredPermissions(permissions.Criteria{Ativo: boolPtr(true)})
	require.Len(t, ativos, 1)
	assert.Equal(t, "acesso_lab", ativos[0].Nome)

	all := m.FilteredPermissions(permissions.Criteria{UsuarioID: intPtr(10)})
	assert.Len(t, all, 2)
}

func TestAccessiblePanelsAliasSafety(t *testing.T) {
	m := loadedManager(t)
	list := m.AccessiblePanels()
	require.NotEmpty(t, list)
	list[0].Descricao = "mutated"
	assert.Equal(t, "Laboratorio", m.AccessiblePanels()[0].Descricao)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
