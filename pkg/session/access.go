package session

import (
	"context"

	"github.com/salusbr/admincore/pkg/panels"
	"github.com/salusbr/admincore/pkg/permissions"
)

// Access queries. Every query returns false or an empty collection when no
// filial is selected; that precondition is a normal "no access" answer, not
// an error, and is checked before the permission contents are consulted.

// HasPermission reports whether the session holds an active permission with
// the given name.
func (m *Manager) HasPermission(nome string) bool {
	m.mu.RLock()
	granted := m.filialSelectedLocked() && m.permSet.HasName(nome)
	m.mu.RUnlock()
	if !granted {
		m.deny("nome")
	}
	return granted
}

// HasModulePermission reports whether the session holds an active
// permission tagged with the given module.
func (m *Manager) HasModulePermission(modulo string) bool {
	m.mu.RLock()
	granted := m.filialSelectedLocked() && m.permSet.HasModule(modulo)
	m.mu.RUnlock()
	if !granted {
		m.deny("modulo")
	}
	return granted
}

// PermissionsForModule collects the active permissions of the given module.
func (m *Manager) PermissionsForModule(modulo string) []permissions.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.filialSelectedLocked() {
		return []permissions.Record{}
	}
	return m.permSet.ByModule(modulo)
}

// HasPanelAccess reports whether any permission references the panel id.
// Ativo is deliberately not required here; see permissions.Set.HasPanel.
func (m *Manager) HasPanelAccess(painelID int) bool {
	m.mu.RLock()
	granted := m.hasPanelAccessLocked(painelID)
	m.mu.RUnlock()
	if !granted {
		m.deny("painel")
	}
	return granted
}

// HasPanelAccessByDescription resolves the description against the resolved
// panel list and delegates to the id check. An unresolved description means
// no access.
func (m *Manager) HasPanelAccessByDescription(descricao string) bool {
	m.mu.RLock()
	granted := m.hasPanelAccessByDescriptionLocked(descricao)
	m.mu.RUnlock()
	if !granted {
		m.deny("painel")
	}
	return granted
}

// AccessiblePanels returns the resolved panels the session can enter.
func (m *Manager) AccessiblePanels() panels.List {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(panels.List, 0, len(m.panelSet))
	if !m.filialSelectedLocked() {
		return out
	}
	for _, p := range m.panelSet {
		if m.permSet.HasPanel(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// FilteredPermissions returns the records matching the criteria.
func (m *Manager) FilteredPermissions(c permissions.Criteria) []permissions.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.filialSelectedLocked() {
		return []permissions.Record{}
	}
	return m.permSet.Filter(c)
}

// HasRouteAccess reports whether the session may enter the route. Either a
// matching panel id or a matching panel description suffices; backends have
// shipped route configs with only one of the two identifiers.
func (m *Manager) HasRouteAccess(routeKey string) bool {
	m.mu.RLock()
	granted := false
	if m.filialSelectedLocked() {
		if cfg, ok := m.table.Lookup(routeKey); ok {
			granted = (cfg.PainelID != 0 && m.hasPanelAccessLocked(cfg.PainelID)) ||
				(cfg.DescricaoPainel != "" && m.hasPanelAccessByDescriptionLocked(cfg.DescricaoPainel))
		}
	}
	m.mu.RUnlock()
	if !granted {
		m.deny("rota")
	}
	return granted
}

func (m *Manager) hasPanelAccessLocked(painelID int) bool {
	return m.filialSelectedLocked() && m.permSet.HasPanel(painelID)
}

func (m *Manager) hasPanelAccessByDescriptionLocked(descricao string) bool {
	if !m.filialSelectedLocked() {
		return false
	}
	panel, ok := m.panelSet.ByDescription(descricao)
	if !ok {
		return false
	}
	return m.permSet.HasPanel(panel.ID)
}

func (m *Manager) filialSelectedLocked() bool {
	return m.user != nil && m.user.FilialSelecionada != nil
}

func (m *Manager) deny(kind string) {
	if m.metrics != nil {
		m.metrics.AccessDenied(context.Background(), kind)
	}
}
