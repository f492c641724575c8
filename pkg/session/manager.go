package session

import (
	"context"
	"sync"

	"github.com/salusbr/admincore/pkg/errors"
	"github.com/salusbr/admincore/pkg/logger"
	"github.com/salusbr/admincore/pkg/panels"
	"github.com/salusbr/admincore/pkg/permissions"
	"github.com/salusbr/admincore/pkg/routes"
)

// Source fetches the raw permission payload for one user on one filial.
// The payload may arrive in any of the shapes permissions.Normalize accepts.
type Source interface {
	FetchPermissions(ctx context.Context, usuarioID, filialID int) (any, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, usuarioID, filialID int) (any, error)

// FetchPermissions implements Source.
func (f SourceFunc) FetchPermissions(ctx context.Context, usuarioID, filialID int) (any, error) {
	return f(ctx, usuarioID, filialID)
}

// Metrics receives session lifecycle signals. Implementations live in
// pkg/observability; a nil Metrics is a no-op.
type Metrics interface {
	ReloadCompleted(ctx context.Context, success bool)
	AccessDenied(ctx context.Context, kind string)
}

// ErrNoFilial is returned by Reload when no filial is selected. Access
// queries treat the same condition as plain "no access", never as an error.
var ErrNoFilial = errors.New("nenhuma filial selecionada")

// Manager owns the canonical session state. All mutation happens under one
// mutex; reloads fetch outside the lock and apply their result only if the
// session epoch is unchanged, so a reload for a previous filial can never
// overwrite the state of the current one.
type Manager struct {
	log     logger.LogManager
	store   Store
	source  Source
	fetcher panels.Fetcher
	table   *routes.Table
	metrics Metrics

	mu       sync.RWMutex
	user     *User
	permSet  permissions.Set
	panelSet panels.List
	loading  bool
	err      error
	epoch    uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(log logger.LogManager) Option {
	return func(m *Manager) { m.log = log }
}

// WithStore sets the persisted session store.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithSource sets the permission-fetch collaborator.
func WithSource(source Source) Option {
	return func(m *Manager) { m.source = source }
}

// WithPanelFetcher sets the panel-lookup collaborator.
func WithPanelFetcher(fetcher panels.Fetcher) Option {
	return func(m *Manager) { m.fetcher = fetcher }
}

// WithRouteTable sets the route-to-panel configuration table.
func WithRouteTable(table *routes.Table) Option {
	return func(m *Manager) { m.table = table }
}

// WithMetrics sets the lifecycle metrics sink.
func WithMetrics(metrics Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager creates a Manager. Store defaults to an in-memory store and
// the route table to routes.DefaultTable.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		store:   NewMemoryStore(),
		table:   routes.DefaultTable(),
		permSet: permissions.Set{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login replaces the session with the given user and clears any previous
// permission state. Select a filial and Reload to populate permissions.
func (m *Manager) Login(ctx context.Context, user *User) {
	m.mu.Lock()
	m.user = user.clone()
	m.permSet = permissions.Set{}
	m.panelSet = panels.List{}
	m.err = nil
	m.epoch++
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(ctx, snap)
}

// SelectFilial switches the active filial and discards the permission state
// of the previous one. Callers reload afterwards; until then every access
// query answers "no access" for the new filial.
func (m *Manager) SelectFilial(ctx context.Context, filial Filial) error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return errors.New("nenhum usuario autenticado")
	}
	m.user.FilialSelecionada = &filial
	m.permSet = permissions.Set{}
	m.panelSet = panels.List{}
	m.err = nil
	m.epoch++
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(ctx, snap)
	return nil
}

// Logout discards the session and clears the persisted snapshot.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.user = nil
	m.permSet = permissions.Set{}
	m.panelSet = panels.List{}
	m.loading = false
	m.err = nil
	m.epoch++
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Clear(ctx); err != nil && m.log != nil {
			m.log.WarnF("falha ao limpar sessao persistida: %v", err)
		}
	}
}

// Reload rebuilds the permission set and panel list for the current user
// and filial. A reload already in flight makes concurrent calls no-ops; a
// filial switch or logout during the fetch makes the result stale and it is
// discarded. On fetch failure the persisted snapshot serves as an offline
// fallback before the error state is surfaced.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return nil
	}
	if m.user == nil || m.user.FilialSelecionada == nil {
		m.mu.Unlock()
		return ErrNoFilial
	}
	epoch := m.epoch
	usuarioID := m.user.ID
	filialID := m.user.FilialSelecionada.ID
	m.loading = true
	m.err = nil
	m.mu.Unlock()

	set, panelList, fetchErr := m.load(ctx, usuarioID, filialID)

	m.mu.Lock()
	m.loading = false
	if m.epoch != epoch {
		// session changed while the fetch was in flight; drop the result
		m.mu.Unlock()
		if m.log != nil {
			m.log.InfoF("recarga descartada: sessao mudou durante a busca (usuario=%d filial=%d)", usuarioID, filialID)
		}
		return nil
	}
	if fetchErr != nil {
		m.err = fetchErr
		m.mu.Unlock()
		m.record(ctx, false)
		return errors.Wrap(fetchErr, "recarga de permissoes falhou")
	}
	m.permSet = set
	m.panelSet = panelList
	m.err = nil
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(ctx, snap)
	m.record(ctx, true)
	return nil
}

// load fetches and normalizes permissions, then resolves panels. Runs
// outside the manager lock.
func (m *Manager) load(ctx context.Context, usuarioID, filialID int) (permissions.Set, panels.List, error) {
	if m.source == nil {
		return nil, nil, errors.New("fonte de permissoes nao configurada")
	}

	raw, err := m.source.FetchPermissions(ctx, usuarioID, filialID)
	if err != nil {
		if snap := m.fallbackSnapshot(ctx, usuarioID, filialID); snap != nil {
			if m.log != nil {
				m.log.WarnF("busca de permissoes falhou, usando snapshot persistido: %v", err)
			}
			return permissions.Set(permissions.Normalize(snap.Permissoes)), snap.Paineis, nil
		}
		return nil, nil, err
	}

	set := permissions.Set(permissions.Normalize(raw))
	resolved := panels.Resolve(ctx, set.PanelIDs(), m.fetcher, m.log)
	return set, resolved, nil
}

// fallbackSnapshot returns the persisted snapshot when it belongs to the
// same user and filial, otherwise nil.
func (m *Manager) fallbackSnapshot(ctx context.Context, usuarioID, filialID int) *Snapshot {
	if m.store == nil {
		return nil
	}
	snap, err := m.store.Load(ctx)
	if err != nil || snap == nil || snap.Usuario == nil {
		return nil
	}
	if snap.Usuario.ID != usuarioID || snap.Usuario.filialID() != filialID {
		return nil
	}
	return snap
}

// Restore loads the persisted snapshot into the manager, typically on
// process start. A missing snapshot is not an error.
func (m *Manager) Restore(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	snap, err := m.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "restauracao da sessao falhou")
	}
	if snap == nil || snap.Usuario == nil {
		return nil
	}

	m.mu.Lock()
	m.user = snap.Usuario.clone()
	m.permSet = permissions.Set(permissions.Normalize(snap.Permissoes))
	m.panelSet = snap.Paineis
	m.err = nil
	m.epoch++
	m.mu.Unlock()
	return nil
}

// CurrentUser returns a copy of the session user, or nil when logged out.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.clone()
}

// ActiveFilial returns the selected filial.
func (m *Manager) ActiveFilial() (Filial, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil || m.user.FilialSelecionada == nil {
		return Filial{}, false
	}
	return *m.user.FilialSelecionada, true
}

// Loading reports whether a reload is in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Err returns the error of the last failed reload, cleared by the next
// successful one.
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// snapshotLocked builds a Snapshot from current state. Caller holds mu.
func (m *Manager) snapshotLocked() *Snapshot {
	return &Snapshot{
		Usuario:    m.user.clone(),
		Permissoes: append([]permissions.Record(nil), m.permSet...),
		Paineis:    append(panels.List(nil), m.panelSet...),
		SalvoEm:    now(),
	}
}

func (m *Manager) persist(ctx context.Context, snap *Snapshot) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, snap); err != nil && m.log != nil {
		m.log.WarnF("falha ao persistir snapshot da sessao: %v", err)
	}
}

func (m *Manager) record(ctx context.Context, success bool) {
	if m.metrics != nil {
		m.metrics.ReloadCompleted(ctx, success)
	}
}
