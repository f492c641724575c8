package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salusbr/admincore/pkg/panels"
)

func testUser(filialID int) *User {
	u := &User{ID: 10, Nome: "Ana", Tipo: "admin"}
	if filialID != 0 {
		u.FilialSelecionada = &Filial{ID: filialID, Nome: "Matriz"}
	}
	return u
}

func staticSource(payload any) Source {
	return SourceFunc(func(context.Context, int, int) (any, error) {
		return payload, nil
	})
}

func staticPanels(list map[int]string) panels.Fetcher {
	return panels.FetcherFunc(func(_ context.Context, id int) (panels.Panel, error) {
		desc, ok := list[id]
		if !ok {
			return panels.Panel{}, errors.New("painel desconhecido")
		}
		return panels.Panel{ID: id, Descricao: desc}, nil
	})
}

func labPayload() []any {
	return []any{
		map[string]any{"id": float64(1), "usuarioId": float64(10), "filialId": float64(1), "painelId": float64(5), "nome": "acesso_lab", "modulo": "laboratorio", "ativo": true},
	}
}

func TestReloadPopulatesState(t *testing.T) {
	m := NewManager(
		WithSource(staticSource(labPayload())),
		WithPanelFetcher(staticPanels(map[int]string{5: "Laboratorio"})),
	)
	m.Login(context.Background(), testUser(1))

	require.NoError(t, m.Reload(context.Background()))

	assert.True(t, m.HasPermission("acesso_lab"))
	assert.True(t, m.HasPanelAccess(5))
	assert.False(t, m.Loading())
	assert.NoError(t, m.Err())
}

func TestReloadWithoutFilial(t *testing.T) {
	m := NewManager(WithSource(staticSource(labPayload())))
	m.Login(context.Background(), testUser(0))

	assert.ErrorIs(t, m.Reload(context.Background()), ErrNoFilial)
}

func TestReloadConcurrentCallsIgnored(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	source := SourceFunc(func(context.Context, int, int) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return labPayload(), nil
	})

	m := NewManager(WithSource(source))
	m.Login(context.Background(), testUser(1))

	done := make(chan error, 1)
	go func() { done <- m.Reload(context.Background()) }()

	require.Eventually(t, m.Loading, time.Second, time.Millisecond)

	// a reload is in flight; this call must be a no-op
	require.NoError(t, m.Reload(context.Background()))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, m.HasPermission("acesso_lab"))
}

func TestReloadStaleResultDiscardedOnFilialSwitch(t *testing.T) {
	release := make(chan struct{})
	source := SourceFunc(func(_ context.Context, _, filialID int) (any, error) {
		if filialID == 1 {
			<-release
			return labPayload(), nil
		}
		return []any{
			map[string]any{"id": float64(2), "usuarioId": float64(10), "filialId": float64(2), "nome": "faturar", "modulo": "faturamento", "ativo": true},
		}, nil
	})

	m := NewManager(WithSource(source))
	m.Login(context.Background(), testUser(1))

	done := make(chan error, 1)
	go func() { done <- m.Reload(context.Background()) }()
	require.Eventually(t, m.Loading, time.Second, time.Millisecond)

	// switch filial while the reload for filial 1 is in flight
	require.NoError(t, m.SelectFilial(context.Background(), Filial{ID: 2, Nome: "Unidade Sul"}))
	close(release)
	require.NoError(t, <-done)

	assert.False(t, m.HasPermission("acesso_lab"), "stale filial-1 result must be discarded")

	require.NoError(t, m.Reload(context.Background()))
	assert.True(t, m.HasPermission("faturar"))
	assert.False(t, m.HasPermission("acesso_lab"))
}

func TestReloadFullFailureSetsError(t *testing.T) {
	source := SourceFunc(func(context.Context, int, int) (any, error) {
		return nil, errors.New("backend fora do ar")
	})

	m := NewManager(WithSource(source), WithStore(nil))
	m.Login(context.Background(), testUser(1))

	require.Error(t, m.Reload(context.Background()))
	assert.Error(t, m.Err())
	assert.False(t, m.HasPermission("acesso_lab"))

	// recovery clears the error state
	m.source = staticSource(labPayload())
	require.NoError(t, m.Reload(context.Background()))
	assert.NoError(t, m.Err())
	assert.True(t, m.HasPermission("acesso_lab"))
}

func TestReloadFallsBackToSnapshot(t *testing.T) {
	store := NewMemoryStore()

	// seed the store through a successful session
	seed := NewManager(
		WithStore(store),
		WithSource(staticSource(labPayload())),
		WithPanelFetcher(staticPanels(map[int]string{5: "Laboratorio"})),
	)
	seed.Login(context.Background(), testUser(1))
	require.NoError(t, seed.Reload(context.Background()))

	// a new process whose live fetch fails must serve the snapshot
	failing := SourceFunc(func(context.Context, int, int) (any, error) {
		return nil, errors.New("sem rede")
	})
	m := NewManager(WithStore(store), WithSource(failing))
	require.NoError(t, m.Restore(context.Background()))
	require.NoError(t, m.Reload(context.Background()))

	assert.True(t, m.HasPermission("acesso_lab"))
	assert.True(t, m.HasPanelAccessByDescription("laboratório"))
}

func TestSnapshotFallbackRejectedForOtherFilial(t *testing.T) {
	store := NewMemoryStore()
	seed := NewManager(WithStore(store), WithSource(staticSource(labPayload())))
	seed.Login(context.Background(), testUser(1))
	require.NoError(t, seed.Reload(context.Background()))

	failing := SourceFunc(func(context.Context, int, int) (any, error) {
		return nil, errors.New("sem rede")
	})
	m := NewManager(WithStore(store), WithSource(failing))
	m.Login(context.Background(), testUser(2))

	require.Error(t, m.Reload(context.Background()), "snapshot of filial 1 must not serve filial 2")
	assert.False(t, m.HasPermission("acesso_lab"))
}

func TestLogoutClearsState(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(WithStore(store), WithSource(staticSource(labPayload())))
	m.Login(context.Background(), testUser(1))
	require.NoError(t, m.Reload(context.Background()))

	m.Logout(context.Background())

	assert.Nil(t, m.CurrentUser())
	assert.False(t, m.HasPermission("acesso_lab"))
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap, "persisted snapshot cleared on logout")
}

func TestSelectFilialDiscardsPreviousPermissions(t *testing.T) {
	m := NewManager(WithSource(staticSource(labPayload())))
	m.Login(context.Background(), testUser(1))
	require.NoError(t, m.Reload(context.Background()))
	require.True(t, m.HasPermission("acesso_lab"))

	require.NoError(t, m.SelectFilial(context.Background(), Filial{ID: 2, Nome: "Unidade Sul"}))

	assert.False(t, m.HasPermission("acesso_lab"), "state is replaced, never merged across filiais")
	filial, ok := m.ActiveFilial()
	require.True(t, ok)
	assert.Equal(t, 2, filial.ID)
}

func TestRestoreEmptyStore(t *testing.T) {
	m := NewManager(WithStore(NewMemoryStore()))
	require.NoError(t, m.Restore(context.Background()))
	assert.Nil(t, m.CurrentUser())
}

func TestCurrentUserReturnsCopy(t *testing.T) {
	m := NewManager()
	m.Login(context.Background(), testUser(1))

	u := m.CurrentUser()
	require.NotNil(t, u)
	u.FilialSelecionada.ID = 99

	filial, ok := m.ActiveFilial()
	require.True(t, ok)
	assert.Equal(t, 1, filial.ID, "callers must not alias manager state")
}
