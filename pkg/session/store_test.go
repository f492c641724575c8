package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salusbr/admincore/pkg/panels"
	"github.com/salusbr/admincore/pkg/permissions"
)

func redisTestStore(t *testing.T) Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "", 0)
}

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Usuario: &User{ID: 10, Nome: "Ana", Tipo: "admin", FilialSelecionada: &Filial{ID: 1, Nome: "Matriz"}},
		Permissoes: []permissions.Record{
			{ID: 1, UsuarioID: 10, FilialID: 1, PainelID: 5, Nome: "acesso_lab", Modulo: "laboratorio", Ativo: true},
		},
		Paineis: panels.List{{ID: 5, Descricao: "Laboratorio"}},
		SalvoEm: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := redisTestStore(t)
	ctx := context.Background()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap, "empty store loads as absent")

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sampleSnapshot(), loaded)

	require.NoError(t, store.Clear(ctx))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStoreCorruptSnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, "", 0)

	require.NoError(t, client.Set(context.Background(), DefaultStoreKey, "{nao é json", 0).Err())

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap, "corrupt snapshot treated as absent")
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), loaded)

	require.NoError(t, store.Clear(ctx))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
