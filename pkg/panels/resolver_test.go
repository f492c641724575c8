package panels

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descFetcher(fail map[int]bool) Fetcher {
	return FetcherFunc(func(_ context.Context, id int) (Panel, error) {
		if fail[id] {
			return Panel{}, errors.New("indisponivel")
		}
		return Panel{ID: id, Descricao: fmt.Sprintf("Painel %d", id)}, nil
	})
}

func TestResolveAll(t *testing.T) {
	got := Resolve(context.Background(), []int{5, 7, 9}, descFetcher(nil), nil)

	require.Len(t, got, 3)
	assert.Equal(t, []int{5, 7, 9}, got.IDs())
}

func TestResolvePartialFailure(t *testing.T) {
	got := Resolve(context.Background(), []int{5, 7, 9}, descFetcher(map[int]bool{7: true}), nil)

	require.Len(t, got, 2, "one failed lookup must not drop the others")
	assert.Equal(t, []int{5, 9}, got.IDs())
}

func TestResolveDeduplicates(t *testing.T) {
	var calls int32
	fetcher := FetcherFunc(func(_ context.Context, id int) (Panel, error) {
		atomic.AddInt32(&calls, 1)
		return Panel{ID: id, Descricao: "x"}, nil
	})

	got := Resolve(context.Background(), []int{5, 5, 0, 7, 5}, fetcher, nil)

	assert.Equal(t, []int{5, 7}, got.IDs())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "one lookup per distinct non-zero id")
}

func TestResolveEmpty(t *testing.T) {
	assert.Empty(t, Resolve(context.Background(), nil, descFetcher(nil), nil))
	assert.Empty(t, Resolve(context.Background(), []int{1}, nil, nil))
}

func TestListByDescription(t *testing.T) {
	list := List{{ID: 5, Descricao: "Laboratorio"}, {ID: 7, Descricao: "Internação"}}

	p, ok := list.ByDescription("laboratório")
	require.True(t, ok)
	assert.Equal(t, 5, p.ID)

	p, ok = list.ByDescription(" INTERNACAO ")
	require.True(t, ok)
	assert.Equal(t, 7, p.ID)

	_, ok = list.ByDescription("farmacia")
	assert.False(t, ok)
	_, ok = list.ByDescription("")
	assert.False(t, ok)
}

func TestListByID(t *testing.T) {
	list := List{{ID: 5, Descricao: "Laboratorio"}}

	p, ok := list.ByID(5)
	require.True(t, ok)
	assert.Equal(t, "Laboratorio", p.Descricao)

	_, ok = list.ByID(8)
	assert.False(t, ok)
}
