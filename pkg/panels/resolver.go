package panels

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/salusbr/admincore/pkg/logger"
)

// Resolve looks up every distinct panel id concurrently and returns the
// descriptors that resolved. A failed lookup is logged and skipped; one bad
// panel id must not blank out an otherwise usable permission set. The
// result is unique by id and sorted by id for stable output.
func Resolve(ctx context.Context, painelIDs []int, fetcher Fetcher, log logger.LogManager) List {
	distinct := dedupe(painelIDs)
	if len(distinct) == 0 || fetcher == nil {
		return List{}
	}

	var mu sync.Mutex
	resolved := make(List, 0, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range distinct {
		g.Go(func() error {
			panel, err := fetcher.FetchPanel(gctx, id)
			if err != nil {
				if log != nil {
					log.WarnF("painel %d nao resolvido: %v", id, err)
				}
				// partial failure tolerated
				return nil
			}
			mu.Lock()
			resolved = append(resolved, panel)
			mu.Unlock()
			return nil
		})
	}
	// goroutines never return an error; Wait only synchronizes
	_ = g.Wait()

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].ID < resolved[j].ID })
	return resolved
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
