package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"

	httpclient "github.com/salusbr/admincore/pkg/http"
	"github.com/salusbr/admincore/pkg/logger"
	"github.com/salusbr/admincore/pkg/session"
)

// PermissionClient fetches the raw permission payload for a user on a
// filial. The payload is returned undecoded; the session layer normalizes
// whatever shape the backend happens to send.
type PermissionClient struct {
	baseURL string
	client  httpclient.HTTPClient
	breaker *gobreaker.CircuitBreaker[any]
	log     logger.LogManager
}

// NewPermissionClient creates a client rooted at baseURL.
func NewPermissionClient(baseURL string, client httpclient.HTTPClient, log logger.LogManager) *PermissionClient {
	return &PermissionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[any](BreakerSettings("permissoes")),
		log:     log,
	}
}

// FetchPermissions implements session.Source.
func (c *PermissionClient) FetchPermissions(ctx context.Context, usuarioID, filialID int) (any, error) {
	url := fmt.Sprintf("%s/usuarios/%d/permissoes?filialId=%d", c.baseURL, usuarioID, filialID)

	payload, err := c.breaker.Execute(func() (any, error) {
		var out any
		if err := c.client.GetJSON(ctx, url, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		if c.log != nil {
			c.log.WarnF("busca de permissoes falhou (usuario=%d filial=%d): %v", usuarioID, filialID, err)
		}
		return nil, err
	}
	return payload, nil
}

var _ session.Source = (*PermissionClient)(nil)
