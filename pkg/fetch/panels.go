package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"

	httpclient "github.com/salusbr/admincore/pkg/http"
	"github.com/salusbr/admincore/pkg/panels"
)

// PanelClient resolves panel ids against the backend catalogue.
type PanelClient struct {
	baseURL string
	client  httpclient.HTTPClient
	breaker *gobreaker.CircuitBreaker[panels.Panel]
}

// NewPanelClient creates a client rooted at baseURL.
func NewPanelClient(baseURL string, client httpclient.HTTPClient) *PanelClient {
	return &PanelClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[panels.Panel](BreakerSettings("paineis")),
	}
}

// FetchPanel implements panels.Fetcher. Failures surface to the resolver,
// which tolerates individual unresolved panels.
func (c *PanelClient) FetchPanel(ctx context.Context, painelID int) (panels.Panel, error) {
	url := fmt.Sprintf("%s/paineis/%d", c.baseURL, painelID)

	return c.breaker.Execute(func() (panels.Panel, error) {
		var out panels.Panel
		if err := c.client.GetJSON(ctx, url, &out); err != nil {
			return panels.Panel{}, err
		}
		return out, nil
	})
}

var _ panels.Fetcher = (*PanelClient)(nil)
