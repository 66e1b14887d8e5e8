// Package zkill polls the zKillboard RedisQ feed for killmail packages.
package zkill

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/lostfits/lostfits/internal/clients/httpc"
	"github.com/lostfits/lostfits/internal/config"
	"go.uber.org/fx"
)

// Module provides the shared feed client with lifecycle cleanup.
var Module = fx.Module("clients.zkill", fx.Provide(Provide))

// Package is one feed item. Raw preserves the package object verbatim for
// replay and audit.
type Package struct {
	KillID int64 `json:"killID"`
	ZKB    struct {
		Hash string `json:"hash"`
	} `json:"zkb"`
	Killmail json.RawMessage `json:"killmail"`
	Raw      json.RawMessage `json:"-"`
}

// Client polls RedisQ. The queue ID identifies this consumer; RedisQ
// deduplicates delivery per queue, not globally.
type Client struct {
	endpoint string
	http     *httpc.Client
}

func New(endpoint string, opts ...httpc.Option) *Client {
	return &Client{
		endpoint: endpoint,
		http:     httpc.New(opts...),
	}
}

func Provide(lc fx.Lifecycle, cfg config.Config) *Client {
	// RedisQ allows roughly one request per second; pace at 1 qps so an
	// aggressive scheduler cannot trip the upstream limiter.
	c := New(cfg.ZKillURL,
		httpc.WithTimeout(time.Duration(cfg.ZKillTimeoutSecs)*time.Second),
		httpc.WithMaxQPS(1),
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			c.Close()
			return nil
		},
	})
	return c
}

// Fetch pulls the next package from the queue. An empty queue returns
// (nil, nil); it is an expected outcome, not a failure.
func (c *Client) Fetch(ctx context.Context, queueID string) (*Package, error) {
	u := fmt.Sprintf("%s?queueID=%s", c.endpoint, url.QueryEscape(queueID))
	body, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Package json.RawMessage `json:"package"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	if len(envelope.Package) == 0 || string(envelope.Package) == "null" {
		return nil, nil
	}

	var pkg Package
	if err := json.Unmarshal(envelope.Package, &pkg); err != nil {
		return nil, fmt.Errorf("decode feed package: %w", err)
	}
	pkg.Raw = envelope.Package
	return &pkg, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() {
	c.http.Close()
}
