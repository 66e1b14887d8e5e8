// Package esi talks to EVE Online's ESI API for immutable reference data.
package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lostfits/lostfits/internal/clients/httpc"
	"github.com/lostfits/lostfits/internal/config"
	"go.uber.org/fx"
)

// ErrNotFound mirrors the transport-level sentinel for callers that do not
// import httpc.
var ErrNotFound = httpc.ErrNotFound

// Module provides the shared ESI client with lifecycle cleanup.
var Module = fx.Module("clients.esi", fx.Provide(Provide))

// TypeInfo is the subset of an ESI type record the service keeps.
type TypeInfo struct {
	TypeID      int64  `json:"type_id"`
	Name        string `json:"name"`
	GroupID     *int64 `json:"group_id"`
	CategoryID  *int64 `json:"category_id"`
	MetagroupID *int   `json:"meta_group_id"`
}

// Client fetches reference data from ESI, paced to the configured QPS.
type Client struct {
	base string
	http *httpc.Client
}

func New(base string, opts ...httpc.Option) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: httpc.New(opts...),
	}
}

func Provide(lc fx.Lifecycle, cfg config.Config) *Client {
	c := New(cfg.ESIBase,
		httpc.WithUserAgent(cfg.ESIUserAgent),
		httpc.WithTimeout(secs(cfg.ESITimeoutSecs)),
		httpc.WithMaxQPS(cfg.ESIMaxQPS),
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			c.Close()
			return nil
		},
	})
	return c
}

// GetType fetches an item type record. Returns ErrNotFound for unknown IDs.
func (c *Client) GetType(ctx context.Context, typeID int64) (*TypeInfo, error) {
	body, err := c.http.Get(ctx, fmt.Sprintf("%s/universe/types/%d/", c.base, typeID))
	if err != nil {
		return nil, err
	}

	var info TypeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode type %d: %w", typeID, err)
	}
	info.TypeID = typeID
	return &info, nil
}

// GetKillmail fetches the full killmail detail behind an id/hash pair.
func (c *Client) GetKillmail(ctx context.Context, killmailID int64, hash string) (json.RawMessage, error) {
	body, err := c.http.Get(ctx, fmt.Sprintf("%s/killmails/%d/%s/", c.base, killmailID, hash))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() {
	c.http.Close()
}

func secs(n int) time.Duration { return time.Duration(n) * time.Second }
