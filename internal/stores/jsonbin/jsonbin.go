// Package jsonbin keeps each aggregate in a jsonbin.io v3 bin as
// {"items": [...]} or {"orders": [...]}.
package jsonbin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront/internal/orders"
	"storefront/internal/persist"
	"storefront/internal/products"

	"github.com/hashicorp/go-cleanhttp"
)

const DefaultBaseURL = "https://api.jsonbin.io/v3/b"

// ErrNoBin is returned for an aggregate whose bin id is not configured.
var ErrNoBin = errors.New("jsonbin: no bin configured")

type Config struct {
	BaseURL     string
	ItemsBinID  string
	OrdersBinID string
	MasterKey   string
}

type Store struct {
	cfg    Config
	client *http.Client
}

// New uses a pooled cleanhttp client when client is nil.
func New(cfg Config, client *http.Client) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	return &Store{cfg: cfg, client: client}
}

func (s *Store) Name() string { return "jsonbin" }

func (s *Store) LoadItems(ctx context.Context) ([]products.Item, bool, error) {
	raw, err := s.get(ctx, s.cfg.ItemsBinID)
	if err != nil {
		return nil, false, err
	}
	return persist.DecodeItems(raw)
}

func (s *Store) LoadOrders(ctx context.Context) ([]orders.Order, bool, error) {
	raw, err := s.get(ctx, s.cfg.OrdersBinID)
	if err != nil {
		return nil, false, err
	}
	return persist.DecodeOrders(raw)
}

func (s *Store) SaveItems(ctx context.Context, items []products.Item) error {
	if items == nil {
		items = []products.Item{}
	}
	return s.put(ctx, s.cfg.ItemsBinID, map[string]any{persist.ItemsKey: items})
}

func (s *Store) SaveOrders(ctx context.Context, all []orders.Order) error {
	if all == nil {
		all = []orders.Order{}
	}
	return s.put(ctx, s.cfg.OrdersBinID, map[string]any{persist.OrdersKey: all})
}

func (s *Store) get(ctx context.Context, bin string) ([]byte, error) {
	if bin == "" {
		return nil, ErrNoBin
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/"+bin+"/latest", nil)
	if err != nil {
		return nil, fmt.Errorf("build jsonbin request: %w", err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsonbin GET %s: %w", bin, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read jsonbin response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("jsonbin GET %s failed: %d %s", bin, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// put writes with PUT and retries once with POST, which some bin setups expect.
func (s *Store) put(ctx context.Context, bin string, payload any) error {
	if bin == "" {
		return ErrNoBin
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal jsonbin payload: %w", err)
	}

	status, msg, err := s.send(ctx, http.MethodPut, bin, body)
	if err == nil && status >= 200 && status <= 299 {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("jsonbin PUT %s: %w", bin, ctx.Err())
	}

	status2, _, err2 := s.send(ctx, http.MethodPost, bin, body)
	if err2 == nil && status2 >= 200 && status2 <= 299 {
		return nil
	}
	if err != nil {
		return fmt.Errorf("jsonbin write %s failed: %w", bin, err)
	}
	return fmt.Errorf("jsonbin write %s failed: %d %s", bin, status, msg)
}

func (s *Store) send(ctx context.Context, method, bin string, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.cfg.BaseURL+"/"+bin, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, strings.TrimSpace(string(msg)), nil
}

func (s *Store) authorize(req *http.Request) {
	if s.cfg.MasterKey != "" {
		req.Header.Set("X-Master-Key", s.cfg.MasterKey)
	}
}
