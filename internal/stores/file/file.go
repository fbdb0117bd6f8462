// Package file stores the aggregates as items.json and orders.json in a
// directory, with an optional timestamped backup of every write.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"storefront/internal/orders"
	"storefront/internal/persist"
	"storefront/internal/products"
)

const (
	ItemsFile  = "items.json"
	OrdersFile = "orders.json"
)

type Store struct {
	dir       string
	backupDir string
	now       func() time.Time

	mu sync.Mutex
}

// New returns a store rooted at dir. An empty backupDir disables backups.
func New(dir, backupDir string) *Store {
	return &Store{dir: dir, backupDir: backupDir, now: time.Now}
}

func (s *Store) Name() string { return "file" }

func (s *Store) LoadItems(ctx context.Context) ([]products.Item, bool, error) {
	raw, err := s.read(ItemsFile)
	if err != nil || raw == nil {
		return nil, false, err
	}
	return persist.DecodeItems(raw)
}

func (s *Store) LoadOrders(ctx context.Context) ([]orders.Order, bool, error) {
	raw, err := s.read(OrdersFile)
	if err != nil || raw == nil {
		return nil, false, err
	}
	return persist.DecodeOrders(raw)
}

func (s *Store) SaveItems(ctx context.Context, items []products.Item) error {
	if items == nil {
		items = []products.Item{}
	}
	return s.write(ItemsFile, items)
}

func (s *Store) SaveOrders(ctx context.Context, all []orders.Order) error {
	if all == nil {
		all = []orders.Order{}
	}
	return s.write(OrdersFile, all)
}

func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(filepath.Join(s.dir, name), data); err != nil {
		return err
	}
	if s.backupDir == "" {
		return nil
	}
	// A failed backup does not undo the write it follows.
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	bak := filepath.Join(s.backupDir, name+"."+stamp+".bak")
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := os.WriteFile(bak, data, 0o644); err != nil {
		return fmt.Errorf("write backup %s: %w", bak, err)
	}
	return nil
}

// writeAtomic replaces path so readers see either the old or the new content.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
