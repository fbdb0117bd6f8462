package persist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"storefront/internal/orders"
	"storefront/internal/products"
)

// Document keys used when an aggregate is wrapped in an object.
const (
	ItemsKey  = "items"
	OrdersKey = "orders"
)

// DecodeItems accepts a bare array, {"items": [...]}, or either of those
// inside a jsonbin {"record": ...} envelope. found is false when the payload
// holds no item list at all.
func DecodeItems(raw []byte) ([]products.Item, bool, error) {
	return decode[products.Item](raw, ItemsKey)
}

// DecodeOrders is DecodeItems for the order ledger.
func DecodeOrders(raw []byte) ([]orders.Order, bool, error) {
	return decode[orders.Order](raw, OrdersKey)
}

func decode[T any](raw []byte, key string) ([]T, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false, nil
	}

	if raw[0] == '[' {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, false, fmt.Errorf("decode %s: %w", key, err)
		}
		return nonNil(list), true, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	if rec, ok := obj["record"]; ok {
		return decode[T](rec, key)
	}
	inner, ok := obj[key]
	if !ok {
		return nil, false, nil
	}
	inner = bytes.TrimSpace(inner)
	if len(inner) == 0 || inner[0] != '[' {
		return nil, false, nil
	}
	var list []T
	if err := json.Unmarshal(inner, &list); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return nonNil(list), true, nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
