// Package events defines the change notifications the storefront emits and the
// bus that delivers them to sinks (websocket clients, Kafka) in publish order.
package events

import (
	"storefront/internal/orders"
	"storefront/internal/products"
)

type Name string

const (
	ItemsUpdate    Name = "itemsUpdate"
	StockUpdate    Name = "stockUpdate"
	NewOrder       Name = "newOrder"
	OrdersUpdate   Name = "ordersUpdate"
	OrderCancelled Name = "orderCancelled"
)

// Event is also the websocket frame: {"event": name, "data": payload}.
type Event struct {
	Name Name `json:"event"`
	Data any  `json:"data"`
}

const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ItemChange is the itemsUpdate payload. Delete carries only the id.
type ItemChange struct {
	Action string         `json:"action"`
	Item   *products.Item `json:"item,omitempty"`
	ID     string         `json:"id,omitempty"`
}

type StockChange struct {
	ID    string `json:"id"`
	Stock int    `json:"stock"`
}

type Cancellation struct {
	Order  orders.Order `json:"order"`
	Reason string       `json:"reason"`
}

func ItemAdded(it products.Item) Event {
	return Event{Name: ItemsUpdate, Data: ItemChange{Action: ActionAdd, Item: &it}}
}

func ItemUpdated(it products.Item) Event {
	return Event{Name: ItemsUpdate, Data: ItemChange{Action: ActionUpdate, Item: &it}}
}

func ItemDeleted(id string) Event {
	return Event{Name: ItemsUpdate, Data: ItemChange{Action: ActionDelete, ID: id}}
}

func StockChanged(it products.Item) Event {
	return Event{Name: StockUpdate, Data: StockChange{ID: it.ID, Stock: it.Stock}}
}

func OrderPlaced(o orders.Order) Event {
	return Event{Name: NewOrder, Data: o}
}

// LedgerChanged carries the whole ledger; all must already be a copy.
func LedgerChanged(all []orders.Order) Event {
	if all == nil {
		all = []orders.Order{}
	}
	return Event{Name: OrdersUpdate, Data: all}
}

func Cancelled(o orders.Order, reason string) Event {
	return Event{Name: OrderCancelled, Data: Cancellation{Order: o, Reason: reason}}
}
