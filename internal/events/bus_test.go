package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/products"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu   sync.Mutex
	got  []Name
	fail bool
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, ev.Name)
	if s.fail {
		return errors.New("sink down")
	}
	return nil
}

func (s *recordingSink) names() []Name {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Name(nil), s.got...)
}

func TestBusDeliversInPublishOrder(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{fail: true}
	bus := NewBus(16, a, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bus.Run(ctx)
		close(done)
	}()

	bus.Publish(
		OrderPlaced(orderFixture()),
		StockChanged(products.Item{ID: "1", Stock: 2}),
		LedgerChanged(nil),
	)

	want := []Name{NewOrder, StockUpdate, OrdersUpdate}
	require.Eventually(t, func() bool { return len(a.names()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, want, a.names())
	assert.Equal(t, want, b.names(), "a failing sink still sees every event")

	cancel()
	<-done
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus(1)
	bus.Publish(ItemDeleted("1"), ItemDeleted("2"), ItemDeleted("3"))
	assert.Equal(t, uint64(2), bus.Dropped())
}

func TestBusCloseDrainsQueued(t *testing.T) {
	sink := &recordingSink{}
	bus := NewBus(8, sink)
	bus.Publish(ItemDeleted("1"), ItemDeleted("2"))
	bus.Close()
	bus.Publish(ItemDeleted("3"))

	bus.Run(context.Background())
	assert.Len(t, sink.names(), 2)
}

func TestEventFrames(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{
			name: "item added",
			ev:   ItemAdded(products.Item{ID: "9", Title: "Tea", Price: decimal.NewFromInt(4), Img: "/i.svg", Active: true}),
			want: `{"event":"itemsUpdate","data":{"action":"add","item":{"id":"9","title":"Tea","price":4,"description":"","stock":0,"img":"/i.svg","active":true}}}`,
		},
		{
			name: "item deleted",
			ev:   ItemDeleted("9"),
			want: `{"event":"itemsUpdate","data":{"action":"delete","id":"9"}}`,
		},
		{
			name: "stock",
			ev:   StockChanged(products.Item{ID: "1", Stock: 12}),
			want: `{"event":"stockUpdate","data":{"id":"1","stock":12}}`,
		},
		{
			name: "empty ledger",
			ev:   LedgerChanged(nil),
			want: `{"event":"ordersUpdate","data":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}
