package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/events"
	"storefront/internal/products"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) Produce(_ context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	f.records = append(f.records, r)
	promise(r, f.err)
}

func TestPublisherDeliver(t *testing.T) {
	fp := &fakeProducer{}
	p := newPublisher(fp, "")
	p.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, p.Deliver(context.Background(), events.StockChanged(products.Item{ID: "1", Stock: 4})))
	require.Len(t, fp.records, 1)

	r := fp.records[0]
	assert.Equal(t, DefaultTopic, r.Topic)
	assert.Equal(t, "stockUpdate", string(r.Key))

	var got StructureOfEvent
	require.NoError(t, json.Unmarshal(r.Value, &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "stockUpdate", got.Name)
	assert.JSONEq(t, `{"id":"1","stock":4}`, string(got.Data))
	assert.Equal(t, p.now(), got.CreatedAt)
}

func TestPublisherProduceFailureIsNotReturned(t *testing.T) {
	fp := &fakeProducer{err: errors.New("broker down")}
	p := newPublisher(fp, "custom")

	assert.NoError(t, p.Deliver(context.Background(), events.ItemDeleted("1")))
	require.Len(t, fp.records, 1)
	assert.Equal(t, "custom", fp.records[0].Topic)
}

func TestPublisherRejectsUnencodablePayload(t *testing.T) {
	p := newPublisher(&fakeProducer{}, "")
	err := p.Deliver(context.Background(), events.Event{Name: "bad", Data: make(chan int)})
	assert.Error(t, err)
}
