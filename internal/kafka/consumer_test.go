package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage_DecodesEvent(t *testing.T) {
	var got TicketEvent
	err := HandleMessage(context.Background(), kafka.Message{
		Value: []byte(`{"type":"ticket_closed","ticket_id":3,"spot_id":1,"category":"CAR","price":1.5}`),
	}, func(_ context.Context, event TicketEvent) error {
		got = event
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, EventTicketClosed, got.Type)
	assert.Equal(t, int64(3), got.TicketID)
	require.NotNil(t, got.Price)
	assert.Equal(t, 1.5, *got.Price)
}

func TestHandleMessage_SkipsGarbage(t *testing.T) {
	called := false
	err := HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")},
		func(context.Context, TicketEvent) error {
			called = true
			return nil
		})

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestHandleMessage_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	err := HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"type":"ticket_opened","ticket_id":9}`)},
		func(context.Context, TicketEvent) error { return boom })

	assert.ErrorIs(t, err, boom)
}

func TestConsumer_CloseNil(t *testing.T) {
	var c *Consumer
	assert.NoError(t, c.Close())
}
