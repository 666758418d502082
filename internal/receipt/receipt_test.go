package receipt

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/parkingsystem/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedEvent(loyalty bool) kafka.TicketEvent {
	in := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	out := in.Add(45 * time.Minute)
	price := 0.75
	return kafka.TicketEvent{
		Type:             kafka.EventTicketClosed,
		TicketID:         12,
		SpotID:           4,
		Category:         "BIKE",
		VehicleRegNumber: "ABC",
		InTime:           in,
		OutTime:          &out,
		Price:            &price,
		Loyalty:          loyalty,
	}
}

func TestRender(t *testing.T) {
	text, err := Render(closedEvent(false))

	require.NoError(t, err)
	assert.Equal(t, "Ticket 12 | vehicle ABC | spot 4 BIKE | 2024-03-10T08:00:00Z - 2024-03-10T08:45:00Z | fare 0.75\n", text)

	text, err = Render(closedEvent(true))
	require.NoError(t, err)
	assert.Contains(t, text, "recurring client discount applied")
}

func TestSender_Send(t *testing.T) {
	var buf bytes.Buffer
	sender := NewSender(&buf)

	require.NoError(t, sender.Send(context.Background(), kafka.TicketEvent{Type: kafka.EventTicketOpened}))
	assert.Empty(t, buf.String())

	require.NoError(t, sender.Send(context.Background(), kafka.TicketEvent{Type: kafka.EventTicketClosed, TicketID: 3}))
	assert.Empty(t, buf.String())

	require.NoError(t, sender.Send(context.Background(), closedEvent(false)))
	assert.Contains(t, buf.String(), "Ticket 12")
}
