package receipt

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Domenick1991/parkingsystem/internal/kafka"
	"github.com/Domenick1991/parkingsystem/internal/logging"
)

type Sender struct {
	out io.Writer
}

func NewSender(out io.Writer) *Sender {
	return &Sender{out: out}
}

// Send prints a receipt for a closed ticket. Other event types are ignored.
func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	if event.Type != kafka.EventTicketClosed {
		return nil
	}
	text, err := Render(event)
	if err != nil {
		logging.Warnf(ctx, "skip receipt for ticket %d: %v", event.TicketID, err)
		return nil
	}
	_, err = io.WriteString(s.out, text)
	return err
}

func Render(event kafka.TicketEvent) (string, error) {
	if event.OutTime == nil || event.Price == nil {
		return "", fmt.Errorf("ticket %d is not closed", event.TicketID)
	}
	discount := ""
	if event.Loyalty {
		discount = " (recurring client discount applied)"
	}
	return fmt.Sprintf("Ticket %d | vehicle %s | spot %d %s | %s - %s | fare %.2f%s\n",
		event.TicketID,
		event.VehicleRegNumber,
		event.SpotID,
		event.Category,
		event.InTime.Format(time.RFC3339),
		event.OutTime.Format(time.RFC3339),
		*event.Price,
		discount,
	), nil
}
