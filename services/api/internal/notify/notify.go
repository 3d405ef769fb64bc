// Package notify is the outbound notification boundary. Actual email
// delivery lives outside this service; the default implementation only
// records what would have been sent.
package notify

import (
	"context"
	"log"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
)

// LogNotifier writes ticket notifications to the log instead of sending
// mail. Reservation flows treat notification failures as best-effort, so
// swapping in a real sender never changes booking semantics.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendTicket(ctx context.Context, email string, msg app.TicketMessage) error {
	n.logger.Printf("ticket notification to=%s course=%q url=%s", email, msg.CourseTitle, msg.TicketURL)
	return nil
}
