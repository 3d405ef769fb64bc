package notify

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
)

var _ app.TicketNotifier = (*LogNotifier)(nil)

func TestLogNotifier_SendTicket(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewLogNotifier(log.New(&buf, "", 0))

	err := n.SendTicket(context.Background(), "a@example.com", app.TicketMessage{
		CourseTitle: "Breaking Weekend",
		TicketURL:   "https://skult.example/ticket/abcdef",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "a@example.com") || !strings.Contains(out, "https://skult.example/ticket/abcdef") {
		t.Fatalf("expected recipient and url in log, got %q", out)
	}
}
