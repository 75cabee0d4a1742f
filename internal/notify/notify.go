package notify

import (
	"fmt"
	"strings"

	"github.com/staywise/helpdesk/internal/models"
	"go.uber.org/zap"
)

// Notifier alerts the on-call support channel about an urgent ticket.
// Delivery is best-effort: failures are logged by callers, never fatal.
type Notifier interface {
	NotifyUrgentTicket(ticket *models.Ticket, indicators []string) error
}

// Multi fans one notification out to every configured channel. Errors are
// collected so one failing channel does not mute the others.
type Multi struct {
	notifiers []Notifier
	logger    *zap.Logger
}

func NewMulti(logger *zap.Logger, notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers, logger: logger}
}

func (m *Multi) NotifyUrgentTicket(ticket *models.Ticket, indicators []string) error {
	var failed int
	for _, n := range m.notifiers {
		if err := n.NotifyUrgentTicket(ticket, indicators); err != nil {
			failed++
			m.logger.Error("urgent ticket notification failed",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d notification channels failed", failed, len(m.notifiers))
	}
	return nil
}

func formatMessage(ticket *models.Ticket, indicators []string) string {
	return fmt.Sprintf("Urgent ticket %s [%s/%s]: %s\nSignals: %s",
		ticket.ID, ticket.Category, ticket.Priority, ticket.Title,
		strings.Join(indicators, "; "))
}
