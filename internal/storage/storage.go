package storage

import (
	"context"
	"errors"

	"github.com/staywise/helpdesk/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the record store behind the helpdesk: tickets plus the
// customer and agent lists shown on the dashboard.
type Storage interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	ListTickets(ctx context.Context) ([]*models.Ticket, error)
	UpdateClassification(ctx context.Context, id string, category models.Category, sentiment, confidence float64, priority string) error
	UpdateStatus(ctx context.Context, id, status string) error

	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	ListAgents(ctx context.Context) ([]*models.Agent, error)

	TicketStats(ctx context.Context) (*models.TicketStats, error)

	Close() error
}
