package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/staywise/helpdesk/internal/models"
)

// MemoryStorage is the zero-setup backend used for demos and tests.
type MemoryStorage struct {
	mu        sync.RWMutex
	tickets   map[string]*models.Ticket
	customers map[string]*models.Customer
	agents    []*models.Agent
}

func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{
		tickets:   make(map[string]*models.Ticket),
		customers: make(map[string]*models.Customer),
	}
	s.seed()
	return s
}

// seed loads the demo roster shown on the dashboard.
func (s *MemoryStorage) seed() {
	s.agents = []*models.Agent{
		{ID: "agent-router", Name: "Riley", Role: "router", Specialty: models.CategoryGeneral},
		{ID: "agent-tech", Name: "Tomas", Role: "specialist", Specialty: models.CategoryTechnical},
		{ID: "agent-billing", Name: "Bea", Role: "specialist", Specialty: models.CategoryBilling},
		{ID: "agent-product", Name: "Priya", Role: "specialist", Specialty: models.CategoryProduct},
		{ID: "agent-qa", Name: "Quinn", Role: "qa", Specialty: models.CategoryGeneral},
	}
	for _, c := range []*models.Customer{
		{ID: "cust-1", Name: "Ana Martin", Email: "ana@example.com", Type: "host", CreatedAt: time.Now()},
		{ID: "cust-2", Name: "Ben Okafor", Email: "ben@example.com", Type: "guest", CreatedAt: time.Now()},
	} {
		s.customers[c.ID] = c
	}
}

func (s *MemoryStorage) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = now
	copied := *ticket
	s.tickets[ticket.ID] = &copied
	return nil
}

func (s *MemoryStorage) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (s *MemoryStorage) ListTickets(ctx context.Context) ([]*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]*models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		copied := *t
		tickets = append(tickets, &copied)
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

func (s *MemoryStorage) UpdateClassification(ctx context.Context, id string, category models.Category, sentiment, confidence float64, priority string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return ErrNotFound
	}
	ticket.Category = category
	ticket.Sentiment = sentiment
	ticket.Confidence = confidence
	ticket.Priority = priority
	ticket.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) UpdateStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return ErrNotFound
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]*models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		copied := *c
		customers = append(customers, &copied)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (s *MemoryStorage) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]*models.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		copied := *a
		agents = append(agents, &copied)
	}
	return agents, nil
}

func (s *MemoryStorage) TicketStats(ctx context.Context) (*models.TicketStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.TicketStats{
		ByCategory: make(map[models.Category]int),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
		UpdatedAt:  time.Now(),
	}
	total := 0.0
	for _, t := range s.tickets {
		stats.Total++
		if t.Category != "" {
			stats.ByCategory[t.Category]++
		}
		if t.Status != "" {
			stats.ByStatus[t.Status]++
		}
		if t.Priority != "" {
			stats.ByPriority[t.Priority]++
		}
		total += t.Sentiment
	}
	if stats.Total > 0 {
		stats.AvgSentiment = total / float64(stats.Total)
	}
	return stats, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
