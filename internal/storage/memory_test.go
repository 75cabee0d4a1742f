package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/staywise/helpdesk/internal/models"
)

func TestMemoryStorageTicketLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	defer store.Close()

	ticket := &models.Ticket{
		ID:          "t-1",
		Title:       "iCal sync broken",
		Description: "calendar sync stopped working",
		Status:      models.StatusOpen,
		Priority:    models.PriorityNormal,
		Keywords:    []string{"sync", "ical"},
	}
	if err := store.CreateTicket(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetTicket(ctx, "t-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != ticket.Title || got.Status != models.StatusOpen {
		t.Errorf("unexpected ticket: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set on create")
	}

	err = store.UpdateClassification(ctx, "t-1", models.CategoryTechnical, -0.5, 0.9, models.PriorityHigh)
	if err != nil {
		t.Fatalf("update classification: %v", err)
	}
	got, _ = store.GetTicket(ctx, "t-1")
	if got.Category != models.CategoryTechnical || got.Sentiment != -0.5 || got.Priority != models.PriorityHigh {
		t.Errorf("classification not persisted: %+v", got)
	}

	if err := store.UpdateStatus(ctx, "t-1", models.StatusResolved); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, _ = store.GetTicket(ctx, "t-1")
	if got.Status != models.StatusResolved {
		t.Errorf("expected resolved, got %s", got.Status)
	}
}

func TestMemoryStorageNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	if _, err := store.GetTicket(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateStatus(ctx, "missing", models.StatusClosed); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateClassification(ctx, "missing", models.CategoryGeneral, 0, 0, models.PriorityNormal); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorageStats(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	tickets := []*models.Ticket{
		{ID: "t-1", Title: "a", Status: models.StatusOpen, Priority: models.PriorityHigh, Category: models.CategoryTechnical, Sentiment: -0.5},
		{ID: "t-2", Title: "b", Status: models.StatusOpen, Priority: models.PriorityNormal, Category: models.CategoryBilling, Sentiment: 0.1},
		{ID: "t-3", Title: "c", Status: models.StatusResolved, Priority: models.PriorityNormal, Category: models.CategoryTechnical, Sentiment: 0},
	}
	for _, ticket := range tickets {
		if err := store.CreateTicket(ctx, ticket); err != nil {
			t.Fatalf("create %s: %v", ticket.ID, err)
		}
	}

	stats, err := store.TicketStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("expected 3 tickets, got %d", stats.Total)
	}
	if stats.ByCategory[models.CategoryTechnical] != 2 {
		t.Errorf("expected 2 technical tickets, got %d", stats.ByCategory[models.CategoryTechnical])
	}
	if stats.ByStatus[models.StatusOpen] != 2 {
		t.Errorf("expected 2 open tickets, got %d", stats.ByStatus[models.StatusOpen])
	}
	if stats.ByPriority[models.PriorityHigh] != 1 {
		t.Errorf("expected 1 high-priority ticket, got %d", stats.ByPriority[models.PriorityHigh])
	}
	want := (-0.5 + 0.1 + 0) / 3
	if diff := stats.AvgSentiment - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected avg sentiment %f, got %f", want, stats.AvgSentiment)
	}
}

func TestMemoryStorageSeededRoster(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	agents, err := store.ListAgents(ctx)
	if err != nil {
		t.Fatalf("list agents: %v", err)
	}
	if len(agents) == 0 {
		t.Fatal("expected seeded agents")
	}

	customers, err := store.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) == 0 {
		t.Fatal("expected seeded customers")
	}
}
