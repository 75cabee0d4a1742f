package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/staywise/helpdesk/internal/analytics"
	"github.com/staywise/helpdesk/internal/models"
	"github.com/staywise/helpdesk/internal/pipeline"
	"github.com/staywise/helpdesk/internal/storage"
	"go.uber.org/zap"
)

type fakeLLM struct {
	calls  int
	failOn int
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return "", errors.New("model unavailable")
	}
	return fmt.Sprintf("response %d", f.calls), nil
}

func newTestServer(failOn int) (*Server, *storage.MemoryStorage) {
	logger := zap.NewNop()
	store := storage.NewMemoryStorage()
	runner := pipeline.NewRunner(&fakeLLM{failOn: failOn}, pipeline.NewRegistry(), logger, pipeline.Options{})
	stats := analytics.NewSnapshotter(store, logger)
	return New(store, runner, stats, nil, logger), store
}

func TestCreateTicketClassifiesAndPersists(t *testing.T) {
	srv, store := newTestServer(0)

	body := `{"title": "iCal sync broken", "description": "My calendar sync stopped working, getting double bookings, this is urgent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var ticket models.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &ticket); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if ticket.Category != models.CategoryTechnical {
		t.Errorf("expected TECHNICAL, got %s", ticket.Category)
	}
	if ticket.Priority != models.PriorityHigh {
		t.Errorf("expected high priority, got %s", ticket.Priority)
	}
	if ticket.Sentiment >= 0 {
		t.Errorf("expected negative sentiment, got %f", ticket.Sentiment)
	}

	stored, err := store.GetTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("ticket not persisted: %v", err)
	}
	if stored.Status != models.StatusOpen {
		t.Errorf("expected open status, got %s", stored.Status)
	}
}

func TestCreateTicketRejectsEmptyText(t *testing.T) {
	srv, _ := newTestServer(0)

	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(`{"title": " ", "description": ""}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func decodeSSE(t *testing.T, body *bytes.Buffer) []models.ProgressEvent {
	t.Helper()
	var events []models.ProgressEvent
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev models.ProgressEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("decoding event %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func seedTicket(t *testing.T, store *storage.MemoryStorage) *models.Ticket {
	t.Helper()
	ticket := &models.Ticket{
		ID:          "t-stream",
		Title:       "iCal sync broken",
		Description: "My calendar sync stopped working, getting double bookings, this is urgent",
		Status:      models.StatusOpen,
		Priority:    models.PriorityNormal,
	}
	if err := store.CreateTicket(context.Background(), ticket); err != nil {
		t.Fatalf("seeding ticket: %v", err)
	}
	return ticket
}

func TestProcessTicketStream(t *testing.T) {
	srv, store := newTestServer(0)
	ticket := seedTicket(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/"+ticket.ID+"/process", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", got)
	}

	events := decodeSSE(t, rec.Body)
	if len(events) == 0 {
		t.Fatal("expected events on the stream")
	}
	if events[0].Type != models.EventStart {
		t.Errorf("expected first event start, got %s", events[0].Type)
	}
	last := events[len(events)-1]
	if last.Type != models.EventComplete {
		t.Errorf("expected last event complete, got %s", last.Type)
	}

	var phases []string
	for _, ev := range events {
		if ev.Type == models.EventAgentActivity {
			phases = append(phases, ev.Phase)
		}
	}
	want := []string{
		pipeline.StageRouterAnalysis,
		pipeline.StageKnowledgeSearch,
		pipeline.StageSpecialistSolution,
		pipeline.StageQAReview,
	}
	if len(phases) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("stage %d: expected %s, got %s", i, want[i], phases[i])
		}
	}

	// Classification is written back before the stream runs.
	stored, err := store.GetTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("loading ticket: %v", err)
	}
	if stored.Category != models.CategoryTechnical {
		t.Errorf("expected persisted TECHNICAL classification, got %s", stored.Category)
	}
	if stored.Priority != models.PriorityHigh {
		t.Errorf("expected persisted high priority, got %s", stored.Priority)
	}
}

func TestProcessTicketStreamCollaboratorFailure(t *testing.T) {
	srv, store := newTestServer(2)
	ticket := seedTicket(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/"+ticket.ID+"/process", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	events := decodeSSE(t, rec.Body)
	if len(events) == 0 {
		t.Fatal("expected events on the stream")
	}
	last := events[len(events)-1]
	if last.Type != models.EventError {
		t.Fatalf("expected terminal error event, got %s", last.Type)
	}
	if last.Data["message"] != "Processing failed" {
		t.Errorf("expected generic error message, got %v", last.Data["message"])
	}

	terminals := 0
	for _, ev := range events {
		if ev.Type == models.EventComplete || ev.Type == models.EventError {
			terminals++
		}
	}
	if terminals != 1 {
		t.Errorf("expected exactly one terminal event, got %d", terminals)
	}
}

func TestProcessUnknownTicket(t *testing.T) {
	srv, _ := newTestServer(0)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/nope/process", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateTicketStatus(t *testing.T) {
	srv, store := newTestServer(0)
	ticket := seedTicket(t, store)

	req := httptest.NewRequest(http.MethodPatch, "/api/tickets/"+ticket.ID+"/status",
		strings.NewReader(`{"status": "resolved"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ := store.GetTicket(context.Background(), ticket.ID)
	if stored.Status != models.StatusResolved {
		t.Errorf("expected resolved, got %s", stored.Status)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/tickets/"+ticket.ID+"/status",
		strings.NewReader(`{"status": "bogus"}`))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", rec.Code)
	}
}

func TestDashboardEndpoints(t *testing.T) {
	srv, store := newTestServer(0)
	seedTicket(t, store)
	if err := srv.stats.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	for _, path := range []string{"/api/tickets", "/api/customers", "/api/agents", "/api/analytics", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	var stats models.TicketStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Total != 1 {
		t.Errorf("expected 1 ticket in snapshot, got %d", stats.Total)
	}
}
