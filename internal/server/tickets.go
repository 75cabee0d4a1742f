package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/staywise/helpdesk/internal/analyzer"
	"github.com/staywise/helpdesk/internal/models"
	"go.uber.org/zap"
)

type createTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CustomerID  string `json:"customer_id"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

var validStatuses = map[string]struct{}{
	models.StatusOpen:       {},
	models.StatusInProgress: {},
	models.StatusResolved:   {},
	models.StatusClosed:     {},
}

// handleCreateTicket validates input, classifies the text, and persists the
// ticket with its classification in one step. Urgent tickets additionally
// alert the on-call channel.
func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "ticket text is required")
		return
	}

	analysis := analyzer.Analyze(req.Title, req.Description)
	ticket := &models.Ticket{
		ID:          uuid.New().String(),
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusOpen,
		Priority:    analysis.Priority(),
		Category:    analysis.Category,
		Sentiment:   analysis.Sentiment,
		Confidence:  analysis.Confidence,
		Keywords:    analysis.Keywords,
	}

	if err := s.store.CreateTicket(r.Context(), ticket); err != nil {
		s.logger.Error("failed to create ticket", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create ticket")
		return
	}
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", string(ticket.Category)),
		zap.String("priority", ticket.Priority))

	if s.notifier != nil && len(analysis.UrgencyIndicators) > 0 {
		if err := s.notifier.NotifyUrgentTicket(ticket, analysis.UrgencyIndicators); err != nil {
			s.logger.Warn("urgent ticket escalation incomplete",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, ticket)
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.store.ListTickets(r.Context())
	if err != nil {
		s.logger.Error("failed to list tickets", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list tickets")
		return
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.store.GetTicket(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, storageStatus(err), "ticket not found")
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, ok := validStatuses[req.Status]; !ok {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	id := r.PathValue("id")
	if err := s.store.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, storageStatus(err), "failed to update status")
		return
	}
	ticket, err := s.store.GetTicket(r.Context(), id)
	if err != nil {
		writeError(w, storageStatus(err), "failed to load ticket")
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.ListCustomers(r.Context())
	if err != nil {
		s.logger.Error("failed to list customers", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	if customers == nil {
		customers = []*models.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.store.ListAgents(r.Context())
	if err != nil {
		s.logger.Error("failed to list agents", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list agents")
		return
	}
	if agents == nil {
		agents = []*models.Agent{}
	}
	writeJSON(w, http.StatusOK, agents)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}
