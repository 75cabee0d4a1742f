package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/staywise/helpdesk/internal/analyzer"
	"github.com/staywise/helpdesk/internal/models"
	"github.com/staywise/helpdesk/internal/pipeline"
	"go.uber.org/zap"
)

// handleProcessTicket streams the processing pipeline for one ticket as
// server-sent events. Classification is persisted before the stream starts,
// so a dropped connection never loses the analysis.
func (s *Server) handleProcessTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.store.GetTicket(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, storageStatus(err), "ticket not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	analysis := analyzer.Analyze(ticket.Title, ticket.Description)
	err = s.store.UpdateClassification(r.Context(), ticket.ID,
		analysis.Category, analysis.Sentiment, analysis.Confidence, analysis.Priority())
	if err != nil {
		s.logger.Error("failed to persist classification",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist classification")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	streamID := uuid.New().String()
	emit := sseEmitter(w, r, flusher)

	if err := s.runner.Run(r.Context(), streamID, ticket, analysis, emit); err != nil {
		// Terminal handling already happened inside the runner; this is
		// operator visibility only.
		s.logger.Info("processing stream ended early",
			zap.String("ticket_id", ticket.ID),
			zap.String("stream_id", streamID),
			zap.Error(err))
	}
}

// sseEmitter frames events as "data: <JSON>\n\n" lines and fails fast once
// the subscriber's connection is gone.
func sseEmitter(w http.ResponseWriter, r *http.Request, flusher http.Flusher) pipeline.EmitFunc {
	return func(ev models.ProgressEvent) error {
		select {
		case <-r.Context().Done():
			return r.Context().Err()
		default:
		}

		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encoding event: %w", err)
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
		flusher.Flush()
		return nil
	}
}
