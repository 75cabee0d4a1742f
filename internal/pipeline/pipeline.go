package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/staywise/helpdesk/internal/analyzer"
	"github.com/staywise/helpdesk/internal/llm"
	"github.com/staywise/helpdesk/internal/models"
	"go.uber.org/zap"
)

// EmitFunc delivers one progress event to the single subscriber. It returns
// an error once the subscriber has disconnected; after the first failure the
// runner stops emitting.
type EmitFunc func(models.ProgressEvent) error

// Options tune a Runner. The zero value disables pacing and debug details
// and applies a default collaborator timeout.
type Options struct {
	LLMTimeout time.Duration
	StageDelay time.Duration
	Debug      bool
}

const defaultLLMTimeout = 30 * time.Second

// Runner drives one ticket through the fixed stage sequence, emitting
// ordered progress events. One Runner serves many runs; each run is
// independent and strictly sequential.
type Runner struct {
	llm      llm.Client
	registry *Registry
	logger   *zap.Logger
	opts     Options
}

func NewRunner(client llm.Client, registry *Registry, logger *zap.Logger, opts Options) *Runner {
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = defaultLLMTimeout
	}
	return &Runner{
		llm:      client,
		registry: registry,
		logger:   logger,
		opts:     opts,
	}
}

// Run walks the stage sequence for one ticket. Every run ends with exactly
// one terminal event, complete or error, unless the subscriber is already
// gone, in which case remaining events are suppressed. Run never panics;
// the returned error is for the caller's log only.
func (r *Runner) Run(ctx context.Context, streamID string, ticket *models.Ticket, analysis *analyzer.Classification, emit EmitFunc) error {
	r.registry.Add(streamID, ticket.ID)
	defer r.registry.Remove(streamID)

	err := emit(models.NewProgressEvent(models.EventStart, "", "", map[string]any{
		"ticket_id":          ticket.ID,
		"stream_id":          streamID,
		"category":           analysis.Category,
		"category_scores":    analysis.CategoryScores,
		"urgency_indicators": analysis.UrgencyIndicators,
	}))
	if err != nil {
		return r.disconnected(streamID, err)
	}

	var prior []string
	for _, stage := range Stages {
		agent := stage.Agent
		if stage.Name == StageSpecialistSolution {
			agent = specialistAgent(analysis.Category)
		}

		started := map[string]any{"label": stage.Label, "status": "started"}
		if stage.Name == StageRouterAnalysis {
			started["category_scores"] = analysis.CategoryScores
			started["urgency_indicators"] = analysis.UrgencyIndicators
		}
		if err := emit(models.NewProgressEvent(models.EventAgentActivity, agent, stage.Name, started)); err != nil {
			return r.disconnected(streamID, err)
		}
		if err := r.pause(ctx); err != nil {
			return r.disconnected(streamID, err)
		}

		result := map[string]any{"label": stage.Label, "status": "finished"}
		if stage.UsesLLM {
			text, err := r.invoke(ctx, stage, ticket, analysis, prior)
			if err != nil {
				r.logger.Error("stage collaborator call failed",
					zap.String("stream_id", streamID),
					zap.String("stage", stage.Name),
					zap.Error(err))
				r.fail(emit, err)
				return fmt.Errorf("stage %s: %w", stage.Name, err)
			}
			prior = append(prior, text)
			result["message"] = text
		}
		if err := emit(models.NewProgressEvent(stage.ResultType, agent, stage.Name, result)); err != nil {
			return r.disconnected(streamID, err)
		}
		if err := r.pause(ctx); err != nil {
			return r.disconnected(streamID, err)
		}
	}

	resolution := ""
	if len(prior) > 0 {
		resolution = prior[len(prior)-1]
	}
	err = emit(models.NewProgressEvent(models.EventComplete, "", "", map[string]any{
		"category":   analysis.Category,
		"sentiment":  analysis.Sentiment,
		"confidence": analysis.Confidence,
		"priority":   analysis.Priority(),
		"resolution": resolution,
	}))
	if err != nil {
		return r.disconnected(streamID, err)
	}
	return nil
}

// invoke calls the collaborator with the stage prompt, bounded by the
// configured timeout. A timeout is treated like any other failure.
func (r *Runner) invoke(ctx context.Context, stage Stage, ticket *models.Ticket, analysis *analyzer.Classification, prior []string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.opts.LLMTimeout)
	defer cancel()
	return r.llm.Complete(callCtx, stage.Prompt(ticket, analysis, prior))
}

// fail emits the single terminal error event. The underlying message is
// only exposed when debug is on; a failed emit here means the subscriber is
// gone, so the event is dropped.
func (r *Runner) fail(emit EmitFunc, cause error) {
	data := map[string]any{"message": "Processing failed"}
	if r.opts.Debug {
		data["details"] = cause.Error()
	}
	if err := emit(models.NewProgressEvent(models.EventError, "", "", data)); err != nil {
		r.logger.Warn("subscriber gone before terminal error event", zap.Error(err))
	}
}

func (r *Runner) disconnected(streamID string, cause error) error {
	r.logger.Info("subscriber disconnected, aborting stream",
		zap.String("stream_id", streamID),
		zap.Error(cause))
	return fmt.Errorf("subscriber disconnected: %w", cause)
}

// pause applies the configured pacing delay. It exists for presentation
// only; correctness never depends on it and tests run with zero delay.
func (r *Runner) pause(ctx context.Context) error {
	if r.opts.StageDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(r.opts.StageDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
