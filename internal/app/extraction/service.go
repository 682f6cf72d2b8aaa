package extraction

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
	"github.com/PabloGalante/jarvis-agent/internal/observability"
)

// SummaryApology replaces the daily summary when the service delivered
// an unusable response.
const SummaryApology = "Sir, I seem to be having trouble accessing my cognitive circuits. Please try again later."

// Service asks the generative service for one structured artifact at a
// time. Each kind fails independently: a delivered-but-defective
// response degrades to the kind's default (apology string or empty
// list), while a transport error — the request never produced a
// response — propagates to the caller. One attempt per call, no retry.
type Service struct {
	client domain.GenerativeClient
}

func NewService(client domain.GenerativeClient) *Service {
	return &Service{client: client}
}

// Summary requests the free-text bulleted end-of-day summary. A blank
// response degrades to the fixed apology string.
func (s *Service) Summary(ctx context.Context, corpus string) (string, error) {
	text, err := s.client.GenerateText(ctx, summaryPrompt(corpus))
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		observability.LoggerFromContext(ctx).Warn("summary extraction returned empty text, degrading to apology")
		return SummaryApology, nil
	}
	return text, nil
}

// Tasks extracts actionable tasks with their provenance tag. Malformed
// JSON or a schema violation degrades to an empty list.
func (s *Service) Tasks(ctx context.Context, corpus string) ([]domain.Task, error) {
	raw, err := s.client.GenerateStructured(ctx, tasksPrompt(corpus), taskListSchema())
	if err != nil {
		return nil, err
	}

	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		observability.LoggerFromContext(ctx).Warn("task extraction returned malformed JSON, degrading to empty list", "error", err)
		return []domain.Task{}, nil
	}

	for _, t := range tasks {
		if t.ID == "" || t.Text == "" || !t.Source.Valid() {
			observability.LoggerFromContext(ctx).Warn("task extraction violated schema, degrading to empty list",
				"task_id", t.ID, "source", t.Source)
			return []domain.Task{}, nil
		}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Events extracts appointments and scheduled events.
func (s *Service) Events(ctx context.Context, corpus string) ([]domain.CalendarEvent, error) {
	raw, err := s.client.GenerateStructured(ctx, eventsPrompt(corpus), eventListSchema())
	if err != nil {
		return nil, err
	}

	var events []domain.CalendarEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		observability.LoggerFromContext(ctx).Warn("event extraction returned malformed JSON, degrading to empty list", "error", err)
		return []domain.CalendarEvent{}, nil
	}

	for _, e := range events {
		if e.ID == "" || e.Title == "" {
			observability.LoggerFromContext(ctx).Warn("event extraction violated schema, degrading to empty list",
				"event_id", e.ID)
			return []domain.CalendarEvent{}, nil
		}
	}
	if events == nil {
		events = []domain.CalendarEvent{}
	}
	return events, nil
}

// Insights extracts proactive strategic/productivity suggestions.
func (s *Service) Insights(ctx context.Context, corpus string) ([]domain.Insight, error) {
	raw, err := s.client.GenerateStructured(ctx, insightsPrompt(corpus), insightListSchema())
	if err != nil {
		return nil, err
	}

	var insights []domain.Insight
	if err := json.Unmarshal(raw, &insights); err != nil {
		observability.LoggerFromContext(ctx).Warn("insight extraction returned malformed JSON, degrading to empty list", "error", err)
		return []domain.Insight{}, nil
	}

	for _, in := range insights {
		if in.ID == "" || in.Text == "" || !in.Category.Valid() {
			observability.LoggerFromContext(ctx).Warn("insight extraction violated schema, degrading to empty list",
				"insight_id", in.ID, "category", in.Category)
			return []domain.Insight{}, nil
		}
	}
	if insights == nil {
		insights = []domain.Insight{}
	}
	return insights, nil
}
