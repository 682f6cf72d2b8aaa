package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
	"github.com/PabloGalante/jarvis-agent/internal/observability"
)

// Extractor is the per-kind structured extraction boundary. Each method
// degrades delivered-but-defective responses internally and only errors
// when the request itself failed.
type Extractor interface {
	Summary(ctx context.Context, corpus string) (string, error)
	Tasks(ctx context.Context, corpus string) ([]domain.Task, error)
	Events(ctx context.Context, corpus string) ([]domain.CalendarEvent, error)
	Insights(ctx context.Context, corpus string) ([]domain.Insight, error)
}

// Service assembles the daily briefing: it labels the raw corpora, fans
// out the four extractions concurrently, and persists the result under
// (identity, today). Generation is all-or-nothing — if any extraction
// call fails outright, nothing is assembled or saved.
type Service struct {
	extractor Extractor
	store     domain.BriefingStore
	now       func() time.Time
}

func NewService(extractor Extractor, store domain.BriefingStore) *Service {
	return &Service{
		extractor: extractor,
		store:     store,
		now:       time.Now,
	}
}

// WithClock overrides the wall clock, letting tests pin the calendar day.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// BuildCorpus concatenates the two raw sources into one labelled corpus.
// The section markers are load-bearing: the task extractor attributes
// provenance (Email vs WhatsApp) from these exact headings.
func BuildCorpus(emailData, whatsappData string) string {
	var b strings.Builder
	b.WriteString("\n--- EMAIL DATA ---\n")
	b.WriteString(strings.TrimSpace(emailData))
	b.WriteString("\n--- END EMAIL DATA ---\n")
	b.WriteString("\n--- WHATSAPP DATA ---\n")
	b.WriteString(strings.TrimSpace(whatsappData))
	b.WriteString("\n--- END WHATSAPP DATA ---\n")
	return b.String()
}

// Generate produces and persists today's briefing for identity.
// The second generation for the same day overwrites the first.
func (s *Service) Generate(
	ctx context.Context,
	identity domain.IdentityID,
	emailData, whatsappData string,
) (*domain.Briefing, error) {
	log := observability.LoggerFromContext(ctx).With("identity", identity)
	log.Info("generating briefing")

	corpus := BuildCorpus(emailData, whatsappData)

	var (
		summary  string
		tasks    []domain.Task
		events   []domain.CalendarEvent
		insights []domain.Insight
	)

	// The four extractions are independent and write disjoint results,
	// joined before assembly. Any hard failure fails the whole join.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.extractor.Summary(gctx, corpus)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.extractor.Tasks(gctx, corpus)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.extractor.Events(gctx, corpus)
		return err
	})
	g.Go(func() error {
		var err error
		insights, err = s.extractor.Insights(gctx, corpus)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("briefing generation failed", "error", err)
		return nil, fmt.Errorf("generate briefing: %w", err)
	}

	briefing := &domain.Briefing{
		Summary:  summary,
		Tasks:    tasks,
		Events:   events,
		Insights: insights,
	}

	date := domain.CivilDate(s.now())
	if err := s.store.Save(ctx, identity, date, briefing); err != nil {
		// Store failures degrade to a logged failure; the caller still
		// gets the assembled briefing for display.
		log.Error("failed to save briefing", "date", date, "error", err)
	} else {
		log.Info("briefing saved", "date", date,
			"tasks", len(tasks), "events", len(events), "insights", len(insights))
	}

	return briefing, nil
}

// Today returns the stored briefing for the current day, or nil when no
// briefing exists. Store failures are logged and treated as absent.
func (s *Service) Today(ctx context.Context, identity domain.IdentityID) (*domain.Briefing, error) {
	date := domain.CivilDate(s.now())

	briefing, err := s.store.Get(ctx, identity, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		observability.LoggerFromContext(ctx).Error("failed to load briefing, treating as absent",
			"identity", identity, "date", date, "error", err)
		return nil, nil
	}
	return briefing, nil
}

// ToggleTask flips the completion flag of one task, identified by id, in
// today's briefing and patches only the task list in the store. All
// other tasks and briefing fields are untouched.
func (s *Service) ToggleTask(
	ctx context.Context,
	identity domain.IdentityID,
	taskID string,
) ([]domain.Task, error) {
	date := domain.CivilDate(s.now())

	briefing, err := s.store.Get(ctx, identity, date)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}

	tasks := domain.CloneTasks(briefing.Tasks)
	found := false
	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].IsCompleted = !tasks[i].IsCompleted
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("toggle task %q: %w", taskID, domain.ErrNotFound)
	}

	if err := s.store.PatchTasks(ctx, identity, date, tasks); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to patch tasks",
			"identity", identity, "date", date, "error", err)
	}
	return tasks, nil
}

// AddManualTask appends a user-authored task (source Manual) to today's
// briefing and patches the task list.
func (s *Service) AddManualTask(
	ctx context.Context,
	identity domain.IdentityID,
	text string,
) ([]domain.Task, error) {
	date := domain.CivilDate(s.now())

	briefing, err := s.store.Get(ctx, identity, date)
	if err != nil {
		return nil, fmt.Errorf("add manual task: %w", err)
	}

	tasks := append(domain.CloneTasks(briefing.Tasks), domain.Task{
		ID:          uuid.NewString(),
		Text:        text,
		IsCompleted: false,
		Source:      domain.SourceManual,
	})

	if err := s.store.PatchTasks(ctx, identity, date, tasks); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to patch tasks",
			"identity", identity, "date", date, "error", err)
	}
	return tasks, nil
}

// History lists the calendar dates with stored briefings, newest first.
func (s *Service) History(ctx context.Context, identity domain.IdentityID, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 30
	}
	dates, err := s.store.ListDates(ctx, identity, limit)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list briefing history",
			"identity", identity, "error", err)
		return []string{}, nil
	}
	return dates, nil
}
