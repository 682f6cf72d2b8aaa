package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
)

// Store implements domain.BriefingStore on Firestore. Documents live at
// users/{identity}/dashboards/{YYYY-MM-DD}, one per identity and day.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project
// (JARVIS_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) dashboardsCol(identity domain.IdentityID) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(string(identity)).Collection("dashboards")
}

func (s *Store) dashboardDoc(identity domain.IdentityID, date string) *firestore.DocumentRef {
	return s.dashboardsCol(identity).Doc(date)
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type taskDoc struct {
	ID          string `firestore:"id"`
	Text        string `firestore:"text"`
	IsCompleted bool   `firestore:"isCompleted"`
	Source      string `firestore:"source"`
}

type eventDoc struct {
	ID           string   `firestore:"id"`
	Time         string   `firestore:"time"`
	Title        string   `firestore:"title"`
	Participants []string `firestore:"participants"`
}

type insightDoc struct {
	ID       string `firestore:"id"`
	Text     string `firestore:"text"`
	Category string `firestore:"category"`
}

type briefingDoc struct {
	Summary  string       `firestore:"summary"`
	Tasks    []taskDoc    `firestore:"tasks"`
	Events   []eventDoc   `firestore:"events"`
	Insights []insightDoc `firestore:"insights"`
}

func toTaskDocs(tasks []domain.Task) []taskDoc {
	out := make([]taskDoc, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskDoc{
			ID:          t.ID,
			Text:        t.Text,
			IsCompleted: t.IsCompleted,
			Source:      string(t.Source),
		})
	}
	return out
}

func toBriefingDoc(b *domain.Briefing) briefingDoc {
	doc := briefingDoc{
		Summary: b.Summary,
		Tasks:   toTaskDocs(b.Tasks),
	}
	for _, e := range b.Events {
		doc.Events = append(doc.Events, eventDoc{
			ID:           e.ID,
			Time:         e.Time,
			Title:        e.Title,
			Participants: e.Participants,
		})
	}
	for _, in := range b.Insights {
		doc.Insights = append(doc.Insights, insightDoc{
			ID:       in.ID,
			Text:     in.Text,
			Category: string(in.Category),
		})
	}
	return doc
}

func fromBriefingDoc(doc briefingDoc) *domain.Briefing {
	b := &domain.Briefing{
		Summary:  doc.Summary,
		Tasks:    make([]domain.Task, 0, len(doc.Tasks)),
		Events:   make([]domain.CalendarEvent, 0, len(doc.Events)),
		Insights: make([]domain.Insight, 0, len(doc.Insights)),
	}
	for _, t := range doc.Tasks {
		b.Tasks = append(b.Tasks, domain.Task{
			ID:          t.ID,
			Text:        t.Text,
			IsCompleted: t.IsCompleted,
			Source:      domain.TaskSource(t.Source),
		})
	}
	for _, e := range doc.Events {
		b.Events = append(b.Events, domain.CalendarEvent{
			ID:           e.ID,
			Time:         e.Time,
			Title:        e.Title,
			Participants: e.Participants,
		})
	}
	for _, in := range doc.Insights {
		b.Insights = append(b.Insights, domain.Insight{
			ID:       in.ID,
			Text:     in.Text,
			Category: domain.InsightCategory(in.Category),
		})
	}
	return b
}

// ─────────────────────────────────────────
// BriefingStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(ctx context.Context, identity domain.IdentityID, date string) (*domain.Briefing, error) {
	snap, err := s.dashboardDoc(identity, date).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore Get: %w", err)
	}

	var doc briefingDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore Get decode: %w", err)
	}

	return fromBriefingDoc(doc), nil
}

// Save overwrites the whole document for (identity, date).
func (s *Store) Save(ctx context.Context, identity domain.IdentityID, date string, briefing *domain.Briefing) error {
	_, err := s.dashboardDoc(identity, date).Set(ctx, toBriefingDoc(briefing))
	if err != nil {
		return fmt.Errorf("firestore Save: %w", err)
	}
	return nil
}

// PatchTasks updates only the tasks field, leaving summary, events and
// insights untouched.
func (s *Store) PatchTasks(ctx context.Context, identity domain.IdentityID, date string, tasks []domain.Task) error {
	_, err := s.dashboardDoc(identity, date).Update(ctx, []firestore.Update{
		{Path: "tasks", Value: toTaskDocs(tasks)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore PatchTasks: %w", err)
	}
	return nil
}

// ListDates returns the identity's briefing dates, newest first.
func (s *Store) ListDates(ctx context.Context, identity domain.IdentityID, limit int) ([]string, error) {
	q := s.dashboardsCol(identity).OrderBy(firestore.DocumentID, firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []string
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListDates: %w", err)
		}
		out = append(out, snap.Ref.ID)
	}
	return out, nil
}
