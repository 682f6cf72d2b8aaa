package extraction_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PabloGalante/jarvis-agent/internal/app/extraction"
	"github.com/PabloGalante/jarvis-agent/internal/domain"
)

// fakeClient returns scripted payloads per call shape.
type fakeClient struct {
	text          string
	textErr       error
	structured    []byte
	structuredErr error

	lastPrompt string
	lastSchema *domain.Schema
}

func (f *fakeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.text, f.textErr
}

func (f *fakeClient) GenerateStructured(ctx context.Context, prompt string, schema *domain.Schema) ([]byte, error) {
	f.lastPrompt = prompt
	f.lastSchema = schema
	return f.structured, f.structuredErr
}

func (f *fakeClient) StartChat(ctx context.Context, systemInstruction string) (domain.ChatStream, error) {
	return nil, errors.New("not a chat client")
}

func TestSummaryDegradesToApologyOnEmptyResponse(t *testing.T) {
	client := &fakeClient{text: "   \n"}
	svc := extraction.NewService(client)

	got, err := svc.Summary(context.Background(), "corpus")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if got != extraction.SummaryApology {
		t.Fatalf("expected apology, got %q", got)
	}
}

func TestSummaryPropagatesTransportError(t *testing.T) {
	client := &fakeClient{textErr: errors.New("network down")}
	svc := extraction.NewService(client)

	if _, err := svc.Summary(context.Background(), "corpus"); err == nil {
		t.Fatal("expected transport error to propagate")
	}
}

func TestTasksParseWithProvenance(t *testing.T) {
	client := &fakeClient{structured: []byte(`[
		{"id":"t1","text":"Sign off on the grid review","isCompleted":false,"source":"Email"},
		{"id":"t2","text":"Re-task drone unit","isCompleted":true,"source":"WhatsApp"}
	]`)}
	svc := extraction.NewService(client)

	tasks, err := svc.Tasks(context.Background(), "corpus")
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Source != domain.SourceEmail || tasks[1].Source != domain.SourceWhatsApp {
		t.Fatalf("unexpected sources: %v / %v", tasks[0].Source, tasks[1].Source)
	}
}

func TestTasksDegradeOnMalformedJSON(t *testing.T) {
	client := &fakeClient{structured: []byte(`{"oops": not json`)}
	svc := extraction.NewService(client)

	tasks, err := svc.Tasks(context.Background(), "corpus")
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(tasks))
	}
}

func TestTasksDegradeOnInvalidEnum(t *testing.T) {
	client := &fakeClient{structured: []byte(`[{"id":"t1","text":"x","isCompleted":false,"source":"Telegram"}]`)}
	svc := extraction.NewService(client)

	tasks, err := svc.Tasks(context.Background(), "corpus")
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty list for invalid source enum, got %d", len(tasks))
	}
}

func TestTasksPropagateTransportError(t *testing.T) {
	client := &fakeClient{structuredErr: errors.New("connection reset")}
	svc := extraction.NewService(client)

	if _, err := svc.Tasks(context.Background(), "corpus"); err == nil {
		t.Fatal("expected transport error to propagate")
	}
}

func TestEventsDegradeOnMalformedJSON(t *testing.T) {
	client := &fakeClient{structured: []byte(`not json at all`)}
	svc := extraction.NewService(client)

	events, err := svc.Events(context.Background(), "corpus")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty list, got %d events", len(events))
	}
}

func TestInsightsDegradeOnInvalidCategory(t *testing.T) {
	client := &fakeClient{structured: []byte(`[{"id":"i1","text":"x","category":"Existential"}]`)}
	svc := extraction.NewService(client)

	insights, err := svc.Insights(context.Background(), "corpus")
	if err != nil {
		t.Fatalf("Insights failed: %v", err)
	}
	if len(insights) != 0 {
		t.Fatalf("expected empty list for invalid category, got %d", len(insights))
	}
}

func TestTasksPromptCarriesSectionHeadings(t *testing.T) {
	client := &fakeClient{structured: []byte(`[]`)}
	svc := extraction.NewService(client)

	if _, err := svc.Tasks(context.Background(), "corpus body"); err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}

	for _, want := range []string{"--- EMAIL DATA ---", "--- WHATSAPP DATA ---", "corpus body"} {
		if !strings.Contains(client.lastPrompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if client.lastSchema == nil || client.lastSchema.Type != domain.SchemaArray {
		t.Fatal("expected an array response schema")
	}
}
