package briefing_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PabloGalante/jarvis-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/jarvis-agent/internal/app/briefing"
	"github.com/PabloGalante/jarvis-agent/internal/app/extraction"
	"github.com/PabloGalante/jarvis-agent/internal/domain"
)

// scriptedClient is a GenerativeClient whose responses are selected by
// matching the prompt text, mirroring how the real service routes on the
// four distinct extraction prompts.
type scriptedClient struct {
	mu      sync.Mutex
	prompts []string

	summary     string
	summaryErr  error
	tasksJSON   string
	tasksErr    error
	eventsJSON  string
	insightJSON string
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{
		summary:     "- Grid review pending sign-off.",
		tasksJSON:   `[{"id":"t1","text":"Sign off on grid review","isCompleted":false,"source":"Email"}]`,
		eventsJSON:  `[{"id":"e1","time":"Tomorrow at 10:00 AM","title":"Go/No-Go","participants":["Ariadne"]}]`,
		insightJSON: `[{"id":"i1","text":"Front-load paperwork.","category":"Productivity"}]`,
	}
}

func (c *scriptedClient) record(prompt string) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()
}

func (c *scriptedClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	c.record(prompt)
	return c.summary, c.summaryErr
}

func (c *scriptedClient) GenerateStructured(ctx context.Context, prompt string, schema *domain.Schema) ([]byte, error) {
	c.record(prompt)
	switch {
	case strings.Contains(prompt, "actionable tasks"):
		return []byte(c.tasksJSON), c.tasksErr
	case strings.Contains(prompt, "appointments or scheduled events"):
		return []byte(c.eventsJSON), nil
	default:
		return []byte(c.insightJSON), nil
	}
}

func (c *scriptedClient) StartChat(ctx context.Context, systemInstruction string) (domain.ChatStream, error) {
	return nil, errors.New("not a chat client")
}

func fixedClock(date string) func() time.Time {
	t, _ := time.Parse("2006-01-02", date)
	return func() time.Time { return t }
}

func newTestService(client *scriptedClient, store domain.BriefingStore, date string) *briefing.Service {
	return briefing.NewService(extraction.NewService(client), store).WithClock(fixedClock(date))
}

func TestGenerateAssemblesAndSaves(t *testing.T) {
	ctx := context.Background()
	client := newScriptedClient()
	store := memory.NewBriefingStore()
	svc := newTestService(client, store, "2025-03-14")

	got, err := svc.Generate(ctx, "user-1", "email body", "whatsapp body")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if got.Summary != client.summary {
		t.Fatalf("unexpected summary: %q", got.Summary)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Source != domain.SourceEmail {
		t.Fatalf("unexpected tasks: %+v", got.Tasks)
	}
	if len(got.Events) != 1 || len(got.Insights) != 1 {
		t.Fatalf("unexpected events/insights: %+v / %+v", got.Events, got.Insights)
	}

	stored, err := store.Get(ctx, "user-1", "2025-03-14")
	if err != nil {
		t.Fatalf("stored briefing missing: %v", err)
	}
	if stored.Summary != got.Summary {
		t.Fatal("stored briefing differs from returned one")
	}
}

func TestGenerateLabelsBothSections(t *testing.T) {
	client := newScriptedClient()
	svc := newTestService(client, memory.NewBriefingStore(), "2025-03-14")

	if _, err := svc.Generate(context.Background(), "user-1", "the email part", "the whatsapp part"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(client.prompts) != 4 {
		t.Fatalf("expected 4 extraction calls, got %d", len(client.prompts))
	}
	for _, p := range client.prompts {
		for _, want := range []string{
			"--- EMAIL DATA ---", "the email part", "--- END EMAIL DATA ---",
			"--- WHATSAPP DATA ---", "the whatsapp part", "--- END WHATSAPP DATA ---",
		} {
			if !strings.Contains(p, want) {
				t.Fatalf("prompt missing %q:\n%s", want, p)
			}
		}
	}
}

func TestGenerateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	client := newScriptedClient()
	client.tasksErr = errors.New("network failure")
	store := memory.NewBriefingStore()
	svc := newTestService(client, store, "2025-03-14")

	if _, err := svc.Generate(ctx, "user-1", "email", "whatsapp"); err == nil {
		t.Fatal("expected generation to fail when one extraction rejects")
	}

	if _, err := store.Get(ctx, "user-1", "2025-03-14"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("no partial briefing may be persisted")
	}
}

func TestGenerateTwiceLastWriteWins(t *testing.T) {
	ctx := context.Background()
	client := newScriptedClient()
	store := memory.NewBriefingStore()
	svc := newTestService(client, store, "2025-03-14")

	if _, err := svc.Generate(ctx, "user-1", "email", "whatsapp"); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	client.summary = "- Second run of the day."
	if _, err := svc.Generate(ctx, "user-1", "email", "whatsapp"); err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}

	stored, err := store.Get(ctx, "user-1", "2025-03-14")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Summary != "- Second run of the day." {
		t.Fatalf("expected second briefing to win, got %q", stored.Summary)
	}
}

func TestEmailOnlyCorpusNeverYieldsWhatsAppTasks(t *testing.T) {
	client := newScriptedClient()
	client.tasksJSON = `[
		{"id":"t1","text":"Sign off on the energy-grid review","isCompleted":false,"source":"Email"},
		{"id":"t2","text":"Decide on drone sensor-fault coverage","isCompleted":false,"source":"Email"},
		{"id":"t3","text":"Approve the compliance deadline disclosure","isCompleted":false,"source":"Email"}
	]`
	svc := newTestService(client, memory.NewBriefingStore(), "2025-03-14")

	got, err := svc.Generate(context.Background(), "user-1", "three email messages", "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(got.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got.Tasks))
	}
	for _, task := range got.Tasks {
		if task.Source != domain.SourceEmail {
			t.Fatalf("task %s has source %s, want Email", task.ID, task.Source)
		}
	}
}

func TestTodayAbsentIsNilNotError(t *testing.T) {
	svc := newTestService(newScriptedClient(), memory.NewBriefingStore(), "2025-03-14")

	got, err := svc.Today(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil briefing for absent day")
	}
}

func TestToggleTaskTouchesOnlyTheTarget(t *testing.T) {
	ctx := context.Background()
	client := newScriptedClient()
	client.tasksJSON = `[
		{"id":"t1","text":"First","isCompleted":false,"source":"Email"},
		{"id":"t2","text":"Second","isCompleted":false,"source":"WhatsApp"}
	]`
	store := memory.NewBriefingStore()
	svc := newTestService(client, store, "2025-03-14")

	if _, err := svc.Generate(ctx, "user-1", "email", "whatsapp"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	before, _ := store.Get(ctx, "user-1", "2025-03-14")
	beforeJSON, _ := json.Marshal(before)

	tasks, err := svc.ToggleTask(ctx, "user-1", "t2")
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !tasks[1].IsCompleted || tasks[0].IsCompleted {
		t.Fatalf("wrong task toggled: %+v", tasks)
	}

	after, _ := store.Get(ctx, "user-1", "2025-03-14")
	afterJSON, _ := json.Marshal(after)

	// Only tasks[1].isCompleted may differ.
	after.Tasks[1].IsCompleted = false
	restoredJSON, _ := json.Marshal(after)
	if string(restoredJSON) != string(beforeJSON) {
		t.Fatalf("toggle changed more than the target task:\nbefore: %s\nafter:  %s", beforeJSON, afterJSON)
	}
}

func TestToggleUnknownTask(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newScriptedClient(), memory.NewBriefingStore(), "2025-03-14")
	if _, err := svc.Generate(ctx, "user-1", "email", "whatsapp"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := svc.ToggleTask(ctx, "user-1", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddManualTask(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBriefingStore()
	svc := newTestService(newScriptedClient(), store, "2025-03-14")
	if _, err := svc.Generate(ctx, "user-1", "email", "whatsapp"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tasks, err := svc.AddManualTask(ctx, "user-1", "Call Pepper")
	if err != nil {
		t.Fatalf("AddManualTask failed: %v", err)
	}

	added := tasks[len(tasks)-1]
	if added.Source != domain.SourceManual || added.Text != "Call Pepper" || added.ID == "" {
		t.Fatalf("unexpected manual task: %+v", added)
	}

	stored, _ := store.Get(ctx, "user-1", "2025-03-14")
	if len(stored.Tasks) != len(tasks) {
		t.Fatal("manual task not persisted")
	}
}

func TestDayTransitionKeysNewBriefing(t *testing.T) {
	ctx := context.Background()
	client := newScriptedClient()
	store := memory.NewBriefingStore()

	day1 := newTestService(client, store, "2025-03-14")
	if _, err := day1.Generate(ctx, "user-1", "email", "whatsapp"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	day2 := newTestService(client, store, "2025-03-15")
	if got, err := day2.Today(ctx, "user-1"); err != nil || got != nil {
		t.Fatalf("expected absent briefing on the next day, got %+v (err %v)", got, err)
	}

	dates, _ := store.ListDates(ctx, "user-1", 0)
	if len(dates) != 1 || dates[0] != "2025-03-14" {
		t.Fatalf("unexpected history: %v", dates)
	}
}
