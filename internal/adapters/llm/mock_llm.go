package llm

import (
	"context"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
)

// MockClient is a deterministic GenerativeClient for local mode and
// tests. Structured responses are chosen by inspecting the declared
// schema, so every artifact kind parses cleanly downstream.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

const mockSummary = `- Reviewed the energy distribution grid simulation; final sign-off pending.
- Perimeter drone Unit 7 reports a faulty targeting sensor; replacement Thursday.
- Quarterly compliance report due Friday EOD.`

const mockTasksJSON = `[
  {"id": "task-1", "text": "Sign off on the Phase 3 grid review", "isCompleted": false, "source": "Email"},
  {"id": "task-2", "text": "Decide on drone coverage for the sensor blind spot", "isCompleted": false, "source": "Email"},
  {"id": "task-3", "text": "Approve the compliance disclosure", "isCompleted": false, "source": "WhatsApp"}
]`

const mockEventsJSON = `[
  {"id": "event-1", "time": "Tomorrow at 10:00 AM", "title": "Phase 3 Go/No-Go review", "participants": ["Ariadne", "Dr. Helen Cho"]}
]`

const mockInsightsJSON = `[
  {"id": "insight-1", "text": "Batch the compliance paperwork before Thursday to free Friday for the grid review.", "category": "Productivity"}
]`

func (m *MockClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return mockSummary, nil
}

func (m *MockClient) GenerateStructured(ctx context.Context, prompt string, schema *domain.Schema) ([]byte, error) {
	if schema == nil || schema.Items == nil {
		return []byte("[]"), nil
	}

	props := schema.Items.Properties
	switch {
	case props["source"] != nil:
		return []byte(mockTasksJSON), nil
	case props["participants"] != nil:
		return []byte(mockEventsJSON), nil
	case props["category"] != nil:
		return []byte(mockInsightsJSON), nil
	}
	return []byte("[]"), nil
}

func (m *MockClient) StartChat(ctx context.Context, systemInstruction string) (domain.ChatStream, error) {
	return &mockChat{}, nil
}

type mockChat struct{}

func (c *mockChat) Send(ctx context.Context, message string, onChunk func(text string)) error {
	// deliver in a few pieces to exercise the streaming path
	for _, chunk := range []string{"Of course, sir. ", "Consider it ", "handled."} {
		onChunk(chunk)
	}
	return nil
}
