package domain

import "context"

// GenerativeClient defines how the core application talks to the
// generative-text service. One-shot calls return the raw response; any
// interpretation (schema parsing, degradation) belongs to the caller.
type GenerativeClient interface {
	// GenerateText issues a single free-text request.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateStructured issues a single request constrained to the given
	// response schema and returns the raw JSON payload.
	GenerateStructured(ctx context.Context, prompt string, schema *Schema) ([]byte, error)

	// StartChat opens one persistent chat session bound to a system
	// instruction. The returned handle keeps conversational context
	// across sends for as long as it lives.
	StartChat(ctx context.Context, systemInstruction string) (ChatStream, error)
}

// ChatStream is one persistent conversational session. Send delivers the
// response incrementally through onChunk, in arrival order, and returns
// once the stream has ended. No chunk is delivered after Send returns.
// Sends on one stream must not overlap.
type ChatStream interface {
	Send(ctx context.Context, message string, onChunk func(text string)) error
}

// SchemaType mirrors the JSON types the generative service can be asked
// to constrain a structured response to.
type SchemaType string

const (
	SchemaArray   SchemaType = "array"
	SchemaObject  SchemaType = "object"
	SchemaString  SchemaType = "string"
	SchemaBoolean SchemaType = "boolean"
)

// Schema declares the shape of a structured response. It is a minimal
// subset of JSON Schema, translated by the LLM adapter into whatever the
// service expects.
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	Required    []string
}

// BriefingStore defines briefing persistence, keyed by identity and ISO
// calendar date. Get returns ErrNotFound when no document exists.
type BriefingStore interface {
	Get(ctx context.Context, identity IdentityID, date string) (*Briefing, error)
	Save(ctx context.Context, identity IdentityID, date string, briefing *Briefing) error
	PatchTasks(ctx context.Context, identity IdentityID, date string, tasks []Task) error
	ListDates(ctx context.Context, identity IdentityID, limit int) ([]string, error)
}

// ReminderMarker tracks the device-local "already shown today" state of
// the daily reminder, independent of the briefing store.
type ReminderMarker interface {
	LastShown() (string, error)
	SetLastShown(date string) error
}
