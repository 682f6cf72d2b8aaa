package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
	"google.golang.org/genai"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a GenerativeClient backed by the Gemini API.
// A missing API key is a configuration error raised here, at the point
// the service is first needed, not at config load.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("JARVIS_GEMINI_API_KEY must be set")
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateText implements domain.GenerativeClient for free-text output.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return res.Text(), nil
}

// GenerateStructured implements domain.GenerativeClient for JSON output
// constrained to a declared response schema.
func (g *GeminiClient) GenerateStructured(
	ctx context.Context,
	prompt string,
	schema *domain.Schema,
) ([]byte, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(schema),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate structured content: %w", err)
	}

	return []byte(res.Text()), nil
}

// StartChat opens a persistent chat session bound to systemInstruction.
func (g *GeminiClient) StartChat(ctx context.Context, systemInstruction string) (domain.ChatStream, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	chat, err := g.client.Chats.Create(ctx, g.modelName, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini chat session: %w", err)
	}

	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

// Send streams one response, invoking onChunk with each piece of text in
// arrival order. It returns once the stream ends; the first stream error
// aborts the iteration and is returned.
func (c *geminiChat) Send(ctx context.Context, message string, onChunk func(text string)) error {
	for res, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: message}) {
		if err != nil {
			return fmt.Errorf("gemini chat stream: %w", err)
		}
		if text := res.Text(); text != "" {
			onChunk(text)
		}
	}
	return nil
}

func toGenaiSchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}

	switch s.Type {
	case domain.SchemaArray:
		out.Type = genai.TypeArray
	case domain.SchemaObject:
		out.Type = genai.TypeObject
	case domain.SchemaBoolean:
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}

	return out
}
