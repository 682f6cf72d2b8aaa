package chat

import (
	"context"
	"sync"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
	"github.com/PabloGalante/jarvis-agent/internal/observability"
)

// Persona is the fixed system instruction the chat session is bound to.
const Persona = "You are J.A.R.V.I.S., a sophisticated AI personal assistant for a " +
	"high-performance executive. You are proactive, intelligent, concise, and " +
	"slightly witty, inspired by the character from Iron Man. Your purpose is to " +
	"help the user manage their professional and personal life with utmost " +
	"efficiency. When asked to perform a task, fulfill it directly. When " +
	"chatting, maintain your persona."

// StreamApology is delivered as a final chunk when a response stream
// fails mid-flight, so the transcript always ends in a readable state.
const StreamApology = "My apologies, sir. I'm encountering a communication issue."

// Service owns one long-lived chat session with the generative service.
// It is constructed once at the composition root and passed explicitly
// to its callers; the underlying session handle is created lazily on the
// first send and never exposed.
type Service struct {
	client domain.GenerativeClient

	mu         sync.Mutex
	session    domain.ChatStream
	transcript []domain.ChatMessage
}

func NewService(client domain.GenerativeClient) *Service {
	return &Service{client: client}
}

// Send appends the user message to the transcript, streams the model
// response, and invokes onChunk with each piece of text in delivery
// order while appending it to the in-flight model message. No failure
// crosses the streaming boundary: a mid-stream error is converted into
// one final apology chunk and Send returns normally. Once Send returns,
// no further chunks are delivered for this call.
//
// Sends are serialized on the one session; a concurrent caller blocks
// until the in-flight response has finished.
func (s *Service) Send(ctx context.Context, text string, onChunk func(chunk string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := observability.LoggerFromContext(ctx)

	s.transcript = append(s.transcript,
		domain.ChatMessage{Role: domain.RoleUser, Text: text},
		domain.ChatMessage{Role: domain.RoleModel, Text: ""},
	)

	deliver := func(chunk string) {
		s.transcript[len(s.transcript)-1].Text += chunk
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	if s.session == nil {
		session, err := s.client.StartChat(ctx, Persona)
		if err != nil {
			log.Error("failed to start chat session", "error", err)
			deliver(StreamApology)
			return
		}
		s.session = session
	}

	if err := s.session.Send(ctx, text, deliver); err != nil {
		log.Error("chat stream failed", "error", err)
		deliver(StreamApology)
	}
}

// History returns a copy of the session transcript.
func (s *Service) History() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.ChatMessage(nil), s.transcript...)
}
