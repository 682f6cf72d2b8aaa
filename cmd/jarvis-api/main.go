package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	httpadapter "github.com/PabloGalante/jarvis-agent/internal/adapters/http"
	"github.com/PabloGalante/jarvis-agent/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/jarvis-agent/internal/adapters/storage/firestore"
	"github.com/PabloGalante/jarvis-agent/internal/adapters/storage/localstate"
	memstore "github.com/PabloGalante/jarvis-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/jarvis-agent/internal/app/briefing"
	"github.com/PabloGalante/jarvis-agent/internal/app/chat"
	"github.com/PabloGalante/jarvis-agent/internal/app/extraction"
	"github.com/PabloGalante/jarvis-agent/internal/app/reminder"
	"github.com/PabloGalante/jarvis-agent/internal/config"
	"github.com/PabloGalante/jarvis-agent/internal/domain"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments configure the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	// Generative client: mock for local dev, Gemini otherwise.
	var (
		client domain.GenerativeClient
		err    error
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK generative client")
		client = llm.NewMockClient()
	} else {
		log.Println("[LLM] Using Gemini generative client")
		client, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
	}

	// Storage: Firestore or Memory.
	var store domain.BriefingStore
	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		store, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
	default:
		log.Println("[STORE] Using in-memory storage")
		store = memstore.NewBriefingStore()
	}

	// Device-local reminder marker.
	var marker *localstate.Marker
	if cfg.StateDir != "" {
		marker, err = localstate.NewMarker(cfg.StateDir)
	} else {
		marker, err = localstate.NewDefaultMarker()
	}
	if err != nil {
		log.Fatalf("error initializing reminder marker: %v", err)
	}

	// Services. The chat service is constructed once here and owns the
	// single conversational session for the process lifetime.
	briefingSvc := briefing.NewService(extraction.NewService(client), store)
	chatSvc := chat.NewService(client)
	reminderSvc := reminder.NewService(store, marker)

	handler := httpadapter.NewServer(briefingSvc, chatSvc, reminderSvc)

	addr := ":" + cfg.Port
	log.Println("jarvis API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
