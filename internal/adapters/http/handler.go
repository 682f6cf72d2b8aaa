package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/PabloGalante/jarvis-agent/internal/app/briefing"
	"github.com/PabloGalante/jarvis-agent/internal/app/chat"
	"github.com/PabloGalante/jarvis-agent/internal/app/ingest"
	"github.com/PabloGalante/jarvis-agent/internal/app/reminder"
	"github.com/PabloGalante/jarvis-agent/internal/domain"
)

type Server struct {
	briefings *briefing.Service
	chat      *chat.Service
	reminder  *reminder.Service
}

func NewServer(briefings *briefing.Service, chatSvc *chat.Service, reminderSvc *reminder.Service) http.Handler {
	s := &Server{
		briefings: briefings,
		chat:      chatSvc,
		reminder:  reminderSvc,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /briefings/generate       → POST: generate + persist today's briefing
	// /briefings/today          → GET: today's briefing
	// /briefings/today/tasks    → POST: add manual task
	// /briefings/today/tasks/{id} → PATCH: toggle completion
	// /briefings/history        → GET: dates with stored briefings
	mux.HandleFunc("/briefings/", s.handleBriefings)

	// /chat/messages → POST: send (SSE stream), GET: transcript
	mux.HandleFunc("/chat/messages", s.handleChatMessages)

	// /reminder → GET: day-scoped reminder flag
	mux.HandleFunc("/reminder", s.handleReminder)

	return chainMiddlewares(mux, withRequestID, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type generateRequest struct {
	UserID       string `json:"user_id"`
	EmailData    string `json:"email_data"`
	WhatsAppData string `json:"whatsapp_data"`
}

type addTaskRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

type historyResponse struct {
	Dates []string `json:"dates"`
}

type reminderResponse struct {
	Show    bool   `json:"show"`
	Message string `json:"message,omitempty"`
}

type sendChatRequest struct {
	Text string `json:"text"`
}

type chatChunkEvent struct {
	Text string `json:"text"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBriefings(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/briefings/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] == "generate":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleGenerate(w, r)

	case len(parts) == 1 && parts[0] == "today":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleGetToday(w, r)

	case len(parts) == 1 && parts[0] == "history":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleHistory(w, r)

	case len(parts) == 2 && parts[0] == "today" && parts[1] == "tasks":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleAddTask(w, r)

	case len(parts) == 3 && parts[0] == "today" && parts[1] == "tasks" && parts[2] != "":
		if r.Method != http.MethodPatch {
			methodNotAllowed(w)
			return
		}
		s.handleToggleTask(w, r, parts[2])

	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	result, err := s.briefings.Generate(
		r.Context(),
		domain.IdentityID(req.UserID),
		req.EmailData,
		req.WhatsAppData,
	)
	if err != nil {
		// Generation is all-or-nothing; nothing was persisted.
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "briefing generation failed, please retry",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// decodeGenerateRequest accepts either a JSON body or a multipart form
// with the WhatsApp chat export as an uploaded .txt file.
func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, bool) {
	var req generateRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			badRequest(w, "invalid multipart body")
			return req, false
		}
		req.UserID = r.FormValue("user_id")
		req.EmailData = r.FormValue("email_data")

		file, _, err := r.FormFile("whatsapp_file")
		if err != nil {
			badRequest(w, "whatsapp_file is required")
			return req, false
		}
		defer file.Close()

		content, err := ingest.ReadChatExport(file)
		if err != nil {
			badRequest(w, "whatsapp_file is not decodable as text")
			return req, false
		}
		req.WhatsAppData = content
		return req, true
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return req, false
	}
	return req, true
}

func (s *Server) handleGetToday(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return
	}

	result, err := s.briefings.Today(r.Context(), domain.IdentityID(userID))
	if err != nil {
		internalError(w, err)
		return
	}
	if result == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no briefing for today",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	dates, err := s.briefings.History(r.Context(), domain.IdentityID(userID), limit)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Dates: dates})
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	tasks, err := s.briefings.AddManualTask(r.Context(), domain.IdentityID(req.UserID), req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "no briefing for today",
			})
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasksResponse{Tasks: tasks})
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return
	}

	tasks, err := s.briefings.ToggleTask(r.Context(), domain.IdentityID(userID), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "task or briefing not found",
			})
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasksResponse{Tasks: tasks})
}

func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return
	}

	resp := reminderResponse{}
	if s.reminder.Check(r.Context(), domain.IdentityID(userID)) {
		resp.Show = true
		resp.Message = reminder.Message
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"messages": s.chat.History(),
		})

	case http.MethodPost:
		s.handleSendChat(w, r)

	default:
		methodNotAllowed(w)
	}
}

// handleSendChat streams the model response as server-sent events, one
// `data:` line per chunk, followed by a terminating `done` event.
func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	var req sendChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		internalError(w, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.chat.Send(r.Context(), req.Text, func(chunk string) {
		payload, err := json.Marshal(chatChunkEvent{Text: chunk})
		if err != nil {
			return
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	})

	_, _ = w.Write([]byte("event: done\ndata: {}\n\n"))
	flusher.Flush()
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
