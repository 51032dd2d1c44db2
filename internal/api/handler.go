package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RichardoC/careerbot/internal/chat"
	"github.com/RichardoC/careerbot/internal/db"
	"github.com/RichardoC/careerbot/internal/llm"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	defaultUserID = "anonymous"

	maxChatBodyBytes = 1 << 20
)

// Environment is the startup state reported by /status.
type Environment struct {
	GeminiKeyPresent bool
	OpenAIKeyPresent bool
	StorageMode      db.Mode
	StorageDriver    string
}

type Handler struct {
	chats  *chat.Repository
	llm    *llm.Service
	env    Environment
	logger *zap.Logger
}

func NewHandler(chats *chat.Repository, llmService *llm.Service, env Environment, logger *zap.Logger) *Handler {
	return &Handler{
		chats:  chats,
		llm:    llmService,
		env:    env,
		logger: logger,
	}
}

// ChatRequest accepts either user_id or user for the sender.
type ChatRequest struct {
	Message *string `json:"message"`
	UserID  string  `json:"user_id,omitempty"`
	User    string  `json:"user,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type StatusResponse struct {
	ModelProvider    *string `json:"model_provider"`
	GeminiKeyPresent bool    `json:"gemini_key_present"`
	OpenAIKeyPresent bool    `json:"openai_key_present"`
	GenCallCount     int64   `json:"gen_call_count"`
	GenFailureCount  int64   `json:"gen_failure_count"`
	LastGenError     *string `json:"last_gen_error"`
	StorageMode      db.Mode `json:"storage_mode"`
	StorageDriver    string  `json:"storage_driver"`
}

// Routes mounts every endpoint behind CORS for the given origins.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /status", h.Status)
	mux.HandleFunc("POST /chat", h.HandleChat)
	mux.HandleFunc("GET /history/{user_id}", h.GetHistory)

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(mux)
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{
		"message": "Career Counseling Chatbot Backend is running. Use POST /chat to talk to the bot.",
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.llm.Stats().Snapshot()
	resp := StatusResponse{
		GeminiKeyPresent: h.env.GeminiKeyPresent,
		OpenAIKeyPresent: h.env.OpenAIKeyPresent,
		GenCallCount:     snap.Calls,
		GenFailureCount:  snap.Failures,
		StorageMode:      h.env.StorageMode,
		StorageDriver:    h.env.StorageDriver,
	}
	if name := h.llm.ProviderName(); name != "" {
		resp.ModelProvider = &name
	}
	if snap.LastFailure != "" {
		resp.LastGenError = &snap.LastFailure
	}
	h.writeJSON(w, resp)
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == nil {
		http.Error(w, "Field 'message' is required", http.StatusBadRequest)
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = req.User
	}
	if userID == "" {
		userID = defaultUserID
	}

	reply := h.llm.GenerateReply(r.Context(), *req.Message)

	// The reply is returned even when persisting it fails.
	if _, err := h.chats.SaveChat(context.WithoutCancel(r.Context()), userID, *req.Message, reply); err != nil {
		h.logger.Warn("Failed to save chat", zap.String("user_id", userID), zap.Error(err))
	}

	h.writeJSON(w, ChatResponse{Response: reply})
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	history, err := h.chats.GetHistory(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get history",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("path", r.URL.Path))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Debug("Retrieved history",
		zap.Int("count", len(history)),
		zap.String("user_id", userID))

	h.writeJSON(w, history)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
