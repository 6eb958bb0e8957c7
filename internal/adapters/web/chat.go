package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"inventory-ops/internal/app"

	"github.com/google/uuid"
)

// ── Pending command store ─────────────────────────────────────────────────────

// pendingCommand is stored server-side until the operator confirms or cancels.
type pendingCommand struct {
	Command   app.CommandInput
	CreatedAt time.Time
}

const pendingTTL = 15 * time.Minute

// pendingStore is a thread-safe in-memory store with TTL expiry.
type pendingStore struct {
	mu       sync.Mutex
	commands map[string]pendingCommand
}

func newPendingStore() *pendingStore {
	return &pendingStore{commands: make(map[string]pendingCommand)}
}

func (s *pendingStore) put(token string, c pendingCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands[token] = c
}

func (s *pendingStore) get(token string) (pendingCommand, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commands[token]
	if !ok {
		return pendingCommand{}, false
	}
	if time.Since(c.CreatedAt) > pendingTTL {
		delete(s.commands, token)
		return pendingCommand{}, false
	}
	return c, true
}

func (s *pendingStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.commands, token)
}

// startPurge starts a background goroutine that evicts expired entries every 5 minutes.
func (s *pendingStore) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				for token, cmd := range s.commands {
					if time.Since(cmd.CreatedAt) > pendingTTL {
						delete(s.commands, token)
					}
				}
				s.mu.Unlock()
			}
		}
	}()
}

// ── SSE helpers ───────────────────────────────────────────────────────────────

// sendSSE writes one SSE event and flushes. data is JSON-marshalled.
func sendSSE(w http.ResponseWriter, f http.Flusher, event string, data any) {
	b, _ := json.Marshal(data)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(b))
	f.Flush()
}

// ── Request / response types ──────────────────────────────────────────────────

type chatMessageRequest struct {
	Text string `json:"text"`
}

type chatConfirmRequest struct {
	Token  string `json:"token"`
	Action string `json:"action"` // "confirm" or "cancel"
}

// ── chatMessage — POST /chat ──────────────────────────────────────────────────

// chatMessage accepts an operator message and streams the assistant response
// via SSE.
//
// SSE event types:
//
//	status       {"status":"thinking"}
//	clarification{"question":"..."}
//	proposal     {"token":"uuid","command":{...},"reasoning":"...","confidence":0.9}
//	error        {"message":"...","code":"..."}
//	done         {}
func (h *Handler) chatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, "streaming not supported", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering if present

	sendSSE(w, flusher, "status", map[string]any{"status": "thinking"})

	result, err := h.svc.InterpretCommand(r.Context(), req.Text)
	if err != nil {
		sendSSE(w, flusher, "error", map[string]any{"message": err.Error(), "code": "AI_ERROR"})
		sendSSE(w, flusher, "done", map[string]any{})
		return
	}

	if result.IsClarification {
		sendSSE(w, flusher, "clarification", map[string]any{
			"question": result.ClarificationMessage,
		})
	} else {
		token := uuid.NewString()
		h.pending.put(token, pendingCommand{
			Command:   *result.Command,
			CreatedAt: time.Now(),
		})
		sendSSE(w, flusher, "proposal", map[string]any{
			"token":      token,
			"command":    result.Command,
			"reasoning":  result.Reasoning,
			"confidence": result.Confidence,
		})
	}

	sendSSE(w, flusher, "done", map[string]any{})
}

// ── chatConfirm — POST /chat/confirm ──────────────────────────────────────────

// chatConfirm executes or cancels a pending command identified by its token.
func (h *Handler) chatConfirm(w http.ResponseWriter, r *http.Request) {
	var req chatConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeError(w, r, "token is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Action != "confirm" && req.Action != "cancel" {
		writeError(w, r, "action must be 'confirm' or 'cancel'", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	cmd, ok := h.pending.get(req.Token)
	if !ok {
		writeError(w, r, "token not found or expired", "NOT_FOUND", http.StatusNotFound)
		return
	}
	h.pending.delete(req.Token)

	if req.Action == "cancel" {
		writeJSON(w, map[string]any{"ok": true, "message": "Cancelled."})
		return
	}

	result, err := h.svc.ExecuteCommand(r.Context(), cmd.Command)
	if err != nil {
		writeError(w, r, err.Error(), "COMMAND_ERROR", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "message": result})
}
