package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AddisenK/ai-assistant/pkg/assistant"
	"github.com/AddisenK/ai-assistant/pkg/channel/discord"
)

type statusResponse struct {
	Status        string                  `json:"status"`
	UptimeSeconds int64                   `json:"uptime_seconds"`
	Channels      map[string]channelState `json:"channels"`
}

type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

type imessagePayload struct {
	From string `json:"from"`
	Body string `json:"body"`
}

func (s *Service) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "ai-assistant-gateway",
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.currentStatus("ok"))
}

func (s *Service) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.assistant.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, s.currentStatus("not_ready"))
		return
	}

	writeJSON(w, http.StatusOK, s.currentStatus("ready"))
}

// handleChat answers a direct assistant query. Assistant failures stay
// inside the reply text; only a malformed request is a protocol error.
func (s *Service) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}

	reply, err := s.caps.Ask(r.Context(), req.Message, req.Context)
	writeJSON(w, http.StatusOK, map[string]string{
		"response": assistant.Text(reply, err),
	})
}

// handleDiscordInteractions implements the interactions handshake: a
// ping payload is answered with a bare pong, everything else with the
// fixed acknowledgment.
func (s *Service) handleDiscordInteractions(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := discord.HandleInteraction(payload)
	if err != nil {
		s.log.Warn("Malformed discord interaction", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid interaction payload")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// handleWhatsAppVerify echoes the challenge when the caller presents the
// configured verification token, and refuses otherwise.
func (s *Service) handleWhatsAppVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if s.cfg.Channels.VerifyToken == "" || token != s.cfg.Channels.VerifyToken {
		s.log.Warn("Webhook verification failed")
		writeError(w, http.StatusForbidden, "Verification failed")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

func (s *Service) handleWhatsAppMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	body := r.PostFormValue("Body")
	if from == "" {
		writeError(w, http.StatusBadRequest, "Missing From field")
		return
	}

	if err := s.whatsapp.HandleMessage(r.Context(), from, body); err != nil {
		s.log.Error("WhatsApp handling failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func (s *Service) handleIMessageMessage(w http.ResponseWriter, r *http.Request) {
	var payload imessagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(payload.From) == "" {
		writeError(w, http.StatusBadRequest, "Missing from field")
		return
	}

	if err := s.imessage.HandleMessage(r.Context(), payload.From, payload.Body); err != nil {
		s.log.Error("iMessage handling failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// handleRemindersCheck is the external poll trigger: flush every due
// reminder right now.
func (s *Service) handleRemindersCheck(w http.ResponseWriter, r *http.Request) {
	s.scheduler.CheckAndSend(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "checked"})
}

func (s *Service) currentStatus(status string) statusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uptime := int64(0)
	if !s.startedAt.IsZero() {
		uptime = int64(time.Since(s.startedAt).Seconds())
	}

	channels := make(map[string]channelState, len(s.channelStates))
	for name, state := range s.channelStates {
		channels[name] = state
	}

	return statusResponse{
		Status:        status,
		UptimeSeconds: uptime,
		Channels:      channels,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
