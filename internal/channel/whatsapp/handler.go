// Package whatsapp implements the WhatsApp Cloud API webhook adapter.
//
// The adapter is thin glue: it unwraps the Cloud API payload to the first
// text message, calls the responder, and forwards the reply through the
// Graph API. Malformed or non-text payloads are acknowledged and ignored.
package whatsapp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/ron-bot/internal/responder"
	"github.com/go-chi/chi/v5"
)

// replyTimeout bounds one reply generation: the primary completion plus the
// optional rewrite pass.
const replyTimeout = 3 * time.Minute

// Handler serves the webhook verification and inbound message routes.
type Handler struct {
	responder   *responder.Responder
	sender      *Sender
	verifyToken string
}

// NewHandler creates a webhook handler.
func NewHandler(r *responder.Responder, sender *Sender, verifyToken string) *Handler {
	return &Handler{
		responder:   r,
		sender:      sender,
		verifyToken: verifyToken,
	}
}

// RegisterRoutes mounts the webhook endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/webhook", h.verify)
	r.Post("/webhook", h.inbound)
}

// verify answers the Cloud API subscription handshake: echo hub.challenge
// when the mode and token match, 403 otherwise.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "forbidden", http.StatusForbidden)
}

// Inbound payload shapes, trimmed to the fields the adapter reads.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// inbound handles a webhook delivery. Anything that is not a text message
// from a sender is a no-op, acknowledged with status "ignored" so the Cloud
// API does not retry.
func (h *Handler) inbound(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	msg, ok := firstTextMessage(payload)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), replyTimeout)
	defer cancel()

	reply, err := h.responder.Reply(ctx, msg.Text.Body, msg.From)
	if err != nil {
		slog.Error("reply generation failed", "channel", "whatsapp", "user_id", msg.From, "error", err)
		reply = responder.Apology
	}

	// Delivery is best effort: a failed send must not make the webhook
	// report an error, or the Cloud API would redeliver the message.
	if err := h.sender.Send(r.Context(), msg.From, reply); err != nil {
		slog.Warn("whatsapp send failed", "user_id", msg.From, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func firstTextMessage(p webhookPayload) (inboundMessage, bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return inboundMessage{}, false
	}
	value := p.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 || value.Messages[0].Type != "text" {
		return inboundMessage{}, false
	}
	return value.Messages[0], true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode webhook response", "error", err)
	}
}
