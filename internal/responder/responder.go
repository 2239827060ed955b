// Package responder implements the reply-policy engine: session state,
// mood/intent classification, policy derivation, prompt assembly, the
// completion call and output normalization, in that order.
package responder

import (
	"context"
	"fmt"
	"time"

	"github.com/ashureev/ron-bot/internal/classify"
	"github.com/ashureev/ron-bot/internal/logsink"
	"github.com/ashureev/ron-bot/internal/normalize"
	"github.com/ashureev/ron-bot/internal/persona"
	"github.com/ashureev/ron-bot/internal/policy"
	"github.com/ashureev/ron-bot/internal/prompt"
	"github.com/ashureev/ron-bot/internal/provider"
	"github.com/ashureev/ron-bot/internal/session"
	"github.com/google/uuid"
)

// Apology is the fixed in-character fallback channel adapters send when
// reply generation fails. End users never see a raw error.
const Apology = "oops, thoda glitch hua 😅 fir se bhej de?"

// Responder produces in-character replies. Safe for concurrent use; requests
// for the same user are serialized by the session store.
type Responder struct {
	provider   provider.Provider
	sessions   *session.Store
	assembler  *prompt.Assembler
	normalizer *normalize.Normalizer
	sink       logsink.Sink
}

// New wires the engine. The sink may be logsink.Nop{} when logging is
// disabled.
func New(prov provider.Provider, sessions *session.Store, p *persona.Store, sink logsink.Sink) *Responder {
	return &Responder{
		provider:   prov,
		sessions:   sessions,
		assembler:  prompt.New(p),
		normalizer: normalize.New(prov, p),
		sink:       sink,
	}
}

// Reply generates a reply to userText for the given user. On provider
// failure it returns a typed error (*provider.Error in the chain); callers
// map that to Apology. At most two provider calls happen per invocation:
// the primary completion and one optional rewrite.
func (r *Responder) Reply(ctx context.Context, userText, userID string) (string, error) {
	sess, release := r.sessions.Acquire(userID)
	defer release()

	sess.UpdateFlags(userText)
	mi := classify.Classify(userText)
	pol := policy.Build(mi, sess)

	policyText := pol.AsText()
	if hint := persona.ArchetypeSummaries[archetypeFor(mi)]; hint != "" {
		policyText += "\nApproach: " + hint + "."
	}

	messages := r.assembler.Assemble(sess, policyText, userText)
	raw, err := r.provider.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate reply for user %s: %w", userID, err)
	}

	reply, err := r.normalizer.Normalize(ctx, raw, pol, sess)
	if err != nil {
		return "", fmt.Errorf("normalize reply for user %s: %w", userID, err)
	}

	sess.Append(session.RoleUser, userText)
	sess.Append(session.RoleAssistant, reply)

	r.sink.Append(logsink.Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Provider:  r.provider.Name(),
		UserID:    userID,
		UserText:  userText,
		ReplyText: reply,
	})

	return reply, nil
}

// archetypeFor maps the classified turn to a user archetype whose response
// strategy is appended to the policy instructions. Neutral chat has no
// archetype and gets no hint.
func archetypeFor(mi classify.MoodIntent) string {
	if mi.Intent == classify.IntentBanter {
		return "casual_banter"
	}
	switch mi.Mood {
	case classify.MoodAnxious:
		return "anxious_student"
	case classify.MoodExhausted:
		return "night_owl"
	case classify.MoodSad:
		return "relationship_vent"
	case classify.MoodFrustrated:
		return "family_conflict"
	default:
		return ""
	}
}
