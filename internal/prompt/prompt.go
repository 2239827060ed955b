// Package prompt assembles the message list sent to the completion provider.
package prompt

import (
	"strings"

	"github.com/ashureev/ron-bot/internal/persona"
	"github.com/ashureev/ron-bot/internal/provider"
	"github.com/ashureev/ron-bot/internal/session"
)

// historyWindow bounds how many history turns accompany a request
// (4 exchanges). Smaller than the stored history to keep prompts lean.
const historyWindow = 8

// Assembler builds provider message lists from persona, policy and history.
type Assembler struct {
	persona *persona.Store
}

// New creates an assembler over a persona store.
func New(p *persona.Store) *Assembler {
	return &Assembler{persona: p}
}

// Assemble returns the ordered message list: exactly one system message at
// index 0 (persona prompt with a fresh fact sample, the rendered policy, and
// the fixed register directive), then the recent history in chronological
// order, then the new user turn.
func (a *Assembler) Assemble(sess *session.Session, policyText, userText string) []provider.Message {
	sys := strings.Replace(a.persona.Prompt(), persona.BlobPlaceholder, a.persona.Sample(), 1)

	var b strings.Builder
	b.WriteString(sys)
	if policyText != "" {
		b.WriteString("\n\nTHIS TURN\n")
		b.WriteString(policyText)
	}
	b.WriteString("\n")
	b.WriteString(persona.RegisterDirective)

	messages := []provider.Message{{Role: provider.RoleSystem, Content: b.String()}}
	for _, t := range sess.Recent(historyWindow) {
		role := provider.RoleUser
		if t.Role == session.RoleAssistant {
			role = provider.RoleAssistant
		}
		messages = append(messages, provider.Message{Role: role, Content: t.Text})
	}
	return append(messages, provider.Message{Role: provider.RoleUser, Content: userText})
}
