// Package normalize post-processes raw completions: register-violation
// detection with a single bounded rewrite, self-reference cooldown
// suppression, length clamping and whitespace cleanup.
package normalize

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ashureev/ron-bot/internal/persona"
	"github.com/ashureev/ron-bot/internal/policy"
	"github.com/ashureev/ron-bot/internal/provider"
	"github.com/ashureev/ron-bot/internal/session"
)

// Phrases that mark the reply as stock-assistant output.
var badPhrases = []string{
	"assist you", "how can i assist", "i am an ai", "as an ai", "chatbot",
	"i am here to help", "let us", "let's explore", "i am functioning",
	"meaningful conversation", "further together",
}

// rewriteInstruction is the fixed prompt for the single rewrite pass.
const rewriteInstruction = "Rewrite this in Hinglish (Roman), Gen-Z, short (1-3 sentences), casual emojis max 2. No Devanagari:\n"

// Hard length clamps per length class (runes).
const (
	shortClampLimit  = 180
	mediumClampLimit = 280
)

// selfRefMarkers matches self-disclosure details: pet, family nicknames,
// neighborhood, profession.
var selfRefMarkers = regexp.MustCompile(`(?i)\b(champ|mom|dad|dadi|family|bandra|stand[ -]?up|comic|comedy)\b`)

// sentenceSplit tokenizes text into sentences including their trailing
// punctuation and whitespace.
var sentenceSplit = regexp.MustCompile(`[^.!?\n]+[.!?\n]*\s*`)

var (
	trailingSpaceBeforeNewline = regexp.MustCompile(`[ \t]+\n`)
	tripleNewlines             = regexp.MustCompile(`\n{3,}`)
)

// Normalizer applies the post-processing pipeline. It may re-invoke the
// provider at most once per call, for the rewrite pass.
type Normalizer struct {
	provider provider.Provider
	persona  *persona.Store
}

// New creates a normalizer that issues rewrites through prov.
func New(prov provider.Provider, p *persona.Store) *Normalizer {
	return &Normalizer{provider: prov, persona: p}
}

// Normalize runs the single-pass pipeline over a raw completion and updates
// the session's self-reference cooldown. The caller must hold the session's
// lock.
func (n *Normalizer) Normalize(ctx context.Context, raw string, pol policy.Policy, sess *session.Session) (string, error) {
	text := strings.TrimSpace(raw)

	// A rewrite's own output is accepted unconditionally. Re-checking it
	// could loop, and a turn gets at most one extra call.
	if NeedsRewrite(text) {
		slog.Debug("completion violates register, rewriting", "len", len(text))
		rewritten, err := n.rewrite(ctx, text)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(rewritten)
	}

	text = n.applyCooldown(text, sess)
	text = clamp(text, pol.Length)
	return cleanWhitespace(text), nil
}

// NeedsRewrite reports whether the text violates the output register:
// Devanagari script, assistant-sounding phrasing, or a run-on length.
func NeedsRewrite(text string) bool {
	if containsDevanagari(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, phrase := range badPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	if utf8.RuneCountInString(text) > 260 && (strings.Contains(text, ".") || strings.Contains(text, ",")) {
		return true
	}
	return false
}

func (n *Normalizer) rewrite(ctx context.Context, offending string) (string, error) {
	messages := []provider.Message{
		{Role: provider.RoleSystem, Content: n.persona.Prompt()},
		{Role: provider.RoleUser, Content: rewriteInstruction + offending},
	}
	return n.provider.Complete(ctx, messages)
}

// applyCooldown strips the first self-disclosure sentence while the cooldown
// is armed, then re-arms or decays the counter based on whether a marker
// survives in the (possibly stripped) text.
func (n *Normalizer) applyCooldown(text string, sess *session.Session) string {
	if sess.SelfRefCooldown > 0 && selfRefMarkers.MatchString(text) {
		text = stripFirstMarkerSentence(text)
	}
	if selfRefMarkers.MatchString(text) {
		sess.ArmCooldown()
	} else {
		sess.DecayCooldown()
	}
	return text
}

// stripFirstMarkerSentence removes the first sentence containing a
// self-disclosure marker. Stripping never empties the reply: if the marker
// sentence is all there is, the text is returned unchanged.
func stripFirstMarkerSentence(text string) string {
	sentences := sentenceSplit.FindAllString(text, -1)
	for i, s := range sentences {
		if !selfRefMarkers.MatchString(s) {
			continue
		}
		rest := strings.TrimSpace(strings.Join(append(sentences[:i:i], sentences[i+1:]...), ""))
		if rest == "" {
			return text
		}
		return rest
	}
	return text
}

// clamp truncates over-long replies at a word boundary and appends an
// ellipsis. Already-short text passes through untouched.
func clamp(text string, length policy.Length) string {
	switch length {
	case policy.LengthShort:
		return clampAt(text, shortClampLimit)
	case policy.LengthMedium:
		return clampAt(text, mediumClampLimit)
	default:
		return text
	}
}

func clampAt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexAny(cut, " \n\t"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \n\t") + "…"
}

func cleanWhitespace(text string) string {
	text = trailingSpaceBeforeNewline.ReplaceAllString(text, "\n")
	text = tripleNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func containsDevanagari(text string) bool {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}
