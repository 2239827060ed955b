// Package policy derives per-turn response-shaping constraints from the
// classified mood/intent and the session's active flags.
package policy

import (
	"strings"

	"github.com/ashureev/ron-bot/internal/classify"
	"github.com/ashureev/ron-bot/internal/session"
)

// Length is the target response length class.
type Length string

const (
	LengthShort   Length = "short"
	LengthMedium  Length = "medium"
	LengthBullets Length = "bullets"
)

// Policy is the per-turn response policy. Ephemeral; recomputed every turn.
type Policy struct {
	Length    Length
	Validate  bool
	TinyStep  bool
	AvoidSelf bool
	Banter    bool
}

// Default returns the baseline policy before any rule fires.
func Default() Policy {
	return Policy{Length: LengthShort, AvoidSelf: true}
}

// Build combines the classification with active session flags.
//
// The sleep-flag check runs strictly after the mood branch, so an active
// sleep flag downgrades a just-set medium length back to short. That ordering
// is deliberate and load-bearing; see DESIGN.md.
func Build(mi classify.MoodIntent, sess *session.Session) Policy {
	p := Default()

	if mi.Intent == classify.IntentHelp {
		p.Length = LengthBullets
	}

	switch mi.Mood {
	case classify.MoodSad, classify.MoodAnxious, classify.MoodExhausted, classify.MoodFrustrated:
		p.Validate = true
		p.TinyStep = true
		if mi.Mood != classify.MoodExhausted {
			p.Length = LengthMedium
		}
	}

	if sess.FlagActive(session.FlagSleep) {
		p.TinyStep = true
		p.Length = LengthShort
	}

	if mi.Intent == classify.IntentBanter {
		p.Banter = true
		p.Length = LengthShort
	}

	return p
}

// AsText renders the policy as imperative instruction sentences, in fixed
// field order, including only fields that deviate from the zero rule (plus
// the always-on self-disclosure guard).
func (p Policy) AsText() string {
	var lines []string

	switch p.Length {
	case LengthMedium:
		lines = append(lines, "Keep it to 2-4 short sentences this time.")
	case LengthBullets:
		lines = append(lines, "Answer as 3-6 tight bullets, max 8 words each.")
	}
	if p.Validate {
		lines = append(lines, "Start by validating their feeling in 1 short line.")
	}
	if p.TinyStep {
		lines = append(lines, "Suggest exactly one tiny next step they can do in under 5 minutes.")
	}
	if p.AvoidSelf {
		lines = append(lines, "Don't bring up your own backstory unless they ask.")
	}
	if p.Banter {
		lines = append(lines, "Lean into playful banter; tease lightly, keep it fun.")
	}

	return strings.Join(lines, "\n")
}
