// Package session tracks per-user conversational state: bounded history,
// time-bounded behavioral flags, and the self-reference cooldown counter.
// State is scoped to process lifetime; nothing is persisted.
package session

import (
	"strings"
	"time"
)

// Speaker roles for history turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Behavioral flag names.
const (
	FlagSleep   = "sleep"
	FlagAnxious = "anxious"
)

const (
	// MaxHistory bounds the stored conversation history (5 exchanges).
	MaxHistory = 10

	// CooldownReset is the self-reference cooldown value armed after a
	// reply that discloses a backstory detail.
	CooldownReset = 5

	sleepFlagTTL   = 240 * time.Minute
	anxiousFlagTTL = 60 * time.Minute
)

// flagTriggers maps a flag to the keyword group that sets it. The vocabulary
// overlaps the classifier's but is maintained separately: a flag outlives the
// message that raised it, a classification does not.
var flagTriggers = map[string]struct {
	keywords []string
	ttl      time.Duration
}{
	FlagSleep: {
		keywords: []string{"no sleep", "not slept", "haven't slept", "havent slept", "insomnia", "sleep deprived", "all nighter", "all-nighter"},
		ttl:      sleepFlagTTL,
	},
	FlagAnxious: {
		keywords: []string{"anxious", "anxiety", "panic", "overthinking"},
		ttl:      anxiousFlagTTL,
	},
}

// Turn is one history entry.
type Turn struct {
	Role string
	Text string
}

// Session holds mutable per-user state. Callers must hold the user's lock
// (via Store.Acquire) for the duration of a read-modify-write.
type Session struct {
	History         []Turn
	Flags           map[string]time.Time // flag name -> absolute expiry
	SelfRefCooldown int

	now func() time.Time
}

// Append adds a turn, evicting the oldest entries beyond MaxHistory.
func (s *Session) Append(role, text string) {
	s.History = append(s.History, Turn{Role: role, Text: text})
	if n := len(s.History); n > MaxHistory {
		s.History = s.History[n-MaxHistory:]
	}
}

// Recent returns the last n turns in chronological order.
func (s *Session) Recent(n int) []Turn {
	if n >= len(s.History) {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// SetFlag activates a flag for the given duration from now. Repeated sets
// simply refresh the expiry.
func (s *Session) SetFlag(name string, ttl time.Duration) {
	s.Flags[name] = s.now().Add(ttl)
}

// FlagActive reports whether the flag's stored expiry is still in the
// future. Expired entries are left in place; they are harmless.
func (s *Session) FlagActive(name string) bool {
	expiry, ok := s.Flags[name]
	return ok && expiry.After(s.now())
}

// UpdateFlags scans the message for flag trigger keywords and refreshes any
// matched flag. Idempotent per message.
func (s *Session) UpdateFlags(text string) {
	lower := strings.ToLower(text)
	for name, trig := range flagTriggers {
		for _, kw := range trig.keywords {
			if strings.Contains(lower, kw) {
				s.SetFlag(name, trig.ttl)
				break
			}
		}
	}
}

// ArmCooldown resets the self-reference cooldown to its full value.
func (s *Session) ArmCooldown() {
	s.SelfRefCooldown = CooldownReset
}

// DecayCooldown decrements the cooldown by one, floored at zero.
func (s *Session) DecayCooldown() {
	if s.SelfRefCooldown > 0 {
		s.SelfRefCooldown--
	}
}
