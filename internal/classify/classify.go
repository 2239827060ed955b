// Package classify infers a coarse (mood, intent, severity) triple from raw
// user text via ordered keyword rules.
package classify

import "strings"

// Mood is the inferred emotional state of the user.
type Mood string

const (
	MoodNeutral    Mood = "neutral"
	MoodAnxious    Mood = "anxious"
	MoodExhausted  Mood = "exhausted"
	MoodSad        Mood = "sad"
	MoodFrustrated Mood = "frustrated"
	MoodPlayful    Mood = "playful"
)

// Intent is the inferred conversational goal of the message.
type Intent string

const (
	IntentChat    Intent = "chat"
	IntentSupport Intent = "support"
	IntentVent    Intent = "vent"
	IntentHelp    Intent = "help"
	IntentBanter  Intent = "banter"
	IntentAsk     Intent = "ask"
)

// Severity grades how strongly the mood registered.
type Severity string

const (
	SeverityLow  Severity = "low"
	SeverityMed  Severity = "med"
	SeverityHigh Severity = "high"
)

// MoodIntent is the classifier output. Ephemeral; recomputed every turn.
type MoodIntent struct {
	Mood     Mood
	Intent   Intent
	Severity Severity
}

// rule matches any of its keywords as a case-insensitive substring. A matched
// rule overwrites mood+severity when Mood is set, and intent when Intent is
// set; rules are evaluated in order, so later matches win.
type rule struct {
	keywords []string
	mood     Mood
	intent   Intent
	severity Severity
}

var rules = []rule{
	{
		keywords: []string{"panic", "anxious", "anxiety", "overthinking", "stressed", "nervous"},
		mood:     MoodAnxious, intent: IntentSupport, severity: SeverityMed,
	},
	{
		keywords: []string{"tired", "insomnia", "no sleep", "can't sleep", "cant sleep", "exhausted", "sleepless"},
		mood:     MoodExhausted, intent: IntentSupport, severity: SeverityMed,
	},
	{
		keywords: []string{"breakup", "break up", "hopeless", "depressed", "heartbroken", "lonely"},
		mood:     MoodSad, intent: IntentVent, severity: SeverityHigh,
	},
	{
		keywords: []string{"angry", "frustrated", "annoyed", "irritated", "fed up"},
		mood:     MoodFrustrated, intent: IntentVent, severity: SeverityMed,
	},
	{
		keywords: []string{"help", "how to", "how do i", "plan", "guide", "steps", "advice"},
		intent:   IntentHelp,
	},
	{
		keywords: []string{"gym", "workout", "routine", "exercise", "diet"},
		intent:   IntentHelp,
	},
	{
		keywords: []string{"lol", "lmao", "bored", "haha", "meme"},
		mood:     MoodPlayful, intent: IntentBanter,
	},
}

// Classify maps text to a MoodIntent. Pure function of the input and the
// fixed rule table; an empty or keyword-free string yields the neutral
// default (neutral, chat, low).
func Classify(text string) MoodIntent {
	out := MoodIntent{Mood: MoodNeutral, Intent: IntentChat, Severity: SeverityLow}
	lower := strings.ToLower(text)

	for _, r := range rules {
		if !matchesAny(lower, r.keywords) {
			continue
		}
		if r.mood != "" {
			out.Mood = r.mood
			if r.severity != "" {
				out.Severity = r.severity
			}
		}
		if r.intent != "" {
			out.Intent = r.intent
		}
	}

	if strings.Contains(text, "?") && out.Intent == IntentChat {
		out.Intent = IntentAsk
	}
	return out
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
