package classify

import "testing"

func TestClassifyTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want MoodIntent
	}{
		{
			name: "empty string is neutral chat",
			text: "",
			want: MoodIntent{Mood: MoodNeutral, Intent: IntentChat, Severity: SeverityLow},
		},
		{
			name: "keyword-free string is neutral chat",
			text: "kya scene hai bro",
			want: MoodIntent{Mood: MoodNeutral, Intent: IntentChat, Severity: SeverityLow},
		},
		{
			name: "anxiety keywords",
			text: "I keep overthinking everything",
			want: MoodIntent{Mood: MoodAnxious, Intent: IntentSupport, Severity: SeverityMed},
		},
		{
			name: "sleep keywords",
			text: "insomnia is killing me",
			want: MoodIntent{Mood: MoodExhausted, Intent: IntentSupport, Severity: SeverityMed},
		},
		{
			name: "breakup is high severity vent",
			text: "went through a breakup, feeling hopeless",
			want: MoodIntent{Mood: MoodSad, Intent: IntentVent, Severity: SeverityHigh},
		},
		{
			name: "frustration",
			text: "so annoyed with my roommate",
			want: MoodIntent{Mood: MoodFrustrated, Intent: IntentVent, Severity: SeverityMed},
		},
		{
			name: "help keyword only changes intent",
			text: "need a plan for tomorrow",
			want: MoodIntent{Mood: MoodNeutral, Intent: IntentHelp, Severity: SeverityLow},
		},
		{
			name: "gym keywords route to help",
			text: "suggest a workout",
			want: MoodIntent{Mood: MoodNeutral, Intent: IntentHelp, Severity: SeverityLow},
		},
		{
			name: "banter",
			text: "lol so bored lmao",
			want: MoodIntent{Mood: MoodPlayful, Intent: IntentBanter, Severity: SeverityLow},
		},
		{
			name: "question mark upgrades chat to ask",
			text: "what's the best cafe in bandra?",
			want: MoodIntent{Mood: MoodNeutral, Intent: IntentAsk, Severity: SeverityLow},
		},
		{
			name: "question mark does not override help",
			text: "how to fix my sleep?",
			want: MoodIntent{Mood: MoodNeutral, Intent: IntentHelp, Severity: SeverityLow},
		},
		{
			name: "later rule overwrites earlier mood",
			text: "I'm anxious but lol whatever",
			want: MoodIntent{Mood: MoodPlayful, Intent: IntentBanter, Severity: SeverityMed},
		},
		{
			name: "case insensitive",
			text: "PANIC mode ON",
			want: MoodIntent{Mood: MoodAnxious, Intent: IntentSupport, Severity: SeverityMed},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.text)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	t.Parallel()

	const text = "tired and anxious"
	first := Classify(text)
	for i := 0; i < 5; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("Classify not deterministic: %+v vs %+v", got, first)
		}
	}
}
