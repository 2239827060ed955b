package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestSession(now *time.Time) *Session {
	return &Session{
		Flags: make(map[string]time.Time),
		now:   func() time.Time { return *now },
	}
}

func TestHistoryBoundedFIFO(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sess := newTestSession(&now)

	for i := 0; i < 30; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		sess.Append(role, fmt.Sprintf("turn-%d", i))
	}

	if len(sess.History) != MaxHistory {
		t.Fatalf("history length = %d, want %d", len(sess.History), MaxHistory)
	}
	// The surviving entries are the most recent 5 exchanges: turns 20..29.
	for i, turn := range sess.History {
		want := fmt.Sprintf("turn-%d", 20+i)
		if turn.Text != want {
			t.Errorf("history[%d] = %q, want %q", i, turn.Text, want)
		}
	}
}

func TestRecentReturnsChronologicalSuffix(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sess := newTestSession(&now)
	for i := 0; i < 6; i++ {
		sess.Append(RoleUser, fmt.Sprintf("m%d", i))
	}

	got := sess.Recent(4)
	if len(got) != 4 {
		t.Fatalf("Recent(4) returned %d turns", len(got))
	}
	if got[0].Text != "m2" || got[3].Text != "m5" {
		t.Errorf("Recent(4) = %v, want m2..m5", got)
	}

	if all := sess.Recent(100); len(all) != 6 {
		t.Errorf("Recent(100) returned %d turns, want 6", len(all))
	}
}

func TestFlagExpiry(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start
	sess := newTestSession(&now)

	sess.SetFlag(FlagSleep, 240*time.Minute)

	now = start.Add(240*time.Minute - time.Second)
	if !sess.FlagActive(FlagSleep) {
		t.Error("flag should be active just before expiry")
	}

	now = start.Add(240*time.Minute + time.Second)
	if sess.FlagActive(FlagSleep) {
		t.Error("flag should be inactive just after expiry")
	}

	if sess.FlagActive("never-set") {
		t.Error("unknown flag should be inactive")
	}
}

func TestUpdateFlagsRefreshesExpiry(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start
	sess := newTestSession(&now)

	sess.UpdateFlags("I havent slept in 3 days, feeling anxious")
	if !sess.FlagActive(FlagSleep) {
		t.Error("sleep flag should be active")
	}
	if !sess.FlagActive(FlagAnxious) {
		t.Error("anxious flag should be active")
	}

	// The anxious flag lasts 60 minutes. A repeated trigger at minute 50
	// extends it past the original expiry.
	now = start.Add(50 * time.Minute)
	sess.UpdateFlags("still anxious yaar")
	now = start.Add(70 * time.Minute)
	if !sess.FlagActive(FlagAnxious) {
		t.Error("refreshed anxious flag should still be active")
	}

	// The sleep flag was not refreshed and keeps its original expiry.
	now = start.Add(241 * time.Minute)
	if sess.FlagActive(FlagSleep) {
		t.Error("sleep flag should have expired")
	}
}

func TestUpdateFlagsIgnoresUnrelatedText(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sess := newTestSession(&now)
	sess.UpdateFlags("chal sushi khate hain")
	if len(sess.Flags) != 0 {
		t.Errorf("no flags should be set, got %v", sess.Flags)
	}
}

func TestCooldownArmAndDecay(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sess := newTestSession(&now)

	sess.ArmCooldown()
	if sess.SelfRefCooldown != CooldownReset {
		t.Fatalf("cooldown = %d, want %d", sess.SelfRefCooldown, CooldownReset)
	}

	for i := CooldownReset - 1; i >= 0; i-- {
		sess.DecayCooldown()
		if sess.SelfRefCooldown != i {
			t.Fatalf("cooldown = %d, want %d", sess.SelfRefCooldown, i)
		}
	}

	// Floored at zero.
	sess.DecayCooldown()
	if sess.SelfRefCooldown != 0 {
		t.Errorf("cooldown = %d, want 0", sess.SelfRefCooldown)
	}
}

func TestStoreCreatesSessionsLazily(t *testing.T) {
	t.Parallel()

	st := NewStore()
	if st.Len() != 0 {
		t.Fatalf("new store has %d sessions", st.Len())
	}

	sess, release := st.Acquire("u1")
	release()
	if sess == nil {
		t.Fatal("Acquire returned nil session")
	}
	if st.Len() != 1 {
		t.Errorf("store has %d sessions, want 1", st.Len())
	}

	again, release := st.Acquire("u1")
	release()
	if again != sess {
		t.Error("Acquire returned a different session for the same user")
	}
}

func TestStoreSerializesSameUser(t *testing.T) {
	t.Parallel()

	st := NewStore()
	const turns = 100

	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, release := st.Acquire("u1")
			defer release()
			sess.Append(RoleUser, fmt.Sprintf("q%d", i))
			sess.Append(RoleAssistant, fmt.Sprintf("a%d", i))
		}(i)
	}
	wg.Wait()

	sess, release := st.Acquire("u1")
	defer release()
	if len(sess.History) != MaxHistory {
		t.Errorf("history length = %d, want %d", len(sess.History), MaxHistory)
	}
	// With the per-user lock held across both appends, a user turn is
	// always followed by its own assistant turn.
	for i := 0; i < len(sess.History)-1; i += 2 {
		u, a := sess.History[i], sess.History[i+1]
		if u.Role != RoleUser || a.Role != RoleAssistant {
			t.Fatalf("interleaved history at %d: %v %v", i, u, a)
		}
		if u.Text[1:] != a.Text[1:] {
			t.Fatalf("mismatched exchange at %d: %q vs %q", i, u.Text, a.Text)
		}
	}
}
