package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenProvider_SignInOut(t *testing.T) {
	p := NewTokenProvider("segredo")
	tok, err := p.Issue("u1", "ana@crm.dev", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got []*Session
	p.OnSessionChange(func(s *Session) { got = append(got, s) })

	s, err := p.SignIn(context.Background(), "Bearer "+tok)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if s.UserID != "u1" || s.Email != "ana@crm.dev" {
		t.Fatalf("session = %+v", s)
	}
	cur, _ := p.CurrentSession(context.Background())
	if cur == nil || cur.UserID != "u1" {
		t.Fatalf("current = %+v", cur)
	}

	_ = p.SignOut(context.Background())
	cur, _ = p.CurrentSession(context.Background())
	if cur != nil {
		t.Fatalf("session after sign out = %+v", cur)
	}
	if len(got) != 2 || got[0] == nil || got[1] != nil {
		t.Fatalf("notifications = %+v", got)
	}
}

func TestTokenProvider_Rejects(t *testing.T) {
	p := NewTokenProvider("segredo")
	other := NewTokenProvider("outro")
	forged, _ := other.Issue("u1", "", time.Hour)

	past := NewTokenProvider("segredo")
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := past.Issue("u1", "", time.Hour)

	for name, tok := range map[string]string{"empty": "", "garbage": "abc.def", "forged": forged, "expired": expired} {
		t.Run(name, func(t *testing.T) {
			if _, err := p.SignIn(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("want ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenProvider_ExpiredSessionIsNone(t *testing.T) {
	p := NewTokenProvider("segredo")
	tok, _ := p.Issue("u1", "", time.Minute)
	if _, err := p.SignIn(context.Background(), tok); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	p.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if cur, _ := p.CurrentSession(context.Background()); cur != nil {
		t.Fatalf("expired session still current")
	}
}

func TestGuard_WithTokenProvider(t *testing.T) {
	p := NewTokenProvider("segredo")
	g := NewGuard(p, time.Second, quietLog())
	defer g.Close()

	if got := g.Start(context.Background()); got != Unauthenticated {
		t.Fatalf("state = %v", got)
	}
	tok, _ := p.Issue("u1", "", time.Hour)
	if _, err := p.SignIn(context.Background(), tok); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if g.State() != Authenticated {
		t.Fatalf("state = %v", g.State())
	}
	_ = g.SignOut(context.Background())
	if g.State() != Unauthenticated {
		t.Fatalf("state = %v", g.State())
	}
}

// fakeTimers guarda os callbacks agendados para disparar manualmente.
type fakeTimers struct {
	delays []time.Duration
	fns    []func()
	stops  int
}

func (f *fakeTimers) afterFunc(d time.Duration, fn func()) func() bool {
	f.delays = append(f.delays, d)
	f.fns = append(f.fns, fn)
	return func() bool { f.stops++; return true }
}

func TestGuard_TokenExpiryEndsSession(t *testing.T) {
	now := time.Now()
	timers := &fakeTimers{}
	p := NewTokenProvider("segredo")
	p.now = func() time.Time { return now }
	p.afterFunc = timers.afterFunc

	g := NewGuard(p, time.Second, quietLog())
	defer g.Close()
	g.Start(context.Background())

	tok, _ := p.Issue("u1", "", time.Minute)
	if _, err := p.SignIn(context.Background(), tok); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if g.State() != Authenticated || len(timers.fns) != 1 {
		t.Fatalf("state=%v timers=%d", g.State(), len(timers.fns))
	}
	if d := timers.delays[0]; d <= 0 || d > time.Minute {
		t.Fatalf("expiry scheduled in %v", d)
	}

	// relógio passa do vencimento e o timer dispara
	now = now.Add(time.Hour)
	timers.fns[0]()

	if cur, _ := p.CurrentSession(context.Background()); cur != nil {
		t.Fatalf("session after expiry = %+v", cur)
	}
	if g.State() != Unauthenticated {
		t.Fatalf("guard state after expiry = %v", g.State())
	}
}

func TestTokenProvider_StaleExpiryKeepsNewSession(t *testing.T) {
	timers := &fakeTimers{}
	p := NewTokenProvider("segredo")
	p.afterFunc = timers.afterFunc

	first, _ := p.Issue("u1", "", time.Minute)
	second, _ := p.Issue("u2", "", time.Hour)
	if _, err := p.SignIn(context.Background(), first); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if _, err := p.SignIn(context.Background(), second); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if timers.stops != 1 {
		t.Fatalf("previous expiry not cancelled: stops=%d", timers.stops)
	}

	// o timer antigo dispara atrasado
	timers.fns[0]()
	cur, _ := p.CurrentSession(context.Background())
	if cur == nil || cur.UserID != "u2" {
		t.Fatalf("current = %+v", cur)
	}
}
