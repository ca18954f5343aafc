package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type idpMock struct {
	CurrentFn func(ctx context.Context) (*Session, error)
	SignOutFn func(ctx context.Context) error

	mu  sync.Mutex
	fns []func(*Session)
}

func (m *idpMock) CurrentSession(ctx context.Context) (*Session, error) { return m.CurrentFn(ctx) }

func (m *idpMock) SignOut(ctx context.Context) error {
	if m.SignOutFn == nil {
		return nil
	}
	return m.SignOutFn(ctx)
}

func (m *idpMock) OnSessionChange(fn func(*Session)) func() {
	m.mu.Lock()
	m.fns = append(m.fns, fn)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.fns = nil
		m.mu.Unlock()
	}
}

func (m *idpMock) fire(s *Session) {
	m.mu.Lock()
	fns := append([]func(*Session){}, m.fns...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestGuard_InitialResolution(t *testing.T) {
	cases := []struct {
		name string
		fn   func(context.Context) (*Session, error)
		want State
	}{
		{"session", func(context.Context) (*Session, error) { return &Session{UserID: "u1"}, nil }, Authenticated},
		{"no session", func(context.Context) (*Session, error) { return nil, nil }, Unauthenticated},
		{"provider error", func(context.Context) (*Session, error) { return nil, errors.New("dns") }, Unreachable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGuard(&idpMock{CurrentFn: tc.fn}, time.Second, quietLog())
			defer g.Close()
			if got := g.Start(context.Background()); got != tc.want {
				t.Fatalf("state = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGuard_TimeoutThenLateResultIgnored(t *testing.T) {
	release := make(chan struct{})
	idp := &idpMock{CurrentFn: func(context.Context) (*Session, error) {
		<-release
		return &Session{UserID: "u1"}, nil
	}}
	g := NewGuard(idp, 20*time.Millisecond, quietLog())
	defer g.Close()

	if got := g.Start(context.Background()); got != Unreachable {
		t.Fatalf("state = %v, want unreachable", got)
	}
	close(release)
	time.Sleep(50 * time.Millisecond)
	if got := g.State(); got != Unreachable {
		t.Fatalf("late lookup changed state to %v", got)
	}
}

func TestGuard_RetryLeavesUnreachable(t *testing.T) {
	var mu sync.Mutex
	fail := true
	idp := &idpMock{CurrentFn: func(context.Context) (*Session, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("offline")
		}
		return &Session{UserID: "u1"}, nil
	}}
	g := NewGuard(idp, time.Second, quietLog())
	defer g.Close()

	if got := g.Start(context.Background()); got != Unreachable {
		t.Fatalf("state = %v", got)
	}
	mu.Lock()
	fail = false
	mu.Unlock()
	if got := g.Retry(context.Background()); got != Authenticated {
		t.Fatalf("after retry state = %v", got)
	}
	if s := g.Session(); s == nil || s.UserID != "u1" {
		t.Fatalf("session = %+v", s)
	}
}

func TestGuard_NotificationCancelsPendingLookup(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	idp := &idpMock{CurrentFn: func(context.Context) (*Session, error) {
		<-release
		return nil, nil
	}}
	g := NewGuard(idp, 5*time.Second, quietLog())
	defer g.Close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		idp.fire(&Session{UserID: "u2"})
	}()

	start := time.Now()
	got := g.Start(context.Background())
	if got != Authenticated {
		t.Fatalf("state = %v, want authenticated", got)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("pending lookup was not cancelled")
	}
}

func TestGuard_SubscribeSeesTransitions(t *testing.T) {
	idp := &idpMock{CurrentFn: func(context.Context) (*Session, error) { return nil, nil }}
	g := NewGuard(idp, time.Second, quietLog())
	defer g.Close()

	var mu sync.Mutex
	var seen []State
	g.Subscribe(func(st State, _ *Session) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})

	g.Start(context.Background())
	idp.fire(&Session{UserID: "u1"})
	idp.fire(nil)

	mu.Lock()
	defer mu.Unlock()
	want := []State{Unauthenticated, Authenticated, Unauthenticated}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestGuard_ClosedIgnoresNotifications(t *testing.T) {
	idp := &idpMock{CurrentFn: func(context.Context) (*Session, error) { return nil, nil }}
	g := NewGuard(idp, time.Second, quietLog())
	g.Start(context.Background())
	onChange := idp.fns[0]
	g.Close()

	onChange(&Session{UserID: "u1"})
	if got := g.State(); got != Unauthenticated {
		t.Fatalf("state after close = %v", got)
	}
}

func TestGuard_SignOutWaitsForProvider(t *testing.T) {
	called := false
	idp := &idpMock{
		CurrentFn: func(context.Context) (*Session, error) { return &Session{UserID: "u1"}, nil },
		SignOutFn: func(context.Context) error { called = true; return nil },
	}
	g := NewGuard(idp, time.Second, quietLog())
	defer g.Close()
	g.Start(context.Background())

	if err := g.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if !called {
		t.Fatalf("provider SignOut not called")
	}
	if g.State() != Authenticated {
		t.Fatalf("state must change only on provider notification")
	}
	idp.fire(nil)
	if g.State() != Unauthenticated {
		t.Fatalf("state = %v", g.State())
	}
}
