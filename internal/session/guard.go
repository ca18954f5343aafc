package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type State int

const (
	Initializing State = iota
	Authenticated
	Unauthenticated
	Unreachable
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	case Unreachable:
		return "unreachable"
	}
	return "unknown"
}

// Session é a identidade autenticada corrente.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityProvider é o serviço de identidade consultado pelo Guard.
type IdentityProvider interface {
	CurrentSession(ctx context.Context) (*Session, error)
	OnSessionChange(fn func(*Session)) (unsubscribe func())
	SignOut(ctx context.Context) error
}

const DefaultTimeout = 10 * time.Second

// RecoverySteps é o texto mostrado quando o serviço de identidade não responde.
var RecoverySteps = []string{
	"verifique sua conexão com a internet",
	"recarregue a página",
	"se o problema persistir, tente novamente em alguns minutos",
}

// Guard decide se a aplicação pode ser usada: consulta a sessão atual com
// timeout e acompanha as notificações do provedor. Unreachable só é deixado
// por Retry ou por uma notificação de sessão.
type Guard struct {
	idp     IdentityProvider
	timeout time.Duration
	log     *slog.Logger

	mu      sync.RWMutex
	state   State
	session *Session
	gen     uint64
	pending chan struct{} // fechado quando a verificação em curso perde a relevância
	closed  bool
	unsub   func()
	subs    map[int]func(State, *Session)
	nextSub int
}

func NewGuard(idp IdentityProvider, timeout time.Duration, log *slog.Logger) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Guard{
		idp:     idp,
		timeout: timeout,
		log:     log.With("cmp", "session.guard"),
		state:   Initializing,
		subs:    map[int]func(State, *Session){},
	}
}

// Start assina as notificações do provedor e faz a primeira verificação.
// Bloqueia até a verificação resolver (sessão, sem sessão ou timeout).
func (g *Guard) Start(ctx context.Context) State {
	g.mu.RLock()
	need := g.unsub == nil && !g.closed
	g.mu.RUnlock()
	if need {
		unsub := g.idp.OnSessionChange(g.onSessionChange)
		g.mu.Lock()
		g.unsub = unsub
		g.mu.Unlock()
	}
	return g.check(ctx)
}

// Retry é a ação explícita "tentar novamente"; não existe retry automático.
func (g *Guard) Retry(ctx context.Context) State {
	return g.check(ctx)
}

type lookup struct {
	sess *Session
	err  error
}

func (g *Guard) check(ctx context.Context) State {
	g.mu.Lock()
	if g.closed {
		st := g.state
		g.mu.Unlock()
		return st
	}
	g.gen++
	gen := g.gen
	if g.pending != nil {
		close(g.pending)
	}
	pending := make(chan struct{})
	g.pending = pending
	changed := g.setLocked(Initializing, nil)
	g.mu.Unlock()
	g.notify(changed)

	done := make(chan lookup, 1)
	go func() {
		sess, err := g.idp.CurrentSession(context.WithoutCancel(ctx))
		done <- lookup{sess, err}
	}()

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		switch {
		case r.err != nil:
			g.log.Warn("session_lookup_failed", "err", r.err)
			g.resolve(gen, Unreachable, nil)
		case r.sess != nil:
			g.resolve(gen, Authenticated, r.sess)
		default:
			g.resolve(gen, Unauthenticated, nil)
		}
	case <-timer.C:
		g.log.Warn("session_lookup_timeout", "timeout", g.timeout.String())
		g.resolve(gen, Unreachable, nil)
	case <-pending:
	case <-ctx.Done():
		g.resolve(gen, Unreachable, nil)
	}
	return g.State()
}

func (g *Guard) resolve(gen uint64, st State, sess *Session) {
	g.mu.Lock()
	if g.closed || g.gen != gen {
		g.mu.Unlock()
		return
	}
	g.pending = nil
	changed := g.setLocked(st, sess)
	g.mu.Unlock()
	g.notify(changed)
}

// onSessionChange vale em qualquer estado e invalida a verificação pendente.
func (g *Guard) onSessionChange(sess *Session) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.gen++
	if g.pending != nil {
		close(g.pending)
		g.pending = nil
	}
	st := Unauthenticated
	if sess != nil {
		st = Authenticated
	}
	changed := g.setLocked(st, sess)
	g.mu.Unlock()
	g.notify(changed)
}

type transition struct {
	ok    bool
	state State
	sess  *Session
	subs  []func(State, *Session)
}

func (g *Guard) setLocked(st State, sess *Session) transition {
	prev := g.state
	prevUser := ""
	if g.session != nil {
		prevUser = g.session.UserID
	}
	g.state = st
	g.session = sess
	user := ""
	if sess != nil {
		user = sess.UserID
	}
	if prev == st && prevUser == user {
		return transition{}
	}
	g.log.Info("session_state", "from", prev.String(), "to", st.String())
	subs := make([]func(State, *Session), 0, len(g.subs))
	for i := 0; i < g.nextSub; i++ {
		if fn, ok := g.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return transition{ok: true, state: st, sess: sess, subs: subs}
}

func (g *Guard) notify(t transition) {
	if !t.ok {
		return
	}
	for _, fn := range t.subs {
		fn(t.state, t.sess)
	}
}

// SignOut pede ao provedor para invalidar a sessão; o estado muda quando o
// provedor notificar.
func (g *Guard) SignOut(ctx context.Context) error {
	return g.idp.SignOut(ctx)
}

// Subscribe registra fn para cada transição de estado.
func (g *Guard) Subscribe(fn func(State, *Session)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

func (g *Guard) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Guard) Session() *Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return nil
	}
	s := *g.session
	return &s
}

func (g *Guard) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.gen++
	if g.pending != nil {
		close(g.pending)
		g.pending = nil
	}
	unsub := g.unsub
	g.unsub = nil
	g.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
