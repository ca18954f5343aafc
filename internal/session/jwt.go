package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Claims do token de sessão.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenProvider é um IdentityProvider sobre JWT HS256: SignIn valida o token e
// vira a sessão corrente até expirar ou até SignOut.
type TokenProvider struct {
	secret    []byte
	now       func() time.Time
	afterFunc func(d time.Duration, f func()) (stop func() bool)

	mu      sync.RWMutex
	current *Session
	expiry  func() bool // cancela o timer de expiração da sessão corrente
	subs    map[int]func(*Session)
	nextSub int
}

func NewTokenProvider(secret string) *TokenProvider {
	return &TokenProvider{
		secret: []byte(secret),
		now:    time.Now,
		afterFunc: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
		subs: map[int]func(*Session){},
	}
}

// Issue gera um token HS256 para o usuário (seed, CLI e testes).
func (p *TokenProvider) Issue(userID, email string, ttl time.Duration) (string, error) {
	now := p.now().UTC()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Parse verifica assinatura e expiração.
func (p *TokenProvider) Parse(token string) (*Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	var claims Claims
	tok, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	s := &Session{UserID: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func (p *TokenProvider) SignIn(ctx context.Context, token string) (*Session, error) {
	s, err := p.Parse(token)
	if err != nil {
		return nil, err
	}
	p.set(s)
	return s, nil
}

func (p *TokenProvider) SignOut(ctx context.Context) error {
	p.set(nil)
	return nil
}

func (p *TokenProvider) CurrentSession(ctx context.Context) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil, nil
	}
	if !p.current.ExpiresAt.IsZero() && !p.now().Before(p.current.ExpiresAt) {
		return nil, nil
	}
	s := *p.current
	return &s, nil
}

func (p *TokenProvider) OnSessionChange(fn func(*Session)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *TokenProvider) set(s *Session) {
	p.replace(s, func(*Session) bool { return true })
}

// expire encerra s quando o token vence; uma sessão mais nova não é afetada.
func (p *TokenProvider) expire(s *Session) {
	p.replace(nil, func(cur *Session) bool { return cur == s })
}

func (p *TokenProvider) replace(s *Session, when func(cur *Session) bool) {
	p.mu.Lock()
	if !when(p.current) {
		p.mu.Unlock()
		return
	}
	p.current = s
	if p.expiry != nil {
		p.expiry()
		p.expiry = nil
	}
	if s != nil && !s.ExpiresAt.IsZero() {
		p.expiry = p.afterFunc(s.ExpiresAt.Sub(p.now()), func() { p.expire(s) })
	}
	subs := make([]func(*Session), 0, len(p.subs))
	for i := 0; i < p.nextSub; i++ {
		if fn, ok := p.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	p.mu.Unlock()
	for _, fn := range subs {
		if s == nil {
			fn(nil)
			continue
		}
		cp := *s
		fn(&cp)
	}
}
