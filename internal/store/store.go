package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

// Table é o contrato do gateway remoto para uma tabela.
type Table[T any] interface {
	List(ctx context.Context) ([]T, error)
	ListBy(ctx context.Context, field, value string) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, rows ...T) ([]T, error)
	Update(ctx context.Context, id string, fields models.Fields) (T, error)
	Delete(ctx context.Context, id string) (T, error)
}

// Feed entrega INSERT/UPDATE/DELETE de uma tabela; a função devolvida cancela a inscrição.
type Feed interface {
	Subscribe(ctx context.Context, table string, fn func(models.ChangeEvent)) (func(), error)
}

type Gateway struct {
	Events    Table[models.Event]
	Companies Table[models.Company]
	Contacts  Table[models.Contact]
	Relations Table[models.Relation]
	Feed      Feed // opcional: sem feed o store só reflete as próprias escritas
}

const DefaultLoadTimeout = 15 * time.Second

// Store é a cópia em memória das quatro coleções de uma sessão.
//
// A coleção plana de contatos é a fonte da verdade; Company.Contacts é
// recalculado a cada leitura (joinContacts), então bootstrap, feed e refresh
// nunca divergem.
type Store struct {
	gw       Gateway
	log      *slog.Logger
	timeout  time.Duration
	now      func() time.Time
	validate *validator.Validate

	mu       sync.RWMutex
	loadGen  uint64 // corrida do bootstrap
	epoch    uint64 // ciclo de vida da sessão (Stop/Close incrementam)
	closed   bool
	loading  bool
	loadErr  error
	loadedAt time.Time
	unsubs   []func()

	events    []models.Event
	companies []models.Company
	contacts  []models.Contact
	relations []models.Relation
}

type Option func(*Store)

func WithLoadTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(gw Gateway, opts ...Option) *Store {
	s := &Store{
		gw:       gw,
		log:      slog.Default(),
		timeout:  DefaultLoadTimeout,
		now:      time.Now,
		validate: newValidator(),
		loading:  true,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("cmp", "store")
	return s
}

// Start faz o bootstrap e assina o change feed das quatro tabelas. Um erro de
// bootstrap não impede a assinatura: o store fica vazio, desbloqueado e
// recuperável via Load.
func (s *Store) Start(ctx context.Context) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	ep := s.epoch
	s.mu.RUnlock()

	loadErr := s.load(ctx, ep)
	if err := s.subscribe(ctx, ep); err != nil {
		return err
	}
	return loadErr
}

func (s *Store) subscribe(ctx context.Context, ep uint64) error {
	if s.gw.Feed == nil {
		return nil
	}
	s.mu.RLock()
	already := len(s.unsubs) > 0
	s.mu.RUnlock()
	if already {
		return nil
	}

	unsubs := make([]func(), 0, len(models.Tables))
	for _, table := range models.Tables {
		unsub, err := s.gw.Feed.Subscribe(ctx, table, func(ev models.ChangeEvent) {
			s.applyChange(ep, ev)
		})
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			return err
		}
		unsubs = append(unsubs, unsub)
	}

	s.mu.Lock()
	if s.closed || s.epoch != ep {
		s.mu.Unlock()
		for _, u := range unsubs {
			u()
		}
		return nil
	}
	s.unsubs = append(s.unsubs, unsubs...)
	s.mu.Unlock()
	s.log.Info("store_feed_subscribed", "tables", len(unsubs))
	return nil
}

// Stop encerra a sessão (sign-out): cancela o feed e descarta os dados.
// Resultados atrasados de loads/mutações da sessão anterior são ignorados.
func (s *Store) Stop() {
	s.mu.Lock()
	s.epoch++
	s.loadGen++
	unsubs := s.unsubs
	s.unsubs = nil
	s.loading = true
	s.loadErr = nil
	s.events, s.companies, s.contacts, s.relations = nil, nil, nil, nil
	s.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

func (s *Store) Close() {
	s.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

type Status struct {
	Loading  bool
	Err      error // último erro de bootstrap (ErrLoadTimeout, falha de fetch)
	LoadedAt time.Time
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{Loading: s.loading, Err: s.loadErr, LoadedAt: s.loadedAt}
}

// Snapshot é uma cópia independente do estado atual, com os contatos já
// projetados em cada empresa.
type Snapshot struct {
	Events    []models.Event    `json:"events"`
	Companies []models.Company  `json:"companies"`
	Contacts  []models.Contact  `json:"contacts"`
	Relations []models.Relation `json:"relations"`
	Loading   bool              `json:"loading"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Events:    slices.Clone(s.events),
		Companies: joinContacts(s.companies, s.contacts),
		Contacts:  slices.Clone(s.contacts),
		Relations: slices.Clone(s.relations),
		Loading:   s.loading,
	}
}

func (s *Store) Event(id string) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.events, id)
	if i < 0 {
		return models.Event{}, false
	}
	return s.events[i], true
}

func (s *Store) Company(id string) (models.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.companies, id)
	if i < 0 {
		return models.Company{}, false
	}
	return joinContacts(s.companies[i:i+1], s.contacts)[0], true
}

func (s *Store) Relation(id string) (models.Relation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.relations, id)
	if i < 0 {
		return models.Relation{}, false
	}
	return s.relations[i], true
}

// joinContacts projeta contact.company_id == company.id mantendo a ordem de
// chegada dos contatos. Contatos órfãos simplesmente não aparecem.
func joinContacts(companies []models.Company, contacts []models.Contact) []models.Company {
	byCompany := make(map[string][]models.Contact, len(companies))
	for _, c := range contacts {
		byCompany[c.CompanyID] = append(byCompany[c.CompanyID], c)
	}
	out := make([]models.Company, len(companies))
	for i, c := range companies {
		c.Tags = slices.Clone(c.Tags)
		c.Contacts = byCompany[c.ID]
		if c.Contacts == nil {
			c.Contacts = []models.Contact{}
		}
		out[i] = c
	}
	return out
}

func (s *Store) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// commit aplica uma alteração local se a sessão que a originou ainda é a atual.
func (s *Store) commit(ep uint64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.epoch != ep {
		return
	}
	fn()
}

func indexOf[T models.Record](rows []T, id string) int {
	return slices.IndexFunc(rows, func(r T) bool { return r.RecordID() == id })
}

// upsert substitui pela identidade ou acrescenta; aplicar duas vezes é igual a uma.
func upsert[T models.Record](rows []T, row T) []T {
	if i := indexOf(rows, row.RecordID()); i >= 0 {
		rows[i] = row
		return rows
	}
	return append(rows, row)
}

func remove[T models.Record](rows []T, id string) []T {
	return slices.DeleteFunc(rows, func(r T) bool { return r.RecordID() == id })
}
