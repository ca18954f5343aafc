package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

type bootstrap struct {
	events    []models.Event
	companies []models.Company
	contacts  []models.Contact
	relations []models.Relation
}

// Load busca as quatro coleções em paralelo e disputa o resultado com o
// timeout. Em timeout ou erro o store fica desbloqueado e vazio; o fetch
// perdedor não é cancelado, só ignorado quando terminar.
func (s *Store) Load(ctx context.Context) error {
	return s.load(ctx, s.currentEpoch())
}

// load roda o bootstrap para a sessão ep; se Stop já encerrou essa sessão
// nada é buscado nem instalado.
func (s *Store) load(ctx context.Context, ep uint64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.epoch != ep {
		s.mu.Unlock()
		return nil
	}
	s.loadGen++
	gen := s.loadGen
	s.loading = true
	s.mu.Unlock()

	done := make(chan error, 1)
	var data bootstrap
	go func() {
		d, err := s.fetchAll(context.WithoutCancel(ctx))
		if err == nil {
			data = d
		}
		done <- err
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			s.log.Error("store_load_failed", "err", err)
			s.degrade(gen, ep, err)
			return err
		}
		s.install(gen, ep, data)
		s.log.Info("store_loaded",
			"events", len(data.events),
			"companies", len(data.companies),
			"contacts", len(data.contacts),
			"relations", len(data.relations),
		)
		return nil
	case <-timer.C:
		s.log.Warn("store_load_timeout", "timeout", s.timeout.String())
		s.degrade(gen, ep, ErrLoadTimeout)
		return ErrLoadTimeout
	case <-ctx.Done():
		s.degrade(gen, ep, ctx.Err())
		return ctx.Err()
	}
}

// Reload repete o bootstrap (ação "tentar novamente").
func (s *Store) Reload(ctx context.Context) error { return s.Load(ctx) }

func (s *Store) fetchAll(ctx context.Context) (bootstrap, error) {
	var d bootstrap
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.events, err = s.gw.Events.List(gctx)
		return wrapFetch("events", err)
	})
	g.Go(func() (err error) {
		d.companies, err = s.gw.Companies.List(gctx)
		return wrapFetch("companies", err)
	})
	g.Go(func() (err error) {
		d.contacts, err = s.gw.Contacts.List(gctx)
		return wrapFetch("contacts", err)
	})
	g.Go(func() (err error) {
		d.relations, err = s.gw.Relations.List(gctx)
		return wrapFetch("relations", err)
	})
	return d, g.Wait()
}

func wrapFetch(table string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	return nil
}

func (s *Store) install(gen, ep uint64, d bootstrap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.loadGen != gen || s.epoch != ep {
		return
	}
	s.events = nonNil(d.events)
	s.companies = nonNil(d.companies)
	s.contacts = nonNil(d.contacts)
	s.relations = nonNil(d.relations)
	s.loading = false
	s.loadErr = nil
	s.loadedAt = s.now()
}

func (s *Store) degrade(gen, ep uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.loadGen != gen || s.epoch != ep {
		return
	}
	s.events = []models.Event{}
	s.companies = []models.Company{}
	s.contacts = []models.Contact{}
	s.relations = []models.Relation{}
	s.loading = false
	s.loadErr = err
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
