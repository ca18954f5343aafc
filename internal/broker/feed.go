package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

// Feed consome o exchange de alterações por uma fila exclusiva e entrega cada
// ChangeEvent aos callbacks inscritos na tabela correspondente.
type Feed struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *slog.Logger

	mu     sync.RWMutex
	subs   map[string]map[uint64]func(models.ChangeEvent)
	nextID uint64
	done   chan struct{}
}

func NewFeed(uri, exchange string, prefetch int, log *slog.Logger) (*Feed, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	deliveries, err := bindConsumer(ch, exchange, prefetch)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	f := &Feed{
		conn: conn,
		ch:   ch,
		log:  log.With("cmp", "broker.feed"),
		subs: make(map[string]map[uint64]func(models.ChangeEvent)),
		done: make(chan struct{}),
	}
	go f.run(deliveries)
	f.log.Info("feed_consumer_started", "exchange", exchange)
	return f, nil
}

func bindConsumer(ch *amqp.Channel, exchange string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := declareExchange(ch, exchange); err != nil {
		return nil, err
	}
	// fila anônima, exclusiva e auto-delete: some junto com a conexão
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, err
	}
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return nil, err
	}
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			return nil, err
		}
	}
	return ch.Consume(q.Name, "", true, true, false, false, nil)
}

func (f *Feed) run(deliveries <-chan amqp.Delivery) {
	defer close(f.done)
	for d := range deliveries {
		f.Dispatch(d.Body)
	}
	f.log.Warn("deliveries_channel_closed")
}

// Dispatch decodifica uma mensagem do feed e entrega aos inscritos da tabela.
func (f *Feed) Dispatch(body []byte) {
	var ev models.ChangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		f.log.Warn("feed_decode_error", "err", err)
		return
	}
	f.mu.RLock()
	fns := make([]func(models.ChangeEvent), 0, len(f.subs[ev.Table]))
	for _, fn := range f.subs[ev.Table] {
		fns = append(fns, fn)
	}
	f.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribe registra fn para a tabela; a função devolvida cancela a inscrição.
func (f *Feed) Subscribe(_ context.Context, table string, fn func(models.ChangeEvent)) (func(), error) {
	if fn == nil {
		return nil, errors.New("nil callback")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	if f.subs[table] == nil {
		f.subs[table] = make(map[uint64]func(models.ChangeEvent))
	}
	f.subs[table][id] = fn
	return func() {
		f.mu.Lock()
		delete(f.subs[table], id)
		f.mu.Unlock()
	}, nil
}

func (f *Feed) Close() error {
	var errCh, errConn error
	if f.ch != nil {
		errCh = f.ch.Close()
	}
	if f.conn != nil {
		errConn = f.conn.Close()
	}
	<-f.done
	return errors.Join(errCh, errConn)
}
