package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Werneck0live/crm-patrocinio/internal/admin"
	"github.com/Werneck0live/crm-patrocinio/internal/audit"
	"github.com/Werneck0live/crm-patrocinio/internal/broker"
	"github.com/Werneck0live/crm-patrocinio/internal/config"
	"github.com/Werneck0live/crm-patrocinio/internal/db"
	"github.com/Werneck0live/crm-patrocinio/internal/handlers"
	"github.com/Werneck0live/crm-patrocinio/internal/repository"
	"github.com/Werneck0live/crm-patrocinio/internal/session"
	"github.com/Werneck0live/crm-patrocinio/internal/store"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

// cmd/api/main.go
func main() {
	cfg := config.Load() // .env

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	_ = config.InitLogger(cfg.LogLevel)
	slog.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed | token")
	user := flag.String("user", "dev", "token: user id")
	email := flag.String("email", "", "token: email")
	ttl := flag.Duration("ttl", 8*time.Hour, "token: validade")
	flag.Parse()
	if *task != "" {
		switch *task {
		case "seed":
			if err := runSeed(cfg); err != nil {
				slog.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			slog.Info("seed_done")
			return // encerra o processo sem subir HTTP
		case "token":
			if cfg.JWTSecret == "" {
				slog.Error("token_issue_failed", "err", "JWT_SECRET is required")
				os.Exit(1)
			}
			tok, err := session.NewTokenProvider(cfg.JWTSecret).Issue(*user, *email, *ttl)
			if err != nil {
				slog.Error("token_issue_failed", "err", err)
				os.Exit(1)
			}
			fmt.Println(tok)
			return
		default:
			slog.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is required")
	}

	// conecta Mongo
	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	// publisher + feed (Rabbit)
	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitExchange)
	if err != nil {
		log.Fatalf("rabbitmq connect error: %v", err)
	}
	defer pub.Close()

	feed, err := broker.NewFeed(cfg.RabbitURI, cfg.RabbitExchange, cfg.FeedPrefetch, slog.Default())
	if err != nil {
		log.Fatalf("rabbitmq feed error: %v", err)
	}
	defer func() { _ = feed.Close() }()

	tables, err := openTables(client.Database(cfg.MongoDB), pub)
	if err != nil {
		log.Fatalf("mongo index error: %v", err)
	}

	st := store.New(gatewayOf(tables, feed),
		store.WithLoadTimeout(cfg.LoadTimeout),
		store.WithLogger(slog.Default()),
	)
	defer st.Close()

	idp := session.NewTokenProvider(cfg.JWTSecret)
	guard := session.NewGuard(idp, cfg.SessionTimeout, slog.Default())
	defer guard.Close()

	ctx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	unsub := guard.Subscribe(followSession(ctx, st))
	defer unsub()
	slog.Info("session_initial_state", "state", guard.Start(ctx).String())

	reader := audit.NewReader(tables.Audit, cfg.AuditLimit, audit.NewFormatter(cfg.Locale))
	h := handlers.NewHandler(st, guard, idp, reader, slog.Default())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		slog.Error("graceful shutdown error", "err", err)
	}
}

func openTables(database *mongo.Database, pub repository.Publisher) (*repository.Tables, error) {
	tables := repository.NewTables(database, pub, slog.Default())
	ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return tables, tables.EnsureIndexes(ictx)
}

func gatewayOf(t *repository.Tables, feed store.Feed) store.Gateway {
	return store.Gateway{
		Events:    t.Events,
		Companies: t.Companies,
		Contacts:  t.Contacts,
		Relations: t.Relations,
		Feed:      feed,
	}
}

// followSession liga o ciclo de vida do store à sessão: sign-in carrega e
// assina o feed, sign-out (ou troca de usuário) descarta tudo.
func followSession(ctx context.Context, st *store.Store) func(session.State, *session.Session) {
	var mu sync.Mutex
	current := ""
	return func(state session.State, sess *session.Session) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case state == session.Authenticated && sess != nil:
			if current == sess.UserID {
				return
			}
			if current != "" {
				st.Stop()
			}
			current = sess.UserID
			go func() {
				if err := st.Start(ctx); err != nil {
					slog.Warn("store_start_failed", "err", err)
				}
			}()
		case state == session.Unauthenticated:
			if current != "" {
				st.Stop()
				current = ""
			}
		}
	}
}

// runSeed grava o dataset de demonstração pelo store, com auditoria e feed.
func runSeed(cfg *config.Config) error {
	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitExchange)
	if err != nil {
		return err
	}
	defer pub.Close()

	tables, err := openTables(client.Database(cfg.MongoDB), pub)
	if err != nil {
		return err
	}

	st := store.New(gatewayOf(tables, nil), store.WithLoadTimeout(cfg.LoadTimeout), store.WithLogger(slog.Default()))
	defer st.Close()

	ctx := utils.WithActor(context.Background(), "seed")
	if err := st.Load(ctx); err != nil {
		return err
	}
	return admin.SeedDemo(ctx, st, slog.Default())
}
