package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumematcher/internal/analysis"
	"github.com/muhammadolammi/resumematcher/internal/auth"
	"github.com/muhammadolammi/resumematcher/internal/chat"
	"github.com/muhammadolammi/resumematcher/internal/config"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/events"
	"github.com/muhammadolammi/resumematcher/internal/feedback"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/muhammadolammi/resumematcher/internal/pipeline"
	"github.com/muhammadolammi/resumematcher/internal/storage"
	"github.com/muhammadolammi/resumematcher/internal/web"
)

//go:embed sql/schema/*.sql
var schemaFiles embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := connect(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Error("startup failed", nil)
		os.Exit(1)
	}
	defer app.Close()

	handler, err := buildServer(ctx, app)
	if err != nil {
		appLog.WithError(err).Error("startup failed", nil)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLog.Info("server listening", map[string]interface{}{
			"port":          cfg.Server.Port,
			"ai_provider":   cfg.Gemini.Provider,
			"pipeline_mode": cfg.Gemini.PipelineMode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Error("server stopped", nil)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("graceful shutdown failed", nil)
	}
}

// connect opens Postgres, applies the schema, and dials Redis and, when
// configured, RabbitMQ.
func connect(ctx context.Context, cfg *config.Config, appLog logger.Logger) (*AppConfig, error) {
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("error opening db: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdle)
	app := &AppConfig{Config: cfg, Log: appLog, DB: db, Queries: database.New(db)}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		app.Close()
		return nil, fmt.Errorf("error connecting to db: %w", err)
	}
	schema, err := fs.Sub(schemaFiles, "sql/schema")
	if err != nil {
		app.Close()
		return nil, err
	}
	if err := database.RunMigrations(pingCtx, db, schema); err != nil {
		app.Close()
		return nil, err
	}

	app.Redis = redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := app.Redis.Ping(pingCtx).Err(); err != nil {
		app.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if cfg.RabbitMQ.URL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
		}
		app.RabbitConn = conn
	}
	return app, nil
}

func buildServer(ctx context.Context, app *AppConfig) (http.Handler, error) {
	cfg := app.Config

	var gen pipeline.Generator
	if cfg.Gemini.Provider == providerMock {
		app.Log.Warn("using mock model responses", nil)
		gen = pipeline.NewMockGenerator()
	} else {
		g, err := pipeline.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.AnalysisModel, cfg.Gemini.RequestTimeout)
		if err != nil {
			return nil, err
		}
		gen = g
	}
	matcher := pipeline.New(gen, cfg.Gemini.PipelineMode, app.Log)

	var publisher events.Publisher = events.NopPublisher{}
	if app.RabbitConn != nil {
		p, err := events.NewAMQPPublisher(app.RabbitConn, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, err
		}
		publisher = p
	}

	var uploader storage.Uploader
	if cfg.R2.Enabled() {
		u, err := storage.NewR2Uploader(ctx, cfg.R2.AccountID, cfg.R2.AccessKey, cfg.R2.SecretKey, cfg.R2.Bucket)
		if err != nil {
			return nil, err
		}
		uploader = u
	}

	var google *auth.GoogleProvider
	if cfg.Google.Enabled() {
		google = auth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	}

	chatAgent, err := newChatAgent(ctx, app)
	if err != nil {
		return nil, err
	}

	srv, err := web.NewServer(web.Deps{
		Analysis:       analysis.NewService(matcher, app.Queries, publisher, app.Log),
		Chat:           chat.NewService(chatAgent, app.Log),
		Auth:           auth.NewService(app.Queries, google, app.Log),
		Sessions:       auth.NewSessionStore(app.Redis, cfg.Redis.SessionTTL),
		Uploads:        storage.NewService(uploader, app.Queries, app.Log),
		Feedback:       feedback.NewService(app.Queries, app.Log),
		Log:            app.Log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SecureCookies:  cfg.Server.SecureCookies,
		Ready:          app.Ready,
	})
	if err != nil {
		return nil, err
	}
	return srv.Router(), nil
}
