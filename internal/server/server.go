// Package server provides the HTTP API for the devlink assistant.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mariana/devlink-assistant/internal/config"
	"github.com/mariana/devlink-assistant/internal/db"
	"github.com/mariana/devlink-assistant/internal/draft"
	"github.com/mariana/devlink-assistant/internal/interview"
	"github.com/mariana/devlink-assistant/internal/kv"
	"github.com/mariana/devlink-assistant/internal/llm"
	"github.com/mariana/devlink-assistant/internal/notify"
	"github.com/mariana/devlink-assistant/internal/postings"
	"github.com/mariana/devlink-assistant/internal/server/middleware"
)

// Config holds server configuration.
type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	APIKey        string
	Model         string
	DraftDebounce time.Duration
	UseBrowser    bool
}

// Server wires the conversation engine, interview simulator and posting
// ingester behind one HTTP API.
type Server struct {
	httpServer *http.Server
	db         *db.DB
	store      kv.Store
	llmClient  llm.Client
	savers     *draft.Savers
	reminders  *notify.Scheduler
	log        zerolog.Logger
}

// New builds a server from configuration, connecting to PostgreSQL, the
// key-value store and the Gemini API.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var store kv.Store
	if cfg.RedisURL != "" {
		redisStore, err := kv.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store = redisStore
	} else {
		log.Warn().Msg("no redis URL configured, drafts are held in process memory")
		store = kv.NewMemory()
	}

	llmClient, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	userService := NewUserService(database, passwordConfig)
	jwtService := NewJWTService(jwtConfig)
	authHandler := NewAuthHandler(userService, jwtService)

	drafts := draft.NewStore(store)
	savers := draft.NewSavers(drafts, cfg.DraftDebounce, log)
	reminders := notify.NewScheduler(func(r notify.Reminder) {
		// Delivery is a log line until a push channel exists.
		log.Info().Str("user_id", r.UserID).Str("reminder_id", r.ID).Msg(r.Message)
	}, log)

	conversationHandler := NewConversationHandler(drafts, savers, database, reminders, log)
	interviewHandler := NewInterviewHandler(interview.NewSimulator(llmClient), store, database, log)
	postingHandler := NewPostingHandler(postings.NewFetcher(0, cfg.UseBrowser, log), database, log)

	s := &Server{
		db:        database,
		store:     store,
		llmClient: llmClient,
		savers:    savers,
		reminders: reminders,
		log:       log,
	}

	authed := middleware.Auth(jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /auth/signin", authHandler.SignIn)
	mux.Handle("GET /auth/me", authed(http.HandlerFunc(authHandler.Me)))

	mux.Handle("POST /conversation", authed(http.HandlerFunc(conversationHandler.Start)))
	mux.Handle("GET /conversation", authed(http.HandlerFunc(conversationHandler.Status)))
	mux.Handle("DELETE /conversation", authed(http.HandlerFunc(conversationHandler.Discard)))
	mux.Handle("POST /conversation/message", authed(http.HandlerFunc(conversationHandler.Message)))
	mux.Handle("GET /conversation/transcript", authed(http.HandlerFunc(conversationHandler.Transcript)))
	mux.Handle("GET /conversation/preview", authed(http.HandlerFunc(conversationHandler.Preview)))
	mux.Handle("POST /conversation/finalize", authed(http.HandlerFunc(conversationHandler.Finalize)))
	mux.Handle("GET /resume", authed(http.HandlerFunc(conversationHandler.Resume)))
	mux.Handle("DELETE /resume", authed(http.HandlerFunc(conversationHandler.DeleteResume)))

	mux.Handle("POST /interview", authed(http.HandlerFunc(interviewHandler.Start)))
	mux.Handle("GET /interview", authed(http.HandlerFunc(interviewHandler.Status)))
	mux.Handle("DELETE /interview", authed(http.HandlerFunc(interviewHandler.Discard)))
	mux.Handle("POST /interview/answer", authed(http.HandlerFunc(interviewHandler.Answer)))
	mux.Handle("GET /interview/history", authed(http.HandlerFunc(interviewHandler.History)))

	mux.Handle("POST /postings", authed(http.HandlerFunc(postingHandler.Ingest)))
	mux.Handle("GET /postings", authed(http.HandlerFunc(postingHandler.List)))
	mux.Handle("GET /postings/by-url", authed(http.HandlerFunc(postingHandler.GetByURL)))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start listens for requests until an interrupt, then shuts down gracefully,
// flushing pending draft saves before closing connections.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.savers.Close()
	s.reminders.Close()
	_ = s.llmClient.Close()
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.db.Close()
	s.log.Info().Msg("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
