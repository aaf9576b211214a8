package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/people-finder/internal/model"
)

const errBadRequest = "Missing company or designation"

var (
	servePort    int
	serveAgentic bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for designation lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port

		env, err := initFinder(ctx, cfg, "serve", serveAgentic)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveAgentic, "agentic", false, "use the single-call agentic resolver")
	rootCmd.AddCommand(serveCmd)
}

type searchRequest struct {
	Company     string `json:"company"`
	Designation string `json:"designation"`
}

type healthResponse struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
	Agentic       bool   `json:"agentic"`
}

// buildRouter wires the API routes onto a chi router.
func buildRouter(env *finderEnv, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:        "ok",
			LLMConfigured: env.LLMConfigured,
			Agentic:       env.Agentic,
		})
	})

	r.Post("/api/search", func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, model.NotFound("", errBadRequest, nil))
			return
		}

		company := strings.TrimSpace(req.Company)
		designation := strings.TrimSpace(req.Designation)
		if company == "" || designation == "" {
			writeJSON(w, http.StatusBadRequest, model.NotFound(designation, errBadRequest, nil))
			return
		}

		result := env.Resolver.Resolve(r.Context(), company, designation)

		status := http.StatusOK
		if !result.Found && result.Error != nil {
			status = http.StatusNotFound
		}

		zap.L().Info("search request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("company", company),
			zap.String("designation", designation),
			zap.Bool("found", result.Found),
			zap.Int("status", status),
		)
		writeJSON(w, status, result)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}
