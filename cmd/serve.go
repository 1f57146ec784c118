package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for digest requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		// In-flight digest runs must finish persisting before the store
		// closes. Deferred after env.Close so the wait runs first.
		var inflight sync.WaitGroup
		defer inflight.Wait()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/runs", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Keywords []string `json:"keywords"`
				Topic    string   `json:"topic"`
				Style    string   `json:"style"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if len(body.Keywords) == 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "keywords are required"})
				return
			}

			// Run asynchronously; progress is visible through the runs API.
			runAsync(&inflight, func() {
				result, err := env.Pipeline.Run(ctx, body.Keywords, body.Topic, body.Style)
				if err != nil {
					zap.L().Error("api digest run failed",
						zap.Strings("keywords", body.Keywords),
						zap.Error(err),
					)
					return
				}
				zap.L().Info("api digest run finished",
					zap.String("run_id", result.RunID),
					zap.String("status", string(result.Status)),
				)
			})

			writeJSON(w, http.StatusAccepted, map[string]any{
				"status":   "accepted",
				"keywords": body.Keywords,
			})
		})

		r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
			runs, err := env.Store.ListRuns(req.Context(), store.RunFilter{
				Status:  model.RunStatus(req.URL.Query().Get("status")),
				Keyword: req.URL.Query().Get("keyword"),
			})
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
				return
			}
			if runs == nil {
				runs = []model.Run{}
			}
			writeJSON(w, http.StatusOK, runs)
		})

		r.Get("/api/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
			run, err := env.Store.GetRun(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
				return
			}
			writeJSON(w, http.StatusOK, run)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// runAsync launches fn on a goroutine tracked by wg, so shutdown can wait
// for in-flight runs to finish persisting before resources close.
func runAsync(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn()
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
