package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/starwave/config"
	"github.com/user/starwave/internal/game"
	"github.com/user/starwave/internal/interfaces"
	"github.com/user/starwave/internal/oracle"
	"github.com/user/starwave/internal/types"
)

var dataPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the career simulation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		logger := setupLogger(cfg.Server.LogLevel)
		defer logger.Sync()

		manager, err := buildManager(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize career manager", zap.Error(err))
		}

		server := setupHTTPServer(cfg, manager, logger)

		go func() {
			logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server stopped", zap.Error(err))
			}
		}()

		waitForShutdown(logger)
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&dataPath, "data", "./assets/data", "Path to the catalog data directory")
	rootCmd.AddCommand(serveCmd)
}

func setupLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	logger, _ := cfg.Build()
	return logger
}

// buildManager wires the career manager with catalogs and the oracle backend.
func buildManager(cfg config.Config, logger *zap.Logger) (*game.CareerManager, error) {
	manager := game.NewCareerManager(cfg)
	manager.SetLogger(logger)

	loader := game.NewDataLoader(dataPath)

	labels, err := loader.LoadLabels()
	if err != nil {
		return nil, err
	}
	manager.LoadLabels(labels)
	logger.Info("Loaded labels", zap.Int("count", len(labels)))

	events, err := loader.LoadCareerEvents()
	if err != nil {
		return nil, err
	}
	manager.LoadCareerEvents(events)
	logger.Info("Loaded career events", zap.Int("count", len(events)))

	// Without an API key the oracle runs on deterministic fallbacks.
	if cfg.Oracle.APIKey != "" {
		client := oracle.NewClient(oracle.ClientConfig{
			CompletionsURL: cfg.Oracle.URL,
			APIKey:         cfg.Oracle.APIKey,
			Model:          cfg.Oracle.Model,
		})
		manager.SetOracle(client, time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second)
		logger.Info("Generative oracle enabled", zap.String("model", cfg.Oracle.Model))
	}

	return manager, nil
}

func setupHTTPServer(cfg config.Config, manager interfaces.CareerManager, logger *zap.Logger) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Route("/career", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Name      string `json:"name"`
				StageName string `json:"stage_name"`
				Genre     string `json:"genre"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			state, err := manager.NewCareer(r.Context(), req.Name, req.StageName, req.Genre)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, state)
		})

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			state, err := manager.Snapshot()
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, state)
		})

		r.Post("/advance", func(w http.ResponseWriter, r *http.Request) {
			result, err := manager.AdvanceWeek(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, result)
		})

		r.Get("/summary", func(w http.ResponseWriter, r *http.Request) {
			summary, err := manager.CareerSummary(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, map[string]string{"summary": summary})
		})
	})

	router.Route("/songs", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req game.DraftInput
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			song, err := manager.DraftSong(r.Context(), req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, song)
		})

		r.Post("/master", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Title     string    `json:"title"`
				TapScores []float64 `json:"tap_scores"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			song, err := manager.MasterSong(r.Context(), req.Title, req.TapScores)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, song)
		})

		r.Post("/{song_id}/release", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Platform string `json:"platform"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, err := manager.ReleaseSong(r.Context(), chi.URLParam(r, "song_id"), types.Platform(req.Platform))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, result)
		})

		r.Post("/{song_id}/video", func(w http.ResponseWriter, r *http.Request) {
			result, err := manager.ProduceMusicVideo(r.Context(), chi.URLParam(r, "song_id"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, result)
		})
	})

	router.Post("/posts", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Platform string `json:"platform"`
			Content  string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		post, err := manager.PublishPost(r.Context(), types.Platform(req.Platform), req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, post)
	})

	router.Post("/offers/{offer_id}/accept", func(w http.ResponseWriter, r *http.Request) {
		offer, err := manager.AcceptOffer(chi.URLParam(r, "offer_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, offer)
	})

	router.Get("/labels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, manager.Labels())
	})

	router.Post("/labels/{label_id}/sign", func(w http.ResponseWriter, r *http.Request) {
		label, err := manager.SignLabel(chi.URLParam(r, "label_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, label)
	})

	router.Post("/events/resolve/{option}", func(w http.ResponseWriter, r *http.Request) {
		option, err := strconv.Atoi(chi.URLParam(r, "option"))
		if err != nil {
			http.Error(w, "Invalid option", http.StatusBadRequest)
			return
		}

		outcome, err := manager.ResolveEvent(option)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, outcome)
	})

	router.Post("/interactions/resolve/{option}", func(w http.ResponseWriter, r *http.Request) {
		option, err := strconv.Atoi(chi.URLParam(r, "option"))
		if err != nil {
			http.Error(w, "Invalid option", http.StatusBadRequest)
			return
		}

		outcome, err := manager.ResolveInteraction(option)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, outcome)
	})

	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrNoCareer),
		errors.Is(err, game.ErrSongNotFound),
		errors.Is(err, game.ErrOfferNotFound),
		errors.Is(err, game.ErrLabelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrNotEnoughFame),
		errors.Is(err, game.ErrAlreadySigned),
		errors.Is(err, game.ErrAlreadyMusicVideo):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}

func waitForShutdown(logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	logger.Info("Shutting down")
}
