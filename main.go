package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"yt-brief/captions"
	"yt-brief/config"
	"yt-brief/handlers"
	"yt-brief/logger"
	"yt-brief/media"
	"yt-brief/middleware"
	"yt-brief/repository/sqlite"
	"yt-brief/services/video"
	"yt-brief/speech"
	"yt-brief/storage"
	"yt-brief/summarize"
	"yt-brief/transcript"
	"yt-brief/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Refuse to start on a bad configuration. A missing API key must
		// never surface as a per-request failure.
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}

	db, err := sqlite.InitDB(cfg.Database.Path)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	repo, err := sqlite.NewRepository(db)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to prepare repository")
	}
	defer repo.Close()

	captionClient := captions.NewClient(captions.Config{
		BaseURL:  cfg.Captions.BaseURL,
		Language: cfg.Captions.Language,
		Timeout:  cfg.Captions.Timeout,
	})

	downloader, err := media.NewYTDLP(media.Config{
		BinPath: cfg.Media.BinPath,
		TempDir: cfg.TempDir,
		Timeout: cfg.Media.DownloadTimeout,
	}, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize audio downloader")
	}

	transcriber := speech.NewClient(speech.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.TranscribeModel,
		Timeout: cfg.OpenAI.RequestTimeout,
	})

	summarizer := summarize.NewClient(summarize.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.SummaryModel,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.RequestTimeout,
	})

	pipeline := transcript.NewPipeline(captionClient, downloader, transcriber, appLogger)

	var archiver storage.Archiver
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(storage.Config{
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			Bucket:    cfg.Storage.Bucket,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize storage client")
		}
		archiver = client
	}

	validator := validation.NewValidator()
	videoService := video.NewService(repo, pipeline, summarizer, validator, archiver, appLogger)

	videoHandler := handlers.NewVideoHandler(videoService, validator, appLogger, cfg.Version)

	mux := http.NewServeMux()
	videoHandler.Register(mux)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(cfg.StaticDir, "index.html"))
	})

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.Recovery(appLogger),
		middleware.Logging(appLogger),
		middleware.CORS(cfg.CORS),
		middleware.Timeout(cfg.RequestTimeout),
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
		chain = append(chain, limiter.Middleware)
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Chain(mux, chain...),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		appLogger.WithField("port", cfg.ServerPort).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	appLogger.Info("Shutting down the server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Fatal("Server shutdown failed")
	}
	appLogger.Info("Server stopped")
}
