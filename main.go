package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"reelbase/api"
	"reelbase/config"
	"reelbase/handlers"
	"reelbase/internal/database"
	"reelbase/internal/importer"
	"reelbase/services/catalog"
	"reelbase/services/tmdb"
	"reelbase/utils"
)

func main() {
	importMode := flag.Bool("import", false, "run the bulk importer instead of the server")
	startPage := flag.Int("start-page", 1, "first TMDB popular page to import")
	endPage := flag.Int("end-page", 5, "last TMDB popular page to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[main] database: %v", err)
	}
	defer db.Close()

	repo := database.NewMovieRepository(db.Connection())
	provider := tmdb.NewClient(tmdb.Config{
		APIKey:   cfg.TMDBAPIKey,
		BaseURL:  cfg.TMDBBaseURL,
		Language: cfg.Language,
	}, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *importMode {
		if err := importer.New(provider, repo).Run(ctx, *startPage, *endPage); err != nil {
			log.Fatalf("[main] import: %v", err)
		}
		return
	}

	svc := catalog.NewService(repo, provider, catalog.NewShaper(cfg.PosterBaseURL))

	router := utils.NewRouter()
	router.Use(api.RequestLogMiddleware())
	router.Use(api.RateLimitMiddleware(api.NewIPRateLimiter(rate.Limit(20), 40)))
	handlers.NewMovieHandler(svc).Register(router)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[main] shutdown: %v", err)
		}
	}()

	log.Printf("[main] listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[main] server: %v", err)
	}
}
