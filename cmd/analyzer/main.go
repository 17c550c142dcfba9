package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/qepting91/linkedin-analyzer/internal/analyze"
	"github.com/qepting91/linkedin-analyzer/internal/dashboard"
	"github.com/qepting91/linkedin-analyzer/internal/domain"
	"github.com/qepting91/linkedin-analyzer/internal/generate"
	"github.com/qepting91/linkedin-analyzer/internal/harvest"
	"github.com/qepting91/linkedin-analyzer/internal/ingest"
	"github.com/qepting91/linkedin-analyzer/internal/session"
	"github.com/qepting91/linkedin-analyzer/internal/storage"
	"github.com/qepting91/linkedin-analyzer/internal/styleprofile"
)

const (
	dataFile      = "data/posts.json"
	targetsFile   = "input/profiles.csv"
	stopwordsFile = "input/stopwords.csv"
	topPostCount  = 5
)

func main() {
	// 1. Setup
	godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	creds := domain.Credentials{
		Email:    os.Getenv("LINKEDIN_EMAIL"),
		Password: os.Getenv("LINKEDIN_PASSWORD"),
	}
	if creds.Email == "" || creds.Password == "" {
		logger.Error("LINKEDIN_EMAIL and LINKEDIN_PASSWORD are required")
		os.Exit(1)
	}
	headless := envBool("HEADLESS", true)
	debug := envBool("DEBUG", false)

	os.MkdirAll("data", 0o755)

	// 2. Run Dashboard
	go func() {
		logger.Info("Starting Dashboard", "port", port)
		if err := dashboard.StartServer(dataFile, port); err != nil {
			logger.Error("Dashboard failed", "err", err)
		}
	}()

	// 3. Load Inputs
	targets, err := ingest.LoadTargets(targetsFile)
	if err != nil || len(targets) == 0 {
		// Single-profile fallback from env.
		profile := os.Getenv("PROFILE")
		if profile == "" {
			logger.Error("no targets: provide input/profiles.csv or PROFILE env")
			os.Exit(1)
		}
		targets = []domain.Target{{ProfileID: profile, MaxPosts: envInt("MAX_POSTS", 25)}}
	}
	extraStopwords, _ := ingest.LoadStopwords(stopwordsFile)
	engine := analyze.NewEngine(analyze.WithStopwords(extraStopwords))

	generator, err := generate.NewGenerator()
	if err != nil {
		logger.Error("Failed to initialize generator", "error", err)
		os.Exit(1)
	}

	// 4. Writer service owns the data file
	resultQueue := make(chan domain.Post, 100)
	var writerWg sync.WaitGroup
	writer := &storage.WriterService{FilePath: dataFile}
	writerWg.Add(1)
	go writer.Start(&writerWg, resultQueue)

	// 5. Graceful Shutdown
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// 6. Scrape cycle: one browser session per profile, strictly
	// sequential. Concurrent profiles would each need their own
	// session+harvester pair; we favor a low footprint here.
	logger.Info("Starting scrape cycle", "targets", len(targets))
	for i, t := range targets {
		if ctx.Err() != nil {
			break
		}
		if err := scrapeOne(ctx, t, creds, headless, debug, engine, generator, resultQueue, logger); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			logger.Error("Scrape failed", "profile", t.ProfileID, "err", err)
		}

		// Pause between profiles to stay under the radar.
		if i < len(targets)-1 {
			delay := 10*time.Second + time.Duration(rand.Intn(5000))*time.Millisecond
			logger.Info("Waiting before next profile", "delay", delay.String())
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}

	close(resultQueue)
	writerWg.Wait()
	logger.Info("Scrape complete. Data saved.")

	// Keep alive for dashboard until interrupted.
	<-ctx.Done()
}

func scrapeOne(
	ctx context.Context,
	target domain.Target,
	creds domain.Credentials,
	headless, debug bool,
	engine *analyze.Engine,
	generator generate.Generator,
	resultQueue chan<- domain.Post,
	logger *slog.Logger,
) error {
	cfg := domain.ScrapeConfig{
		ProfileID: target.ProfileID,
		MaxPosts:  target.MaxPosts,
		Headless:  headless,
		Debug:     debug,
	}

	sess, err := session.DefaultRetryPolicy.Open(ctx, cfg, creds, logger)
	if err != nil {
		var authErr *session.AuthError
		if errors.As(err, &authErr) {
			logger.Error(authErr.Message(), "profile", cfg.ProfileID, "kind", authErr.Kind.String())
		}
		return err
	}
	defer sess.Close()

	harvester := harvest.New(sess, harvest.WithLogger(logger))
	result, err := harvester.Harvest(ctx, cfg)
	if err != nil {
		return err
	}
	if result.Truncated {
		logger.Warn("Partial results", "profile", cfg.ProfileID, "collected", len(result.Posts))
	} else {
		logger.Info("Scraped profile", "profile", cfg.ProfileID, "posts", len(result.Posts))
	}

	snapshot := engine.Analyze(result)
	profile := styleprofile.Build(snapshot, result, topPostCount)

	for _, p := range result.Posts {
		resultQueue <- p
	}
	csvPath := fmt.Sprintf("data/posts_%s.csv", sess.ID())
	if err := storage.ExportCSVFile(csvPath, result.Posts); err != nil {
		logger.Error("CSV export failed", "path", csvPath, "err", err)
	}

	logger.Info("Style profile built",
		"profile", cfg.ProfileID,
		"dominant_tone", string(profile.DominantTone),
		"preferred_cta", string(profile.PreferredCTAStyle),
		"best_hour", profile.BestHour,
		"correlation", snapshot.LengthEngagementCorrelation)

	if envBool("GENERATE_SAMPLES", false) && len(result.Posts) > 0 {
		drafts, err := generator.Generate(ctx, generate.Request{Profile: profile})
		if err != nil {
			logger.Error("Generation failed", "profile", cfg.ProfileID, "err", err)
		} else {
			for i, d := range drafts {
				logger.Info("Draft", "profile", cfg.ProfileID, "n", i+1, "text", d)
			}
		}
	}
	return nil
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
