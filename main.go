package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"golddigger/classify"
	"golddigger/config"
	"golddigger/extract"
	"golddigger/httputil"
	"golddigger/llm"
	"golddigger/logging"
	"golddigger/pipeline"
	"golddigger/pricing"
	"golddigger/scheduler"
	"golddigger/scorer"
	"golddigger/storage"
)

var (
	runNow = flag.Bool("run", false, "Run the enrichment pipeline once and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("golddigger.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting golddigger...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	clients := httputil.NewClients()
	ctx := context.Background()

	// Postgres holds the listings being enriched
	pgStore, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()
	log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.DatabaseURL))

	// SQLite holds operational run history
	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	retryDelay := time.Duration(cfg.Pipeline.RetryDelayMS) * time.Millisecond

	var zeroShot classify.Classifier
	if cfg.HuggingFace.APIKey != "" {
		zeroShot = classify.NewZeroShotClassifier(cfg.HuggingFace.APIKey,
			classify.WithModel(cfg.HuggingFace.Model),
			classify.WithHTTPClient(clients.Inference))
		log.Printf("Classifier: zero-shot (%s)", cfg.HuggingFace.Model)
	} else {
		zeroShot = classify.NewKeywordClassifier()
		log.Println("Classifier: keyword heuristic (HF_API_KEY not set)")
	}
	classifier := classify.NewAdapter(zeroShot, cfg.Pipeline.Retries, retryDelay)

	cascade := extract.NewCascade(extract.NewProseRecognizer())

	var feed pricing.Feed
	if cfg.Pipeline.SpotPriceOverride > 0 {
		feed = &pricing.FixedFeed{Price: decimal.NewFromFloat(cfg.Pipeline.SpotPriceOverride)}
		log.Printf("Price feed: fixed at $%.2f/g", cfg.Pipeline.SpotPriceOverride)
	} else {
		feed = pricing.NewSwissquoteFeed(cfg.Pipeline.Retries, retryDelay,
			pricing.WithClient(clients.Feed))
	}

	counter, err := scorer.NewTiktokenCounter(cfg.Pipeline.Model)
	if err != nil {
		log.Fatalf("Failed to load tokenizer for %s: %v", cfg.Pipeline.Model, err)
	}
	packer := scorer.NewPacker(counter, cfg.Pipeline.MaxContextTokens, cfg.Pipeline.ResponseReserveTokens)

	var llmOpts []llm.Option
	if cfg.OpenAI.BaseURL != "" {
		llmOpts = append(llmOpts, llm.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	llmOpts = append(llmOpts, llm.WithHTTPClient(clients.Inference))
	completer := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.Pipeline.Model, cfg.Pipeline.ResponseReserveTokens, llmOpts...)

	pipe := pipeline.New(pgStore, sqliteStore, classifier, cascade, feed, scorer.New(completer, packer))

	if *runNow {
		log.Println("Running enrichment pipeline...")
		report, err := pipe.Run(ctx)
		if err != nil {
			log.Fatalf("Pipeline run failed: %v", err)
		}
		log.Printf("Run %s complete", report.RunID)
		return
	}

	// Daemon mode
	sched := scheduler.New(cfg, pipe)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
	sched.Stop()
	log.Println("Goodbye!")
}

// maskConnectionString masks the password in a connection string for logging
func maskConnectionString(connStr string) string {
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	end := start
	for i := start; i < len(connStr); i++ {
		if connStr[i] == '@' {
			end = i
			break
		}
	}
	if end == start {
		return connStr
	}

	return connStr[:start] + "***" + connStr[end:]
}
