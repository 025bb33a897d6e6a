// genrun runs a single generation pipeline against a live backend. It is an
// operator smoke tool: point it at a product photo and a model, and it prints
// the run outcome and optionally saves the generated image locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"adgen/internal/domain"
	"adgen/internal/infra"
	"adgen/internal/pipeline"
	"adgen/internal/providers/catalog"
	"adgen/internal/providers/files"
	"adgen/internal/providers/generate"
	"adgen/internal/providers/ledger"
	"adgen/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		imagePath   = flag.String("image", "", "path to the product photo (required)")
		modelID     = flag.String("model-id", "", "model identifier (required)")
		seedValue   = flag.String("seed", "", "model seed value")
		modelFileID = flag.Int64("model-file-id", 0, "explicit model file id")
		price       = flag.Int("price", 0, "model price in points")
		prompt      = flag.String("prompt", "", "optional prompt suffix")
		userID      = flag.String("user", "genrun", "user id for the run")
		outDir      = flag.String("out", "", "directory to save the generated image into")
	)
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if *imagePath == "" || *modelID == "" {
		flag.Usage()
		os.Exit(2)
	}
	data, err := os.ReadFile(*imagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("genrun: read image")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.HTTPWriteTimeout}
	baseURL, apiKey := cfg.BackendBaseURL, cfg.BackendAPIKey

	generateClient := generate.NewClient(generate.Options{BaseURL: baseURL, APIKey: apiKey, HTTPClient: httpClient, Logger: &logger})
	orchestrator := pipeline.NewOrchestrator(
		ledger.NewClient(ledger.Options{BaseURL: baseURL, APIKey: apiKey, HTTPClient: httpClient, Logger: &logger}),
		files.NewClient(files.Options{BaseURL: baseURL, APIKey: apiKey, HTTPClient: httpClient, Logger: &logger}),
		generateClient,
		pipeline.NewPoller(generateClient, cfg.PollInterval, cfg.PollMaxAttempts),
		pipeline.NewModelResolver(catalog.NewClient(catalog.Options{BaseURL: baseURL, APIKey: apiKey, HTTPClient: httpClient, Logger: &logger})),
		nil,
		logger,
	)

	result, err := orchestrator.Run(ctx, pipeline.RunRequest{
		UserID:    *userID,
		ImageName: "product",
		ImageData: data,
		Model: domain.ModelAsset{
			ID:        *modelID,
			SeedValue: *seedValue,
			FileID:    *modelFileID,
			Price:     *price,
		},
		PromptSuffix: *prompt,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("genrun: pipeline failed")
	}

	logger.Info().
		Str("run_id", result.RunID).
		Str("url", result.GeneratedImageURL).
		Int64("result_file_id", result.ResultFileID).
		Int("points_spent", result.PointsSpent).
		Msg("genrun: pipeline completed")

	if *outDir != "" {
		if err := saveResult(ctx, httpClient, result, *outDir); err != nil {
			logger.Error().Err(err).Msg("genrun: save result failed")
		}
	}
}

func saveResult(ctx context.Context, client *http.Client, result *pipeline.Result, outDir string) error {
	store, err := storage.NewFileStore(outDir)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.GeneratedImageURL, nil)
	if err != nil {
		return fmt.Errorf("genrun: build download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("genrun: download result: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("genrun: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("genrun: read result: %w", err)
	}
	key, err := store.Write(ctx, fmt.Sprintf("runs/%s/result.png", result.RunID), data)
	if err != nil {
		return err
	}
	fmt.Println("saved:", key)
	return nil
}
