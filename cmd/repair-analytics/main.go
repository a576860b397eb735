package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/evenza/eventdesk-backend/internal/config"
	"github.com/evenza/eventdesk-backend/internal/database"
	"github.com/evenza/eventdesk-backend/internal/logger"
	"github.com/evenza/eventdesk-backend/internal/repository"
	"github.com/evenza/eventdesk-backend/internal/service"
)

func main() {
	var (
		fix      = flag.Bool("fix", false, "Recompute and persist aggregates for every form")
		validate = flag.Bool("validate", false, "Report stored aggregates that disagree with the response log")
	)
	flag.Parse()

	if *fix == *validate {
		fmt.Println("Usage: repair-analytics (-fix | -validate)")
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	formRepo := repository.NewFormRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	responseRepo := repository.NewResponseRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)
	analyticsService := service.NewAnalyticsService(formRepo, questionRepo, responseRepo, analyticsRepo, log)

	if *fix {
		repaired, err := analyticsService.RepairAll(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Repair failed")
		}
		fmt.Printf("Repair complete: %d form(s) corrected\n", repaired)
		return
	}

	discrepancies, err := analyticsService.Validate(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Validation failed")
	}
	if len(discrepancies) == 0 {
		fmt.Println("All stored aggregates match the response log")
		return
	}

	fmt.Printf("Found %d discrepancies:\n", len(discrepancies))
	for _, d := range discrepancies {
		fmt.Printf("  form %d: %s stored=%s computed=%s\n", d.FormID, d.Field, d.Stored, d.Computed)
	}
	os.Exit(1)
}
