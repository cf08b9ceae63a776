// Bulk problem importer.
//
// Reads a JSON dataset, upserts every problem and syncs seed ratings for
// rows without live votes. Meant for first deployment or large content drops;
// day-to-day edits go through the admin endpoint.
//
// Usage: go run scripts/import_problems.go -file problems.json

package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"mathquest_backend/internal/config"
	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/service"
	"mathquest_backend/pkg/database"
	"mathquest_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

type problemRecord struct {
	ID              string  `json:"id"`
	Topic           string  `json:"topic"`
	SeedDifficulty  int     `json:"seedDifficulty"`
	Prompt          string  `json:"prompt"`
	AnswerType      string  `json:"answerType"`
	AnswerValue     string  `json:"answerValue"`
	AnswerTolerance float64 `json:"answerTolerance"`
}

func main() {
	file := flag.String("file", "problems.json", "path to the problem dataset")
	flag.Parse()

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)

	// The importer provisions fresh databases, so it always migrates.
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("cannot read dataset: %v", err)
	}

	var records []problemRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Fatalf("cannot parse dataset: %v", err)
	}

	problemRepo := repository.NewProblemRepository(db)
	ratingRepo := repository.NewProblemRatingRepository(db)
	corpus := service.NewCorpusService(problemRepo, ratingRepo)

	imported := 0
	for _, rec := range records {
		if rec.ID == "" || rec.SeedDifficulty < 1 || rec.SeedDifficulty > 20 {
			log.Printf("skipping invalid record %q", rec.ID)
			continue
		}
		problem := &model.Problem{
			ID:              rec.ID,
			Topic:           rec.Topic,
			SeedDifficulty:  rec.SeedDifficulty,
			Prompt:          rec.Prompt,
			AnswerType:      model.AnswerType(rec.AnswerType),
			AnswerValue:     rec.AnswerValue,
			AnswerTolerance: rec.AnswerTolerance,
		}
		if err := problemRepo.Upsert(problem); err != nil {
			log.Fatalf("upsert %q failed: %v", rec.ID, err)
		}
		imported++
	}

	synced, err := corpus.SyncSeeds()
	if err != nil {
		log.Fatalf("seed sync failed: %v", err)
	}

	log.Printf("imported %d problems, synced %d seed ratings", imported, synced)
}
