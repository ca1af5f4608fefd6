// Command importingredients loads an ingredient fixture file through the
// service layer. The file is a JSON array of {"name", "measurement_unit"}
// objects, the same shape the import API endpoint accepts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/ladlehub/backend/config"
	"github.com/pageza/ladlehub/backend/internal/database"
	"github.com/pageza/ladlehub/backend/internal/logger"
	"github.com/pageza/ladlehub/backend/internal/service"
	"github.com/pageza/ladlehub/backend/internal/types"
)

func main() {
	file := flag.String("file", "ingredients.json", "path to the ingredient fixture file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("failed to read fixture file", zap.String("file", *file), zap.Error(err))
	}

	var rows []types.ImportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		log.Fatal("failed to parse fixture file", zap.Error(err))
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	result, err := service.NewIngredientService(db).BulkImport(context.Background(), rows)
	if err != nil {
		log.Fatal("import failed", zap.Error(err))
	}

	for _, rowErr := range result.Errors {
		log.Warn("row rejected", zap.Int("index", rowErr.Index), zap.String("reason", rowErr.Message))
	}
	log.Info("ingredients imported",
		zap.Int("imported", len(result.IngredientIDs)),
		zap.Int("rejected", len(result.Errors)),
	)
}
