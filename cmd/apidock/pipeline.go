package main

import (
	"fmt"
	"os"

	"github.com/ShayestehHS/apidock/internal/cards"
	"github.com/ShayestehHS/apidock/internal/config"
	"github.com/ShayestehHS/apidock/internal/merge"
	"github.com/ShayestehHS/apidock/internal/models"
)

// buildIndex runs the shared documentation pipeline: load the generated
// schema, merge the override document, validate, and build the endpoint
// card index. Both serve and build start here.
func buildIndex(cfg *config.Config) ([]byte, []*models.EndpointCard, error) {
	schema, err := os.ReadFile(cfg.Docs.SchemaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read schema %s: %w", cfg.Docs.SchemaPath, err)
	}

	overrides, err := merge.LoadOverrides(cfg.Docs.OverridePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load overrides %s: %w", cfg.Docs.OverridePath, err)
	}

	merged, err := merge.NewMerger().Merge(schema, overrides)
	if err != nil {
		return nil, nil, err
	}

	index, err := cards.NewBuilder(cfg.Docs.Apps).Build(merged)
	if err != nil {
		return nil, nil, err
	}

	return merged, index, nil
}
