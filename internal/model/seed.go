package model

import (
	"context"
	"teanote/internal/entity"
)

// SeedDefaultSchema ensures at least one active rating schema exists so a
// fresh deployment can accept notes immediately. Existing data is never
// modified: published schema versions are immutable once notes reference them.
func SeedDefaultSchema(ctx context.Context, repo Repository) error {
	if repo == nil {
		return nil
	}

	count, err := repo.CountSchemas(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	schema := buildDefaultSchemaSeed()
	return repo.CreateSchema(ctx, &schema)
}

func buildDefaultSchemaSeed() entity.DbRatingSchema {
	return entity.DbRatingSchema{
		Code:        "classic",
		Version:     1,
		Name:        "经典品鉴",
		MinOverall:  0,
		MaxOverall:  5,
		StepOverall: 0.5,
		IsActive:    true,
		Axes: []entity.DbRatingAxis{
			{Code: "aroma", Name: "香气", MinValue: 1, MaxValue: 5, StepValue: 1, DisplayOrder: 1, IsRequired: true},
			{Code: "richness", Name: "浓郁度", MinValue: 1, MaxValue: 5, StepValue: 1, DisplayOrder: 2, IsRequired: true},
			{Code: "sweetness", Name: "回甘", MinValue: 1, MaxValue: 5, StepValue: 1, DisplayOrder: 3, IsRequired: false},
			{Code: "astringency", Name: "涩感", MinValue: 1, MaxValue: 5, StepValue: 1, DisplayOrder: 4, IsRequired: false},
			{Code: "finish", Name: "余韵", MinValue: 1, MaxValue: 5, StepValue: 1, DisplayOrder: 5, IsRequired: false},
		},
	}
}
