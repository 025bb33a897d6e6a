package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"adgen/internal/domain"
)

// CatalogLookup fetches a model's first backing file id from the catalog.
type CatalogLookup interface {
	FirstFileID(ctx context.Context, modelID string) (int64, error)
}

// resolverTier tries one fallback strategy. ok=false means "not my case,
// try the next tier"; an error stops the chain.
type resolverTier func(ctx context.Context, model domain.ModelAsset) (int64, bool, error)

// ModelResolver finds the backend file id backing a model. The tiers run in
// strict order and the first hit wins: marketplace listings overload the seed
// field to carry the file id, so the cheap local tiers must be tried before
// paying for a catalog round trip.
type ModelResolver struct {
	tiers []resolverTier
}

// NewModelResolver builds the three-tier chain: embedded seed id, explicit
// file id, then remote catalog lookup.
func NewModelResolver(catalog CatalogLookup) *ModelResolver {
	return &ModelResolver{
		tiers: []resolverTier{
			seedTier,
			fileIDTier,
			catalogTier(catalog),
		},
	}
}

// Resolve returns the file id for the model or ErrModelAssetNotFound when no
// tier can produce one.
func (r *ModelResolver) Resolve(ctx context.Context, model domain.ModelAsset) (int64, error) {
	for _, tier := range r.tiers {
		id, ok, err := tier(ctx, model)
		if err != nil {
			return 0, err
		}
		if ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("resolve model %s: %w", model.ID, domain.ErrModelAssetNotFound)
}

func seedTier(_ context.Context, model domain.ModelAsset) (int64, bool, error) {
	seed := strings.TrimSpace(model.SeedValue)
	if seed == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(seed, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, nil
	}
	return id, true, nil
}

func fileIDTier(_ context.Context, model domain.ModelAsset) (int64, bool, error) {
	if model.FileID > 0 {
		return model.FileID, true, nil
	}
	return 0, false, nil
}

func catalogTier(catalog CatalogLookup) resolverTier {
	return func(ctx context.Context, model domain.ModelAsset) (int64, bool, error) {
		if catalog == nil {
			return 0, false, nil
		}
		id, err := catalog.FirstFileID(ctx, model.ID)
		if err != nil {
			return 0, false, err
		}
		return id, true, nil
	}
}
