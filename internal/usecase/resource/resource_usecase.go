package resource

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// UseCase defines the resources use case interface
type UseCase interface {
	List(ctx context.Context, category string) ([]entity.Resource, error)
	Categories() []entity.ResourceCategory
	RecordView(ctx context.Context, userID, resourceID string) error
	Seed(ctx context.Context) (int, error)
}

type resourceUseCase struct {
	store   repository.RecordStore
	catalog []entity.Resource
}

// NewUseCase creates a resources use case reading from store, seeded
// from the built-in catalog
func NewUseCase(store repository.RecordStore) (UseCase, error) {
	return NewUseCaseFromYAML(store, defaultCatalog)
}

// NewUseCaseFromYAML creates a resources use case whose seed catalog is read from yaml
func NewUseCaseFromYAML(store repository.RecordStore, data []byte) (UseCase, error) {
	catalog, err := parseCatalog(data)
	if err != nil {
		return nil, err
	}
	return &resourceUseCase{store: store, catalog: catalog}, nil
}

func parseCatalog(data []byte) ([]entity.Resource, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to read resource catalog: %w", err)
	}

	var resources []entity.Resource
	if err := v.UnmarshalKey("resources", &resources); err != nil {
		return nil, fmt.Errorf("failed to parse resource catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		if !r.Category.IsValid() {
			return nil, fmt.Errorf("resource %q has unknown category %q", r.ID, r.Category)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("duplicate resource id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return resources, nil
}

// List reads resources from the store, crisis resources first
func (u *resourceUseCase) List(ctx context.Context, category string) ([]entity.Resource, error) {
	q := &repository.Query{OrderBy: "is_crisis_resource", Desc: true}
	if category != "" {
		c := entity.ResourceCategory(category)
		if !c.IsValid() {
			return nil, apperrors.ValidationError(fmt.Sprintf("unknown resource category %q", category))
		}
		q.Where("category", repository.OpEq, string(c))
	}

	resources := make([]entity.Resource, 0)
	if err := u.store.Select(ctx, entity.ResourcesTable, q, &resources); err != nil {
		return nil, apperrors.UnavailableError("Failed to load resources", err)
	}
	return resources, nil
}

func (u *resourceUseCase) Categories() []entity.ResourceCategory {
	return entity.ResourceCategories
}

// RecordView stores a "viewed" interaction for a resource the user opened
func (u *resourceUseCase) RecordView(ctx context.Context, userID, resourceID string) error {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return apperrors.ValidationError("resource id is required")
	}

	n, err := u.store.Count(ctx, entity.ResourcesTable, (&repository.Query{}).Where("id", repository.OpEq, resourceID))
	if err != nil {
		return apperrors.UnavailableError("Failed to load resources", err)
	}
	if n == 0 {
		return apperrors.NotFoundError("resource")
	}

	interaction := &entity.ResourceInteraction{
		UserID:          userID,
		ResourceID:      resourceID,
		InteractionType: entity.InteractionViewed,
	}
	if err := u.store.Insert(ctx, entity.ResourceInteractionsTable, interaction); err != nil {
		return apperrors.UnavailableError("Failed to record resource view", err)
	}

	log.Debug().Str("user_id", userID).Str("resource_id", resourceID).Msg("Resource viewed")
	return nil
}

// Seed writes the built-in catalog when the resources table is empty.
// It returns how many resources were inserted.
func (u *resourceUseCase) Seed(ctx context.Context) (int, error) {
	n, err := u.store.Count(ctx, entity.ResourcesTable, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for i := range u.catalog {
		if err := u.store.Insert(ctx, entity.ResourcesTable, &u.catalog[i]); err != nil {
			return i, fmt.Errorf("failed to seed resource %q: %w", u.catalog[i].ID, err)
		}
	}
	return len(u.catalog), nil
}
