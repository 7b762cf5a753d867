package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"dietlog-backend/internal/catalog/dto"
	"dietlog-backend/pkg/apperr"
	"dietlog-backend/pkg/fooddata"
)

const (
	searchPageSize  = 10
	defaultQuantity = 100
)

var quantityPattern = regexp.MustCompile(`(?i)^\s*(\d+)?\s*(g|gm|grams|mg|kg)?\s+(.*)$`)

// FoodCatalog is the upstream food database
type FoodCatalog interface {
	Search(ctx context.Context, query string, pageSize int) ([]fooddata.SearchHit, error)
	Food(ctx context.Context, code string) (*fooddata.Food, error)
}

// CatalogUsecase proxies food search and detail lookups
type CatalogUsecase interface {
	Search(ctx context.Context, query string) ([]dto.SearchResult, error)
	GetProduct(ctx context.Context, code string) (*dto.Product, error)
}

type catalogUsecase struct {
	catalog FoodCatalog
}

func NewCatalogUsecase(catalog FoodCatalog) CatalogUsecase {
	return &catalogUsecase{catalog: catalog}
}

// ParseQuery splits an optional leading quantity such as "100g" from the food
// name. The quantity defaults to 100 grams.
func ParseQuery(query string) (food string, grams int) {
	query = strings.TrimSpace(query)
	m := quantityPattern.FindStringSubmatch(query)
	if m == nil || (m[1] == "" && m[2] == "") {
		return query, defaultQuantity
	}

	grams = defaultQuantity
	if m[1] != "" {
		if n, err := strconv.Atoi(m[1]); err == nil {
			grams = n
		}
	}
	return strings.TrimSpace(m[3]), grams
}

func (u *catalogUsecase) Search(ctx context.Context, query string) ([]dto.SearchResult, error) {
	food, _ := ParseQuery(query)
	if food == "" {
		return nil, fmt.Errorf("%w: query is required", apperr.ErrValidation)
	}

	hits, err := u.catalog.Search(ctx, food, searchPageSize)
	if err != nil {
		log.Printf("[Catalog] Search %q failed: %v", food, err)
		return nil, fmt.Errorf("%w: %w", apperr.ErrUpstream, err)
	}

	results := make([]dto.SearchResult, 0, len(hits))
	for _, h := range hits {
		name := h.Description
		if name == "" {
			name = "Unknown"
		}
		results = append(results, dto.SearchResult{Code: strconv.FormatInt(h.FDCID, 10), Name: name})
	}
	return results, nil
}

func (u *catalogUsecase) GetProduct(ctx context.Context, code string) (*dto.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: product code is required", apperr.ErrValidation)
	}

	food, err := u.catalog.Food(ctx, code)
	if err != nil {
		if errors.Is(err, fooddata.ErrNotFound) {
			return nil, fmt.Errorf("%w: Product not found", apperr.ErrNotFound)
		}
		log.Printf("[Catalog] Lookup %s failed: %v", code, err)
		return nil, fmt.Errorf("%w: %w", apperr.ErrUpstream, err)
	}

	return &dto.Product{
		Code:     code,
		Name:     food.Description,
		Calories: food.Nutrients[fooddata.NutrientEnergy],
		Carbs:    food.Nutrients[fooddata.NutrientCarbs],
		Proteins: food.Nutrients[fooddata.NutrientProtein],
		Fats:     food.Nutrients[fooddata.NutrientFat],
	}, nil
}
