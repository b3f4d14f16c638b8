// Package search implements the storefront's in-memory product search. The
// whole catalog is scored in one pass; at boutique catalog sizes this beats
// the operational cost of a real text index.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/models"
	"github.com/divaskloset/storefront/internal/repo"
	"github.com/divaskloset/storefront/internal/util"
)

const maxSuggestions = 5

// Score tiers, highest first. A product is only ever awarded its best tier.
const (
	scoreNameExact    = 100
	scoreNamePrefix   = 80
	scoreNameContains = 60
	scoreDescContains = 40
	scoreNameToken    = 30
	scoreCatContains  = 20
	scoreDescToken    = 15
)

type Store interface {
	ListAllProducts(ctx context.Context) ([]models.Product, error)
}

var _ Store = (*repo.GormRepo)(nil)

type Service struct {
	Store Store
}

type Params struct {
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	SortBy   string
	Page     int
	Limit    int
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int   `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

type Filters struct {
	Category string  `json:"category"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	SortBy   string  `json:"sortBy"`
}

type Result struct {
	Data        []models.Product `json:"data"`
	Query       string           `json:"query"`
	Pagination  Pagination       `json:"pagination"`
	Suggestions []string         `json:"suggestions"`
	Filters     Filters          `json:"filters"`
}

type scored struct {
	product models.Product
	score   int
}

// Search filters, scores, sorts and paginates in one request-scoped pass.
// The total reflects the same scored candidate set as the returned page, so
// hasMore and totalPages always agree with what the client can actually
// fetch.
func (s *Service) Search(ctx context.Context, p Params) (*Result, error) {
	query := strings.TrimSpace(p.Query)
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: query must be at least 2 characters", domain.ErrValidation)
	}
	q := strings.ToLower(query)
	tokens := strings.Fields(q)

	minPrice := p.MinPrice
	maxPrice := p.MaxPrice
	if maxPrice <= 0 {
		maxPrice = math.MaxFloat64
	}

	products, err := s.Store.ListAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []scored
	var suggestions []string
	seen := map[string]bool{}

	for _, prod := range products {
		if p.Category != "" && prod.Category != p.Category {
			continue
		}
		if prod.Price < minPrice || prod.Price > maxPrice {
			continue
		}

		sc := score(&prod, q, tokens)
		if sc <= 0 {
			continue
		}
		candidates = append(candidates, scored{product: prod, score: sc})

		if len(suggestions) < maxSuggestions {
			name := strings.ToLower(prod.Name)
			if strings.Contains(name, q) && name != q && !seen[prod.Name] {
				seen[prod.Name] = true
				suggestions = append(suggestions, prod.Name)
			}
		}
		if len(suggestions) < maxSuggestions {
			cat := strings.ToLower(prod.Category)
			if strings.Contains(cat, q) && cat != q && !seen[prod.Category] {
				seen[prod.Category] = true
				suggestions = append(suggestions, prod.Category)
			}
		}
	}

	sortCandidates(candidates, p.SortBy)

	offset, limit := util.Calculate(p.Page, p.Limit)
	page := offset/limit + 1
	total := len(candidates)

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	data := make([]models.Product, 0, end-start)
	for _, c := range candidates[start:end] {
		data = append(data, c.product)
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	return &Result{
		Data:  data,
		Query: query,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: util.TotalPages(int64(total), limit),
			HasMore:    end < total,
		},
		Suggestions: suggestions,
		Filters: Filters{
			Category: p.Category,
			MinPrice: p.MinPrice,
			MaxPrice: p.MaxPrice,
			SortBy:   sortKey(p.SortBy),
		},
	}, nil
}

// score awards the single best matching tier for the query against one
// product. Zero means the product is excluded under every sort order.
func score(prod *models.Product, q string, tokens []string) int {
	name := strings.ToLower(prod.Name)
	desc := strings.ToLower(prod.Description)
	cat := strings.ToLower(prod.Category)

	switch {
	case name == q:
		return scoreNameExact
	case strings.HasPrefix(name, q):
		return scoreNamePrefix
	case strings.Contains(name, q):
		return scoreNameContains
	case strings.Contains(desc, q):
		return scoreDescContains
	case strings.Contains(cat, q):
		return scoreCatContains
	case anyToken(name, tokens):
		return scoreNameToken
	case anyToken(desc, tokens):
		return scoreDescToken
	}
	return 0
}

func anyToken(field string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(field, t) {
			return true
		}
	}
	return false
}

// sortCandidates keeps ties in load order; only the named key is compared,
// relevance never acts as a secondary key for the other sorts.
func sortCandidates(candidates []scored, sortBy string) {
	switch sortKey(sortBy) {
	case "price-low":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].product.Price < candidates[j].product.Price
		})
	case "price-high":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].product.Price > candidates[j].product.Price
		})
	case "name":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].product.Name < candidates[j].product.Name
		})
	case "newest":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].product.CreatedAt.After(candidates[j].product.CreatedAt)
		})
	default: // relevance
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})
	}
}

// sortKey normalizes the requested sort. Products carry no rating data, so
// "rating" degrades to newest rather than erroring.
func sortKey(sortBy string) string {
	switch sortBy {
	case "price-low", "price-high", "name", "newest":
		return sortBy
	case "rating":
		return "newest"
	default:
		return "relevance"
	}
}
