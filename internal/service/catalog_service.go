package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JamLaMin/rsw-webapp/internal/dto"
	"github.com/JamLaMin/rsw-webapp/internal/model"
	"github.com/JamLaMin/rsw-webapp/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	catalogCacheKey = "catalog:products"
	catalogCacheTTL = 30 * time.Second
)

// CatalogService exposes the read-only product catalog. The POS grid polls
// the list on every client load, so the listing is cached in Redis with a
// short TTL; cache failures degrade silently to DB reads.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	// FindActive resolves exactly one of productID/barcode to an active
	// product. The caller (Sale Ledger) enforces that exactly one is set.
	FindActive(ctx context.Context, productID *uint, barcode *string) (*model.Product, error)
}

type catalogService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewCatalogService(repo repository.ProductRepository, rdb *redis.Client) CatalogService {
	return &catalogService{repo: repo, rdb: rdb}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, catalogCacheKey).Result(); err == nil {
			var products []dto.ProductResponse
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				return products, nil
			}
		}
	}

	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]dto.ProductResponse, 0, len(rows))
	for _, p := range rows {
		products = append(products, ProductToResponse(&p))
	}

	if s.rdb != nil {
		if data, err := json.Marshal(products); err == nil {
			if err := s.rdb.Set(ctx, catalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("catalog cache write failed")
			}
		}
	}

	return products, nil
}

func (s *catalogService) FindActive(ctx context.Context, productID *uint, barcode *string) (*model.Product, error) {
	var (
		p   *model.Product
		err error
	)
	switch {
	case productID != nil:
		p, err = s.repo.FindActiveByID(ctx, *productID)
	case barcode != nil:
		p, err = s.repo.FindActiveByBarcode(ctx, *barcode)
	default:
		return nil, ErrBadRequest
	}
	if err != nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// ProductToResponse maps a catalog row onto its wire shape.
func ProductToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Barcode:    p.Barcode,
		SortOrder:  p.SortOrder,
		ImageURL:   p.ImageURL,
	}
}
