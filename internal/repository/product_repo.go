package repository

import (
	"context"

	"github.com/JamLaMin/rsw-webapp/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	FindActiveByID(ctx context.Context, id uint) (*model.Product, error)
	FindActiveByBarcode(ctx context.Context, barcode string) (*model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	// sort_order is the merchandising order, name breaks ties (including the
	// common case of every sort_order left at default).
	err := r.db.WithContext(ctx).
		Where("active = true").
		Order("sort_order ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindActiveByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&p).Error
	return &p, err
}

func (r *productRepo) FindActiveByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("barcode = ? AND active = true", barcode).First(&p).Error
	return &p, err
}
