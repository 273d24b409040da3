package repository

import (
	"context"
	"time"

	"github.com/JamLaMin/rsw-webapp/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	// Create inserts a new sale. Pass the tx when called inside a transaction.
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	// FindOpenByRegister returns the most-recently-created OPEN sale on the
	// register. Pass tx to read inside a transaction, nil otherwise.
	FindOpenByRegister(ctx context.Context, tx *gorm.DB, registerID uint) (*model.Sale, error)
	// FindByID returns the bare sale row, no associations.
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	// FindByIDExpanded preloads items (creation order) with product detail,
	// plus register and user.
	FindByIDExpanded(ctx context.Context, id uint) (*model.Sale, error)
	// UpsertItem inserts a line item or, when the (sale_id, product_id) pair
	// already exists, atomically increments its qty by item.Qty. The existing
	// unit_price_cents snapshot is left untouched.
	UpsertItem(ctx context.Context, tx *gorm.DB, item *model.SaleItem) error
	// MarkPaid transitions OPEN → PAID with a guarded write and reports the
	// number of rows affected; 0 means the sale was not OPEN.
	MarkPaid(ctx context.Context, id uint, paidAt time.Time) (int64, error)
	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) session(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return r.session(ctx, tx).Create(s).Error
}

func (r *saleRepo) FindOpenByRegister(ctx context.Context, tx *gorm.DB, registerID uint) (*model.Sale, error) {
	var s model.Sale
	err := r.session(ctx, tx).
		Where("register_id = ? AND status = ?", registerID, model.SaleOpen).
		Order("created_at DESC").
		First(&s).Error
	return &s, err
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *saleRepo) FindByIDExpanded(ctx context.Context, id uint) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sale_items.id ASC")
		}).
		Preload("Items.Product").
		Preload("Register").
		Preload("User").
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) UpsertItem(ctx context.Context, tx *gorm.DB, item *model.SaleItem) error {
	// Single atomic find-or-increment keyed on the unique (sale_id, product_id)
	// pair — two concurrent adds of the same product can never produce two rows.
	return r.session(ctx, tx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sale_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"qty": gorm.Expr("sale_items.qty + excluded.qty"),
			}),
		}).
		Create(item).Error
}

func (r *saleRepo) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Where("id = ? AND status = ?", id, model.SaleOpen).
		Updates(map[string]interface{}{
			"status":  model.SalePaid,
			"paid_at": paidAt,
		})
	return res.RowsAffected, res.Error
}
