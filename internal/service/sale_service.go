package service

import (
	"context"
	"errors"
	"time"

	"github.com/JamLaMin/rsw-webapp/internal/dto"
	"github.com/JamLaMin/rsw-webapp/internal/model"
	"github.com/JamLaMin/rsw-webapp/internal/repository"
	"github.com/JamLaMin/rsw-webapp/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Quantity bounds for a single add-item call.
const (
	minItemQty = 1
	maxItemQty = 99
)

// SaleService is the sale ledger: one OPEN sale per register, accumulating
// line items until the cashier settles it with a cash payment.
type SaleService interface {
	OpenOrGet(ctx context.Context, userID, registerID uint) (*dto.SaleResponse, error)
	AddItem(ctx context.Context, saleID uint, req dto.AddItemRequest) (*dto.SaleResponse, error)
	PayCash(ctx context.Context, saleID uint) (*dto.SaleResponse, error)
	Get(ctx context.Context, saleID uint) (*dto.SaleResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	registerRepo repository.RegisterRepository
	catalog      CatalogService
	dispatcher   *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	registerRepo repository.RegisterRepository,
	catalog CatalogService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:         repo,
		registerRepo: registerRepo,
		catalog:      catalog,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── OpenOrGet ────────────────────────────────────────────────────────────────
// Find-or-create of the register's OPEN sale. Idempotent: repeated calls
// while a sale stays open return the same sale. A partial unique index on
// sales(register_id) WHERE status='OPEN' backs the invariant; when two
// concurrent opens race, the loser's insert fails on the index and it
// re-reads the winner's sale.

func (s *saleService) OpenOrGet(ctx context.Context, userID, registerID uint) (*dto.SaleResponse, error) {
	if _, err := s.registerRepo.FindActiveByID(ctx, registerID); err != nil {
		return nil, ErrRegisterNotFound
	}

	var sale *model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		existing, err := s.repo.FindOpenByRegister(ctx, tx, registerID)
		if err == nil {
			sale = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		sale = &model.Sale{
			RegisterID: registerID,
			UserID:     userID,
			Status:     model.SaleOpen,
		}
		return s.repo.Create(ctx, tx, sale)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			// Lost the open race — the other request's sale is the open one.
			existing, err := s.repo.FindOpenByRegister(ctx, nil, registerID)
			if err != nil {
				return nil, err
			}
			sale = existing
		} else {
			return nil, txErr
		}
	}

	return s.expanded(ctx, sale.ID)
}

// ── AddItem ──────────────────────────────────────────────────────────────────

func (s *saleService) AddItem(ctx context.Context, saleID uint, req dto.AddItemRequest) (*dto.SaleResponse, error) {
	if req.ProductID == nil && req.Barcode == nil {
		return nil, ErrBadRequest
	}

	qty := minItemQty
	if req.Qty != nil {
		qty = *req.Qty
	}
	if qty < minItemQty || qty > maxItemQty {
		return nil, ErrBadRequest
	}

	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	if sale.Status != model.SaleOpen {
		return nil, ErrSaleClosed
	}

	product, err := s.catalog.FindActive(ctx, req.ProductID, req.Barcode)
	if err != nil {
		return nil, err
	}

	// Atomic find-or-increment on the unique (sale_id, product_id) pair.
	// unit_price_cents is snapshotted from the product's current price on
	// first add and never overwritten by later adds.
	item := &model.SaleItem{
		SaleID:         saleID,
		ProductID:      product.ID,
		Qty:            qty,
		UnitPriceCents: product.PriceCents,
	}
	if err := s.repo.UpsertItem(ctx, nil, item); err != nil {
		return nil, err
	}

	return s.expanded(ctx, saleID)
}

// ── PayCash ──────────────────────────────────────────────────────────────────
// The single terminal transition. The guarded UPDATE only fires while the
// sale is still OPEN, so a second pay-cash can never move paidAt.

func (s *saleService) PayCash(ctx context.Context, saleID uint) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	if sale.Status != model.SaleOpen {
		return nil, ErrSaleAlreadyPaid
	}

	rows, err := s.repo.MarkPaid(ctx, saleID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Concurrent pay won the guarded write
		return nil, ErrSaleAlreadyPaid
	}

	resp, err := s.expanded(ctx, saleID)
	if err != nil {
		return nil, err
	}

	// Best-effort receipt job; never fails the payment
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptPayload{SaleID: saleID}); err != nil {
			log.Warn().Uint("sale_id", saleID).Err(err).Msg("failed to enqueue receipt job")
		}
	}

	return resp, nil
}

// ── Get ──────────────────────────────────────────────────────────────────────
// Read-only projection used by client polling.

func (s *saleService) Get(ctx context.Context, saleID uint) (*dto.SaleResponse, error) {
	return s.expanded(ctx, saleID)
}

func (s *saleService) expanded(ctx context.Context, saleID uint) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByIDExpanded(ctx, saleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return SaleToResponse(sale), nil
}

// SaleToResponse maps a sale and its line items onto the wire shape. The
// total is always recomputed from the items, never read from storage.
func SaleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		ir := dto.SaleItemResponse{
			ID:             item.ID,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents(),
		}
		if item.Product != nil {
			ir.Product = ProductToResponse(item.Product)
		}
		items = append(items, ir)
	}

	resp := &dto.SaleResponse{
		ID:         sale.ID,
		RegisterID: sale.RegisterID,
		UserID:     sale.UserID,
		Status:     sale.Status,
		TotalCents: sale.TotalCents(),
		Items:      items,
		CreatedAt:  sale.CreatedAt.UTC().Format(time.RFC3339),
	}
	if sale.PaidAt != nil {
		t := sale.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &t
	}
	if sale.Register != nil {
		resp.Register = &dto.RegisterResponse{ID: sale.Register.ID, Name: sale.Register.Name}
	}
	if sale.User != nil {
		resp.User = &dto.UserResponse{ID: sale.User.ID, Username: sale.User.Username, Role: sale.User.Role}
	}
	return resp
}
