package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/JamLaMin/rsw-webapp/internal/dto"
	"github.com/JamLaMin/rsw-webapp/internal/model"
	"github.com/JamLaMin/rsw-webapp/internal/repository"
	"github.com/JamLaMin/rsw-webapp/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubSaleRepo is an in-memory SaleRepository. It mirrors the database
// semantics the service relies on: the one-open-sale-per-register unique
// index, the find-or-increment upsert, and the guarded paid transition.
type stubSaleRepo struct {
	sales      map[uint]*model.Sale
	items      map[uint][]*model.SaleItem
	nextSaleID uint
	nextItemID uint

	// hideOpenCalls makes the first N FindOpenByRegister calls miss, and
	// createErr forces Create to fail, so tests can replay a lost open race.
	hideOpenCalls int
	findOpenCalls int
	createErr     error
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales: make(map[uint]*model.Sale),
		items: make(map[uint][]*model.SaleItem),
	}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.sales {
		if existing.RegisterID == s.RegisterID && existing.Status == model.SaleOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextSaleID++
	s.ID = r.nextSaleID
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindOpenByRegister(_ context.Context, _ *gorm.DB, registerID uint) (*model.Sale, error) {
	r.findOpenCalls++
	if r.findOpenCalls <= r.hideOpenCalls {
		return nil, gorm.ErrRecordNotFound
	}
	for _, s := range r.sales {
		if s.RegisterID == registerID && s.Status == model.SaleOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uint) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByIDExpanded(_ context.Context, id uint) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	out.Items = nil
	for _, item := range r.items[id] {
		out.Items = append(out.Items, *item)
	}
	return &out, nil
}

func (r *stubSaleRepo) UpsertItem(_ context.Context, _ *gorm.DB, item *model.SaleItem) error {
	for _, existing := range r.items[item.SaleID] {
		if existing.ProductID == item.ProductID {
			existing.Qty += item.Qty
			return nil
		}
	}
	r.nextItemID++
	item.ID = r.nextItemID
	r.items[item.SaleID] = append(r.items[item.SaleID], item)
	return nil
}

func (r *stubSaleRepo) MarkPaid(_ context.Context, id uint, paidAt time.Time) (int64, error) {
	s, ok := r.sales[id]
	if !ok || s.Status != model.SaleOpen {
		return 0, nil
	}
	s.Status = model.SalePaid
	s.PaidAt = &paidAt
	return 1, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubRegisterRepo knows a fixed set of active registers.
type stubRegisterRepo struct{ registers map[uint]*model.Register }

func (r *stubRegisterRepo) FindActiveByID(_ context.Context, id uint) (*model.Register, error) {
	reg, ok := r.registers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reg, nil
}

var _ repository.RegisterRepository = (*stubRegisterRepo)(nil)

// stubProductRepo backs the real catalog service in tests.
type stubProductRepo struct{ products []*model.Product }

func (r *stubProductRepo) ListActive(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindActiveByID(_ context.Context, id uint) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id && p.Active {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindActiveByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode && p.Active {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Fixtures ──────────────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }
func intPtr(v int) *int       { return &v }

func newFixture() (service.SaleService, *stubSaleRepo, *stubProductRepo) {
	saleRepo := newStubSaleRepo()
	registerRepo := &stubRegisterRepo{registers: map[uint]*model.Register{
		1: {ID: 1, Name: "Kassa 1", Active: true},
		2: {ID: 2, Name: "Kassa 2", Active: true},
	}}
	productRepo := &stubProductRepo{products: []*model.Product{
		{ID: 1, Name: "Cola", PriceCents: 150, Barcode: strPtr("100000000001"), Active: true},
		{ID: 2, Name: "Water", PriceCents: 100, Barcode: strPtr("100000000003"), Active: true},
	}}
	catalog := service.NewCatalogService(productRepo, nil)
	svc := service.NewSaleService(saleRepo, registerRepo, catalog, nil)
	return svc, saleRepo, productRepo
}

// ── OpenOrGet ─────────────────────────────────────────────────────────────────

func TestOpenOrGet_CreatesSale(t *testing.T) {
	svc, _, _ := newFixture()

	sale, err := svc.OpenOrGet(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SaleOpen, sale.Status)
	assert.Equal(t, uint(1), sale.RegisterID)
	assert.Equal(t, int64(0), sale.TotalCents)
	assert.Empty(t, sale.Items)
}

func TestOpenOrGet_IsIdempotentWhileOpen(t *testing.T) {
	svc, _, _ := newFixture()

	first, err := svc.OpenOrGet(context.Background(), 1, 1)
	require.NoError(t, err)
	second, err := svc.OpenOrGet(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestOpenOrGet_UnknownRegister(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.OpenOrGet(context.Background(), 1, 99)
	assert.ErrorIs(t, err, service.ErrRegisterNotFound)
}

func TestOpenOrGet_LostRaceReturnsWinner(t *testing.T) {
	svc, saleRepo, _ := newFixture()

	winner := &model.Sale{RegisterID: 1, UserID: 2, Status: model.SaleOpen}
	require.NoError(t, saleRepo.Create(context.Background(), nil, winner))

	// The racing request misses on its read, then its insert hits the
	// unique index. It must come back with the winner's sale.
	saleRepo.hideOpenCalls = saleRepo.findOpenCalls + 1
	saleRepo.createErr = gorm.ErrDuplicatedKey

	sale, err := svc.OpenOrGet(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, sale.ID)
}

func TestOpenOrGet_NewSaleAfterPayment(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	first, err := svc.OpenOrGet(ctx, 1, 1)
	require.NoError(t, err)
	_, err = svc.PayCash(ctx, first.ID)
	require.NoError(t, err)

	second, err := svc.OpenOrGet(ctx, 1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, model.SaleOpen, second.Status)
}

// ── AddItem ───────────────────────────────────────────────────────────────────

func openSale(t *testing.T, svc service.SaleService) *dto.SaleResponse {
	t.Helper()
	sale, err := svc.OpenOrGet(context.Background(), 1, 1)
	require.NoError(t, err)
	return sale
}

func TestAddItem_SnapshotsPriceAndTotals(t *testing.T) {
	svc, _, _ := newFixture()
	sale := openSale(t, svc)

	got, err := svc.AddItem(context.Background(), sale.ID, dto.AddItemRequest{ProductID: uintPtr(1)})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Qty)
	assert.Equal(t, int64(150), got.Items[0].UnitPriceCents)
	assert.Equal(t, int64(150), got.Items[0].SubtotalCents)
	assert.Equal(t, int64(150), got.TotalCents)
}

func TestAddItem_SameProductAccumulatesOneLine(t *testing.T) {
	svc, _, _ := newFixture()
	sale := openSale(t, svc)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1)})
	require.NoError(t, err)
	got, err := svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1), Qty: intPtr(2)})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Qty)
	assert.Equal(t, int64(450), got.TotalCents)
}

func TestAddItem_KeepsPriceSnapshotAfterCatalogChange(t *testing.T) {
	svc, _, productRepo := newFixture()
	sale := openSale(t, svc)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1)})
	require.NoError(t, err)

	// Catalog price goes up between two adds of the same product. The line
	// keeps the price captured at first add.
	productRepo.products[0].PriceCents = 999

	got, err := svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1)})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Qty)
	assert.Equal(t, int64(150), got.Items[0].UnitPriceCents)
	assert.Equal(t, int64(300), got.TotalCents)
}

func TestAddItem_ByBarcode(t *testing.T) {
	svc, _, _ := newFixture()
	sale := openSale(t, svc)

	got, err := svc.AddItem(context.Background(), sale.ID, dto.AddItemRequest{Barcode: strPtr("100000000003")})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(100), got.Items[0].UnitPriceCents)
}

func TestAddItem_UnknownProductLeavesSaleUntouched(t *testing.T) {
	svc, saleRepo, _ := newFixture()
	sale := openSale(t, svc)

	_, err := svc.AddItem(context.Background(), sale.ID, dto.AddItemRequest{Barcode: strPtr("000000000000")})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
	assert.Empty(t, saleRepo.items[sale.ID])
}

func TestAddItem_MissingSelector(t *testing.T) {
	svc, _, _ := newFixture()
	sale := openSale(t, svc)

	_, err := svc.AddItem(context.Background(), sale.ID, dto.AddItemRequest{})
	assert.ErrorIs(t, err, service.ErrBadRequest)
}

func TestAddItem_QtyBounds(t *testing.T) {
	svc, _, _ := newFixture()
	sale := openSale(t, svc)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1), Qty: intPtr(0)})
	assert.ErrorIs(t, err, service.ErrBadRequest)

	_, err = svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1), Qty: intPtr(100)})
	assert.ErrorIs(t, err, service.ErrBadRequest)

	_, err = svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1), Qty: intPtr(99)})
	assert.NoError(t, err)
}

func TestAddItem_UnknownSale(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.AddItem(context.Background(), 404, dto.AddItemRequest{ProductID: uintPtr(1)})
	assert.ErrorIs(t, err, service.ErrSaleNotFound)
}

func TestAddItem_PaidSaleRejected(t *testing.T) {
	svc, saleRepo, _ := newFixture()
	sale := openSale(t, svc)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1)})
	require.NoError(t, err)
	_, err = svc.PayCash(ctx, sale.ID)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1)})
	assert.ErrorIs(t, err, service.ErrSaleClosed)

	// The paid sale keeps exactly the lines it had at payment time.
	require.Len(t, saleRepo.items[sale.ID], 1)
	assert.Equal(t, 1, saleRepo.items[sale.ID][0].Qty)
}

// ── PayCash ───────────────────────────────────────────────────────────────────

func TestPayCash_MarksPaidAndSetsPaidAt(t *testing.T) {
	svc, _, _ := newFixture()
	sale := openSale(t, svc)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, sale.ID, dto.AddItemRequest{ProductID: uintPtr(1), Qty: intPtr(2)})
	require.NoError(t, err)

	paid, err := svc.PayCash(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SalePaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, int64(300), paid.TotalCents)
}

func TestPayCash_SecondCallConflictsAndKeepsPaidAt(t *testing.T) {
	svc, saleRepo, _ := newFixture()
	sale := openSale(t, svc)
	ctx := context.Background()

	_, err := svc.PayCash(ctx, sale.ID)
	require.NoError(t, err)
	firstPaidAt := *saleRepo.sales[sale.ID].PaidAt

	_, err = svc.PayCash(ctx, sale.ID)
	assert.ErrorIs(t, err, service.ErrSaleAlreadyPaid)
	assert.Equal(t, firstPaidAt, *saleRepo.sales[sale.ID].PaidAt)
}

func TestPayCash_UnknownSale(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.PayCash(context.Background(), 404)
	assert.ErrorIs(t, err, service.ErrSaleNotFound)
}

func TestPayCash_ZeroItemSaleIsPayable(t *testing.T) {
	svc, _, _ := newFixture()
	sale := openSale(t, svc)

	paid, err := svc.PayCash(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), paid.TotalCents)
}

// ── Checkout flow ─────────────────────────────────────────────────────────────

func TestCheckoutFlow(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	saleA, err := svc.OpenOrGet(ctx, 1, 1)
	require.NoError(t, err)

	got, err := svc.AddItem(ctx, saleA.ID, dto.AddItemRequest{ProductID: uintPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.TotalCents)

	got, err = svc.AddItem(ctx, saleA.ID, dto.AddItemRequest{ProductID: uintPtr(1), Qty: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Qty)
	assert.Equal(t, int64(450), got.TotalCents)

	paid, err := svc.PayCash(ctx, saleA.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SalePaid, paid.Status)

	saleB, err := svc.OpenOrGet(ctx, 1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, saleA.ID, saleB.ID)
	assert.Empty(t, saleB.Items)
}
