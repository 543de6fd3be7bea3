package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/batchledger/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProductStore defines the database methods needed by product handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProductStore interface {
	ListProducts(ctx context.Context, arg database.ListProductsParams) ([]database.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error)
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	CreateOpeningBatch(ctx context.Context, arg database.CreateOpeningBatchParams) (database.Batch, error)
	ListBatchesByProduct(ctx context.Context, productID uuid.UUID) ([]database.Batch, error)
	RefreshProductStock(ctx context.Context, productID uuid.UUID) error
}

// NewProductStore creates a ProductStore from a DBTX (pool or tx).
type NewProductStore func(db database.DBTX) ProductStore

// ProductHandler handles product, batch and stock repair endpoints.
type ProductHandler struct {
	store    ProductStore
	pool     service.TxBeginner
	newStore NewProductStore
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore, pool service.TxBeginner, newStore NewProductStore) *ProductHandler {
	return &ProductHandler{store: store, pool: pool, newStore: newStore}
}

func (h *ProductHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Get)
	r.Get("/products/{id}/batches", h.Batches)
}

func (h *ProductHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/products", h.Create)
	r.Put("/products/{id}", h.Update)
	r.Post("/products/{id}/reconcile", h.Reconcile)
}

func (h *ProductHandler) RegisterDeleteRoutes(r chi.Router) {
	r.Delete("/products/{id}", h.Delete)
}

// --- Request / Response types ---

type productRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Sku           string          `json:"sku" validate:"max=64"`
	Unit          string          `json:"unit" validate:"max=20"`
	Keywords      string          `json:"keywords" validate:"max=500"`
	MaintainBatch bool            `json:"maintain_batch"`
	GstPercent    decimal.Decimal `json:"gst_percent"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

type createProductRequest struct {
	productRequest
	OpeningStock decimal.Decimal `json:"opening_stock"`
	OpeningBatch string          `json:"opening_batch" validate:"max=64"`
	MfgDate      string          `json:"mfg_date" validate:"omitempty,datetime=2006-01-02"`
	ExpDate      string          `json:"exp_date" validate:"omitempty,datetime=2006-01-02"`
}

type productResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Sku           *string         `json:"sku"`
	Unit          string          `json:"unit"`
	Keywords      string          `json:"keywords"`
	MaintainBatch bool            `json:"maintain_batch"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	StockIn       decimal.Decimal `json:"stock_in"`
	StockOut      decimal.Decimal `json:"stock_out"`
	Balance       decimal.Decimal `json:"balance"`
	GstPercent    decimal.Decimal `json:"gst_percent"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type batchResponse struct {
	ID          uuid.UUID       `json:"id"`
	BatchNumber string          `json:"batch_number"`
	OpeningQty  decimal.Decimal `json:"opening_qty"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockIn     decimal.Decimal `json:"stock_in"`
	StockOut    decimal.Decimal `json:"stock_out"`
	MfgDate     *string         `json:"mfg_date"`
	ExpDate     *string         `json:"exp_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// batchMismatch is a batch whose quantity disagrees with its movement counters.
type batchMismatch struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Expected    decimal.Decimal `json:"expected"`
}

func toProductResponse(p database.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Sku:           textPtr(p.Sku),
		Unit:          p.Unit,
		Keywords:      p.Keywords,
		MaintainBatch: p.MaintainBatch,
		OpeningStock:  p.OpeningStock,
		StockIn:       p.StockIn,
		StockOut:      p.StockOut,
		Balance:       p.Balance,
		GstPercent:    p.GstPercent,
		SalePrice:     p.SalePrice,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toBatchResponse(b database.Batch) batchResponse {
	return batchResponse{
		ID:          b.ID,
		BatchNumber: b.BatchNumber,
		OpeningQty:  b.OpeningQty,
		Quantity:    b.Quantity,
		StockIn:     b.StockIn,
		StockOut:    b.StockOut,
		MfgDate:     datePtr(b.MfgDate),
		ExpDate:     datePtr(b.ExpDate),
		CreatedAt:   b.CreatedAt,
	}
}

// checkAmounts rejects negative money and stock figures. On failure it has
// already written the 400 response.
func checkAmounts(w http.ResponseWriter, fields map[string]decimal.Decimal) bool {
	for _, name := range []string{"opening_stock", "gst_percent", "sale_price"} {
		if v, ok := fields[name]; ok && v.IsNegative() {
			writeError(w, http.StatusBadRequest, codeValidation, name+" must not be negative")
			return false
		}
	}
	return true
}

func productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}

// --- Handlers ---

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	products, err := h.store.ListProducts(r.Context(), database.ListProductsParams{
		Limit:  limit,
		Offset: offset,
		Search: optText(r.URL.Query().Get("search")),
	})
	if err != nil {
		writeInternal(w, "list products", err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	writeData(w, http.StatusOK, resp)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "product not found")
			return
		}
		writeInternal(w, "get product", err)
		return
	}
	writeData(w, http.StatusOK, toProductResponse(p))
}

// Create inserts the product and, for a positive opening stock, its opening
// batch in the same transaction.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !checkAmounts(w, map[string]decimal.Decimal{
		"opening_stock": req.OpeningStock,
		"gst_percent":   req.GstPercent,
		"sale_price":    req.SalePrice,
	}) {
		return
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "PCS"
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		writeInternal(w, "begin transaction", err)
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck
	store := h.newStore(tx)

	p, err := store.CreateProduct(r.Context(), database.CreateProductParams{
		Name:          strings.TrimSpace(req.Name),
		Sku:           optText(req.Sku),
		Unit:          unit,
		Keywords:      strings.TrimSpace(req.Keywords),
		MaintainBatch: req.MaintainBatch,
		OpeningStock:  req.OpeningStock,
		GstPercent:    req.GstPercent,
		SalePrice:     req.SalePrice,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, codeConflict, "a product with this SKU already exists")
			return
		}
		writeInternal(w, "create product", err)
		return
	}

	if req.OpeningStock.IsPositive() {
		batch := strings.TrimSpace(req.OpeningBatch)
		if batch == "" {
			batch = enum.DefaultBatch
		}
		// formats were checked by the validate tags
		mfg, _ := parseDate(req.MfgDate)
		exp, _ := parseDate(req.ExpDate)
		if _, err := store.CreateOpeningBatch(r.Context(), database.CreateOpeningBatchParams{
			ProductID:   p.ID,
			BatchNumber: batch,
			OpeningQty:  req.OpeningStock,
			MfgDate:     mfg,
			ExpDate:     exp,
		}); err != nil {
			writeInternal(w, "create opening batch", err)
			return
		}
		if err := store.RefreshProductStock(r.Context(), p.ID); err != nil {
			writeInternal(w, "refresh product stock", err)
			return
		}
		if p, err = store.GetProduct(r.Context(), p.ID); err != nil {
			writeInternal(w, "get product", err)
			return
		}
	}

	if err := tx.Commit(r.Context()); err != nil {
		writeInternal(w, "commit transaction", err)
		return
	}
	writeData(w, http.StatusCreated, toProductResponse(p))
}

// Update changes descriptive fields. Stock counters move only through
// vouchers.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req productRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !checkAmounts(w, map[string]decimal.Decimal{
		"gst_percent": req.GstPercent,
		"sale_price":  req.SalePrice,
	}) {
		return
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "PCS"
	}

	p, err := h.store.UpdateProduct(r.Context(), database.UpdateProductParams{
		ID:            id,
		Name:          strings.TrimSpace(req.Name),
		Sku:           optText(req.Sku),
		Unit:          unit,
		Keywords:      strings.TrimSpace(req.Keywords),
		MaintainBatch: req.MaintainBatch,
		GstPercent:    req.GstPercent,
		SalePrice:     req.SalePrice,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "product not found")
			return
		}
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, codeConflict, "a product with this SKU already exists")
			return
		}
		writeInternal(w, "update product", err)
		return
	}
	writeData(w, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if _, err := h.store.SoftDeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "product not found")
			return
		}
		writeInternal(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Batches lists every batch of a product, oldest first.
func (h *ProductHandler) Batches(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if _, err := h.store.GetProduct(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "product not found")
			return
		}
		writeInternal(w, "get product", err)
		return
	}

	batches, err := h.store.ListBatchesByProduct(r.Context(), id)
	if err != nil {
		writeInternal(w, "list batches", err)
		return
	}
	resp := make([]batchResponse, len(batches))
	for i, b := range batches {
		resp[i] = toBatchResponse(b)
	}
	writeData(w, http.StatusOK, resp)
}

// Reconcile reports batches whose quantity differs from
// opening_qty + stock_in - stock_out and rebuilds the product's cached
// totals from its batches. Batch rows are left as they are.
func (h *ProductHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		writeInternal(w, "begin transaction", err)
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck
	store := h.newStore(tx)

	if _, err := store.GetProduct(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "product not found")
			return
		}
		writeInternal(w, "get product", err)
		return
	}

	batches, err := store.ListBatchesByProduct(r.Context(), id)
	if err != nil {
		writeInternal(w, "list batches", err)
		return
	}
	mismatches := []batchMismatch{}
	for _, b := range batches {
		expected := b.OpeningQty.Add(b.StockIn).Sub(b.StockOut)
		if !expected.Equal(b.Quantity) {
			mismatches = append(mismatches, batchMismatch{
				BatchID:     b.ID,
				BatchNumber: b.BatchNumber,
				Quantity:    b.Quantity,
				Expected:    expected,
			})
		}
	}

	if err := store.RefreshProductStock(r.Context(), id); err != nil {
		writeInternal(w, "refresh product stock", err)
		return
	}
	p, err := store.GetProduct(r.Context(), id)
	if err != nil {
		writeInternal(w, "get product", err)
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		writeInternal(w, "commit transaction", err)
		return
	}

	if len(mismatches) > 0 {
		logrus.WithFields(logrus.Fields{
			"product_id": id,
			"batches":    len(mismatches),
		}).Warn("batch quantities disagree with movement counters")
	}

	writeData(w, http.StatusOK, map[string]any{
		"product":    toProductResponse(p),
		"mismatches": mismatches,
	})
}
