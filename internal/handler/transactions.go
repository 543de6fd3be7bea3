package handler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/batchledger/api/internal/middleware"
	"github.com/batchledger/api/internal/service"
	"github.com/batchledger/api/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxPDFSize = 10 << 20

// VoucherService is the posting and reversal engine.
// Satisfied by *service.VoucherService.
type VoucherService interface {
	Post(ctx context.Context, req service.PostRequest) (*service.PostResult, error)
	Update(ctx context.Context, id int64, req service.PostRequest) (*service.PostResult, error)
	UpdateNote(ctx context.Context, id int64, noteType string, req service.PostRequest) (*service.PostResult, error)
	Delete(ctx context.Context, id int64) (*service.DeleteResult, error)
}

// TransactionStore defines the read queries needed by transaction handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type TransactionStore interface {
	ListVouchers(ctx context.Context, arg database.ListVouchersParams) ([]database.ListVouchersRow, error)
	GetVoucher(ctx context.Context, id int64) (database.Voucher, error)
	GetVoucherView(ctx context.Context, id int64) (database.GetVoucherViewRow, error)
	ListVoucherDetails(ctx context.Context, voucherID int64) ([]database.VoucherDetail, error)
	SetVoucherPdfPath(ctx context.Context, arg database.SetVoucherPdfPathParams) (int64, error)
}

// TransactionHandler serves voucher endpoints.
type TransactionHandler struct {
	vouchers VoucherService
	store    TransactionStore
	docs     storage.DocumentStore
}

func NewTransactionHandler(vouchers VoucherService, store TransactionStore, docs storage.DocumentStore) *TransactionHandler {
	return &TransactionHandler{vouchers: vouchers, store: store, docs: docs}
}

// RegisterReadRoutes registers endpoints open to every role.
func (h *TransactionHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/transactions", h.List)
	r.Get("/transactions/{id}", h.Get)
	r.Get("/transactions/{id}/pdf", h.GetPDF)
}

// RegisterWriteRoutes registers endpoints that post or edit vouchers.
func (h *TransactionHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/transaction", h.Create)
	r.Post("/transactions", h.Create)
	r.Put("/transactions/{id}", h.Update)
	r.Put("/creditnoteupdate/{id}", h.UpdateCreditNote)
	r.Put("/debitnoteupdate/{id}", h.UpdateDebitNote)
	r.Put("/transactions/{id}/pdf", h.PutPDF)
}

// RegisterDeleteRoutes registers voucher deletion.
func (h *TransactionHandler) RegisterDeleteRoutes(r chi.Router) {
	r.Delete("/transactions/{id}", h.Delete)
}

// --- Request / Response types ---

// transactionRequest accepts the field spellings existing clients send.
// encoding/json matches keys case-insensitively, so "TransactionType" lands in
// TransactionTypeCamel.
type transactionRequest struct {
	TransactionType      string `json:"transaction_type"`
	TransactionTypeCamel string `json:"transactionType"`

	VchNo               string `json:"vch_no"`
	InvoiceNumber       string `json:"invoice_number"`
	InvoiceNumberCamel  string `json:"invoiceNumber"`
	AgainstInvoice      string `json:"against_invoice"`
	AgainstInvoiceCamel string `json:"againstInvoice"`

	PartyID         string `json:"party_id" validate:"omitempty,uuid"`
	AccountID       string `json:"account_id" validate:"omitempty,uuid"`
	TransactionDate string `json:"transaction_date" validate:"omitempty,datetime=2006-01-02"`

	BasicAmount *decimal.Decimal `json:"basic_amount"`
	TaxAmount   *decimal.Decimal `json:"tax_amount"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	SgstAmount  *decimal.Decimal `json:"sgst_amount"`
	CgstAmount  *decimal.Decimal `json:"cgst_amount"`
	IgstAmount  *decimal.Decimal `json:"igst_amount"`
	SgstPercent decimal.Decimal  `json:"sgst_percent"`
	CgstPercent decimal.Decimal  `json:"cgst_percent"`
	IgstPercent decimal.Decimal  `json:"igst_percent"`
	PaidAmount  decimal.Decimal  `json:"paid_amount"`

	DC               string `json:"dc" validate:"omitempty,oneof=D C d c"`
	OrderNumber      string `json:"order_number"`
	OrderNumberCamel string `json:"orderNumber"`
	OrderMode        string `json:"order_mode"`
	OrderModeCamel   string `json:"orderMode"`
	Narration        string `json:"narration" validate:"max=500"`

	Items             []lineRequest `json:"items" validate:"dive"`
	BatchDetails      []lineRequest `json:"batch_details" validate:"dive"`
	BatchDetailsCamel []lineRequest `json:"batchDetails" validate:"dive"`
}

type lineRequest struct {
	ProductID      string           `json:"product_id" validate:"omitempty,uuid"`
	ProductIDCamel string           `json:"productId" validate:"omitempty,uuid"`
	Product        string           `json:"product"`
	Batch          string           `json:"batch"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Price          decimal.Decimal  `json:"price"`
	Discount       decimal.Decimal  `json:"discount"`
	Gst            decimal.Decimal  `json:"gst"`
	Cgst           decimal.Decimal  `json:"cgst"`
	Sgst           decimal.Decimal  `json:"sgst"`
	Igst           decimal.Decimal  `json:"igst"`
	Cess           decimal.Decimal  `json:"cess"`
	Total          *decimal.Decimal `json:"total"`
	MfgDate        string           `json:"mfg_date" validate:"omitempty,datetime=2006-01-02"`
	ExpDate        string           `json:"exp_date" validate:"omitempty,datetime=2006-01-02"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func parseOptUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func parseOptDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// toPostRequest maps the body onto the service request. Formats were
// already checked by the validate tags.
func (b transactionRequest) toPostRequest(createdBy *uuid.UUID) service.PostRequest {
	req := service.PostRequest{
		TransactionType: firstNonEmpty(b.TransactionType, b.TransactionTypeCamel),
		VchNo:           strings.TrimSpace(b.VchNo),
		InvoiceNumber:   firstNonEmpty(b.InvoiceNumber, b.InvoiceNumberCamel),
		AgainstInvoice:  firstNonEmpty(b.AgainstInvoice, b.AgainstInvoiceCamel),
		PartyID:         parseOptUUID(b.PartyID),
		AccountID:       parseOptUUID(b.AccountID),
		BasicAmount:     b.BasicAmount,
		TaxAmount:       b.TaxAmount,
		TotalAmount:     b.TotalAmount,
		SgstAmount:      b.SgstAmount,
		CgstAmount:      b.CgstAmount,
		IgstAmount:      b.IgstAmount,
		SgstPercent:     b.SgstPercent,
		CgstPercent:     b.CgstPercent,
		IgstPercent:     b.IgstPercent,
		PaidAmount:      b.PaidAmount,
		DC:              b.DC,
		OrderNumber:     firstNonEmpty(b.OrderNumber, b.OrderNumberCamel),
		OrderMode:       firstNonEmpty(b.OrderMode, b.OrderModeCamel),
		Narration:       strings.TrimSpace(b.Narration),
		CreatedBy:       createdBy,
	}
	if d := parseOptDate(b.TransactionDate); d != nil {
		req.TransactionDate = *d
	}

	lines := b.Items
	if len(lines) == 0 {
		lines = b.BatchDetails
	}
	if len(lines) == 0 {
		lines = b.BatchDetailsCamel
	}
	for _, l := range lines {
		item := service.LineRequest{
			ProductName: strings.TrimSpace(l.Product),
			Batch:       strings.TrimSpace(l.Batch),
			Quantity:    l.Quantity,
			Price:       l.Price,
			Discount:    l.Discount,
			Gst:         l.Gst,
			Cgst:        l.Cgst,
			Sgst:        l.Sgst,
			Igst:        l.Igst,
			Cess:        l.Cess,
			Total:       l.Total,
			MfgDate:     parseOptDate(l.MfgDate),
			ExpDate:     parseOptDate(l.ExpDate),
		}
		if id := parseOptUUID(firstNonEmpty(l.ProductID, l.ProductIDCamel)); id != nil {
			item.ProductID = *id
		}
		req.Items = append(req.Items, item)
	}
	return req
}

type postResponse struct {
	Success       bool                            `json:"success"`
	VoucherID     int64                           `json:"voucherId"`
	InvoiceNumber string                          `json:"invoiceNumber"`
	VchNo         string                          `json:"vchNo"`
	Voucher       voucherResponse                 `json:"voucher"`
	Items         []detailResponse                `json:"items"`
	Warnings      []service.ReconciliationWarning `json:"warnings"`
}

type voucherResponse struct {
	ID              int64           `json:"id"`
	TransactionType string          `json:"transaction_type"`
	VchNo           string          `json:"vch_no"`
	InvoiceNumber   string          `json:"invoice_number"`
	AgainstInvoice  *string         `json:"against_invoice"`
	PartyID         *uuid.UUID      `json:"party_id"`
	PartyName       *string         `json:"party_name,omitempty"`
	AccountID       *uuid.UUID      `json:"account_id"`
	AccountName     *string         `json:"account_name,omitempty"`
	TransactionDate *string         `json:"transaction_date"`
	BasicAmount     decimal.Decimal `json:"basic_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SgstAmount      decimal.Decimal `json:"sgst_amount"`
	CgstAmount      decimal.Decimal `json:"cgst_amount"`
	IgstAmount      decimal.Decimal `json:"igst_amount"`
	SgstPercent     decimal.Decimal `json:"sgst_percent"`
	CgstPercent     decimal.Decimal `json:"cgst_percent"`
	IgstPercent     decimal.Decimal `json:"igst_percent"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	BalanceAmount   decimal.Decimal `json:"balance_amount"`
	Status          string          `json:"status"`
	DC              string          `json:"dc"`
	OrderNumber     *string         `json:"order_number"`
	OrderMode       *string         `json:"order_mode"`
	HasPDF          bool            `json:"has_pdf"`
	Narration       *string         `json:"narration"`
	CreatedBy       *uuid.UUID      `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type detailResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Product   string          `json:"product"`
	Batch     string          `json:"batch"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Gst       decimal.Decimal `json:"gst"`
	Cgst      decimal.Decimal `json:"cgst"`
	Sgst      decimal.Decimal `json:"sgst"`
	Igst      decimal.Decimal `json:"igst"`
	Cess      decimal.Decimal `json:"cess"`
	Taxable   decimal.Decimal `json:"taxable"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

func toVoucherResponse(v database.Voucher) voucherResponse {
	return voucherResponse{
		ID:              v.ID,
		TransactionType: v.TransactionType,
		VchNo:           v.VchNo,
		InvoiceNumber:   v.InvoiceNumber,
		AgainstInvoice:  textPtr(v.AgainstInvoice),
		PartyID:         uuidPtr(v.PartyID),
		AccountID:       uuidPtr(v.AccountID),
		TransactionDate: datePtr(v.TransactionDate),
		BasicAmount:     v.BasicAmount,
		TaxAmount:       v.TaxAmount,
		TotalAmount:     v.TotalAmount,
		SgstAmount:      v.SgstAmount,
		CgstAmount:      v.CgstAmount,
		IgstAmount:      v.IgstAmount,
		SgstPercent:     v.SgstPercent,
		CgstPercent:     v.CgstPercent,
		IgstPercent:     v.IgstPercent,
		PaidAmount:      v.PaidAmount,
		BalanceAmount:   v.BalanceAmount,
		Status:          v.Status,
		DC:              v.Dc,
		OrderNumber:     textPtr(v.OrderNumber),
		OrderMode:       textPtr(v.OrderMode),
		HasPDF:          v.PdfPath.Valid,
		Narration:       textPtr(v.Narration),
		CreatedBy:       uuidPtr(v.CreatedBy),
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

// toVoucherView adds the joined party and account names.
func toVoucherView(row database.GetVoucherViewRow) voucherResponse {
	v := toVoucherResponse(database.Voucher{
		ID: row.ID, TransactionType: row.TransactionType, VchNo: row.VchNo, InvoiceNumber: row.InvoiceNumber,
		AgainstInvoice: row.AgainstInvoice, PartyID: row.PartyID, AccountID: row.AccountID,
		TransactionDate: row.TransactionDate, BasicAmount: row.BasicAmount, TaxAmount: row.TaxAmount,
		TotalAmount: row.TotalAmount, SgstAmount: row.SgstAmount, CgstAmount: row.CgstAmount,
		IgstAmount: row.IgstAmount, SgstPercent: row.SgstPercent, CgstPercent: row.CgstPercent,
		IgstPercent: row.IgstPercent, PaidAmount: row.PaidAmount, BalanceAmount: row.BalanceAmount,
		Status: row.Status, Dc: row.Dc, OrderNumber: row.OrderNumber, OrderMode: row.OrderMode,
		PdfPath: row.PdfPath, Narration: row.Narration, CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	})
	v.PartyName, v.AccountName = textPtr(row.PartyName), textPtr(row.AccountName)
	return v
}

func toDetailResponses(details []database.VoucherDetail) []detailResponse {
	out := make([]detailResponse, len(details))
	for i, d := range details {
		out[i] = detailResponse{
			ID: d.ID, ProductID: d.ProductID, Product: d.Product, Batch: d.Batch,
			Quantity: d.Quantity, Price: d.Price, Discount: d.Discount,
			Gst: d.Gst, Cgst: d.Cgst, Sgst: d.Sgst, Igst: d.Igst, Cess: d.Cess,
			Taxable: d.Taxable, TaxAmount: d.TaxAmount, Total: d.Total,
		}
	}
	return out
}

func toPostResponse(res *service.PostResult) postResponse {
	warnings := res.Warnings
	if warnings == nil {
		warnings = []service.ReconciliationWarning{}
	}
	return postResponse{
		Success:       true,
		VoucherID:     res.Voucher.ID,
		InvoiceNumber: res.Voucher.InvoiceNumber,
		VchNo:         res.Voucher.VchNo,
		Voucher:       toVoucherResponse(res.Voucher),
		Items:         toDetailResponses(res.Details),
		Warnings:      warnings,
	}
}

func voucherID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid voucher ID")
	}
	return id, nil
}

func pdfKey(id int64) string {
	return fmt.Sprintf("vouchers/%d.pdf", id)
}

// --- Handlers ---

// Create posts a new voucher.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body transactionRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}

	var createdBy *uuid.UUID
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		createdBy = &claims.UserID
	}

	res, err := h.vouchers.Post(r.Context(), body.toPostRequest(createdBy))
	if err != nil {
		writeServiceError(w, "post voucher", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(res))
}

// Update re-posts an existing voucher.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, "")
}

func (h *TransactionHandler) UpdateCreditNote(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, enum.TxCreditNote)
}

func (h *TransactionHandler) UpdateDebitNote(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, enum.TxDebitNote)
}

func (h *TransactionHandler) update(w http.ResponseWriter, r *http.Request, noteType string) {
	id, err := voucherID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	var body transactionRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	req := body.toPostRequest(nil)

	var res *service.PostResult
	if noteType == "" {
		res, err = h.vouchers.Update(r.Context(), id, req)
	} else {
		res, err = h.vouchers.UpdateNote(r.Context(), id, noteType, req)
	}
	if err != nil {
		writeServiceError(w, "update voucher", err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(res))
}

// Delete removes a voucher and undoes its effects. The stored PDF, if any,
// is removed after the voucher is gone.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := voucherID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	res, err := h.vouchers.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, "delete voucher", err)
		return
	}

	if res.Voucher.PdfPath.Valid && h.docs != nil {
		if err := h.docs.Delete(r.Context(), res.Voucher.PdfPath.String); err != nil {
			logrus.WithError(err).WithField("voucher_id", id).Warn("remove voucher pdf")
		}
	}

	warnings := res.Warnings
	if warnings == nil {
		warnings = []service.ReconciliationWarning{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"voucherId": res.Voucher.ID,
		"warnings":  warnings,
	})
}

// List returns vouchers filtered by type, party and date range, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	var txType pgtype.Text
	if s := firstNonEmpty(r.URL.Query().Get("type"), r.URL.Query().Get("transaction_type")); s != "" {
		if !enum.IsTransactionType(s) {
			writeError(w, http.StatusBadRequest, codeValidation, fmt.Sprintf("unknown transaction type %q", s))
			return
		}
		txType = pgtype.Text{String: s, Valid: true}
	}
	partyID, err := queryUUID(r, "party_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	start, err := queryDate(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	rows, err := h.store.ListVouchers(r.Context(), database.ListVouchersParams{
		Limit:           limit,
		Offset:          offset,
		TransactionType: txType,
		PartyID:         partyID,
		StartDate:       start,
		EndDate:         end,
	})
	if err != nil {
		writeInternal(w, "list vouchers", err)
		return
	}

	resp := make([]voucherResponse, len(rows))
	for i, row := range rows {
		resp[i] = toVoucherView(database.GetVoucherViewRow(row))
	}
	writeData(w, http.StatusOK, resp)
}

// Get returns one voucher with its line items and party/account names.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := voucherID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	row, err := h.store.GetVoucherView(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("voucher %d not found", id))
			return
		}
		writeInternal(w, "get voucher", err)
		return
	}
	details, err := h.store.ListVoucherDetails(r.Context(), id)
	if err != nil {
		writeInternal(w, "list voucher details", err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"voucher": toVoucherView(row),
		"items":   toDetailResponses(details),
	})
}

// PutPDF stores the request body as the voucher's PDF.
func (h *TransactionHandler) PutPDF(w http.ResponseWriter, r *http.Request) {
	id, err := voucherID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	if _, err := h.store.GetVoucher(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("voucher %d not found", id))
			return
		}
		writeInternal(w, "get voucher", err)
		return
	}

	body := bufio.NewReader(http.MaxBytesReader(w, r.Body, maxPDFSize))
	magic, err := body.Peek(4)
	if err != nil || !bytes.Equal(magic, []byte("%PDF")) {
		writeError(w, http.StatusBadRequest, codeValidation, "body must be a PDF document")
		return
	}

	key := pdfKey(id)
	if err := h.docs.Put(r.Context(), key, body, "application/pdf"); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeValidation, "PDF exceeds 10 MiB")
			return
		}
		writeInternal(w, "store pdf", err)
		return
	}

	n, err := h.store.SetVoucherPdfPath(r.Context(), database.SetVoucherPdfPathParams{
		ID:      id,
		PdfPath: pgtype.Text{String: key, Valid: true},
	})
	if err != nil {
		writeInternal(w, "set pdf path", err)
		return
	}
	if n == 0 {
		// deleted while uploading
		h.docs.Delete(r.Context(), key) //nolint:errcheck
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("voucher %d not found", id))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "voucherId": id, "pdf_path": key})
}

// GetPDF streams the voucher's stored PDF.
func (h *TransactionHandler) GetPDF(w http.ResponseWriter, r *http.Request) {
	id, err := voucherID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	v, err := h.store.GetVoucher(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("voucher %d not found", id))
			return
		}
		writeInternal(w, "get voucher", err)
		return
	}
	if !v.PdfPath.Valid {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("voucher %d has no PDF", id))
		return
	}

	rc, err := h.docs.Get(r.Context(), v.PdfPath.String)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("voucher %d has no PDF", id))
			return
		}
		writeInternal(w, "read pdf", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", v.VchNo+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logrus.WithError(err).WithField("voucher_id", id).Warn("stream pdf")
	}
}
