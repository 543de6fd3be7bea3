package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// AccountStore defines the database methods needed by account handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AccountStore interface {
	ListAccounts(ctx context.Context, arg database.ListAccountsParams) ([]database.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (database.Account, error)
	CreateAccount(ctx context.Context, arg database.CreateAccountParams) (database.Account, error)
	UpdateAccount(ctx context.Context, arg database.UpdateAccountParams) (database.Account, error)
	SoftDeleteAccount(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// AccountHandler handles party and ledger account CRUD endpoints.
type AccountHandler struct {
	store       AccountStore
	phoneRegion string
}

// NewAccountHandler creates a new AccountHandler. phoneRegion is the
// ISO 3166 region used for numbers written without a country code.
func NewAccountHandler(store AccountStore, phoneRegion string) *AccountHandler {
	return &AccountHandler{store: store, phoneRegion: strings.ToUpper(phoneRegion)}
}

func (h *AccountHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/accounts", h.List)
	r.Get("/accounts/{id}", h.Get)
}

func (h *AccountHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/accounts", h.Create)
	r.Put("/accounts/{id}", h.Update)
}

func (h *AccountHandler) RegisterDeleteRoutes(r chi.Router) {
	r.Delete("/accounts/{id}", h.Delete)
}

// --- Request / Response types ---

type accountRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	AccountType string `json:"account_type" validate:"required,oneof=CUSTOMER SUPPLIER STAFF LEDGER"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Email       string `json:"email" validate:"omitempty,email"`
	Gstin       string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	Address     string `json:"address" validate:"max=500"`
}

type accountResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	AccountType  string          `json:"account_type"`
	Phone        *string         `json:"phone"`
	Email        *string         `json:"email"`
	Gstin        *string         `json:"gstin"`
	Address      *string         `json:"address"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
	Score        *int32          `json:"score"`
	ScoreTier    *string         `json:"score_tier"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toAccountResponse(a database.Account) accountResponse {
	resp := accountResponse{
		ID:           a.ID,
		Name:         a.Name,
		AccountType:  a.AccountType,
		Phone:        textPtr(a.Phone),
		Email:        textPtr(a.Email),
		Gstin:        textPtr(a.Gstin),
		Address:      textPtr(a.Address),
		UnpaidAmount: a.UnpaidAmount,
		ScoreTier:    textPtr(a.ScoreTier),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.Score.Valid {
		resp.Score = &a.Score.Int32
	}
	return resp
}

// normalizePhone returns the number in E.164 form, or an empty string for
// an empty input.
func normalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("phone %q: %w", raw, err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("phone %q is not a valid number", raw)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// parse validates the body and normalises its fields. On failure it has
// already written the 400 response.
func (h *AccountHandler) parse(w http.ResponseWriter, r *http.Request) (accountRequest, bool) {
	var req accountRequest
	if !decodeAndValidate(w, r, &req) {
		return req, false
	}
	phone, err := normalizePhone(req.Phone, h.phoneRegion)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return req, false
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = phone
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Gstin = strings.ToUpper(strings.TrimSpace(req.Gstin))
	return req, true
}

func accountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid account ID")
		return uuid.Nil, false
	}
	return id, true
}

// --- Handlers ---

// List returns active accounts, optionally filtered by type and a name or
// phone search.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	var accountType pgtype.Text
	if s := strings.ToUpper(r.URL.Query().Get("type")); s != "" {
		switch s {
		case enum.AccountTypeCustomer, enum.AccountTypeSupplier, enum.AccountTypeStaff, enum.AccountTypeLedger:
		default:
			writeError(w, http.StatusBadRequest, codeValidation, fmt.Sprintf("unknown account type %q", s))
			return
		}
		accountType = pgtype.Text{String: s, Valid: true}
	}

	accounts, err := h.store.ListAccounts(r.Context(), database.ListAccountsParams{
		Limit:       limit,
		Offset:      offset,
		AccountType: accountType,
		Search:      optText(r.URL.Query().Get("search")),
	})
	if err != nil {
		writeInternal(w, "list accounts", err)
		return
	}

	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toAccountResponse(a)
	}
	writeData(w, http.StatusOK, resp)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	a, err := h.store.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "account not found")
			return
		}
		writeInternal(w, "get account", err)
		return
	}
	writeData(w, http.StatusOK, toAccountResponse(a))
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}

	a, err := h.store.CreateAccount(r.Context(), database.CreateAccountParams{
		Name:        req.Name,
		AccountType: req.AccountType,
		Phone:       optText(req.Phone),
		Email:       optText(req.Email),
		Gstin:       optText(req.Gstin),
		Address:     optText(req.Address),
	})
	if err != nil {
		writeInternal(w, "create account", err)
		return
	}
	writeData(w, http.StatusCreated, toAccountResponse(a))
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	req, ok := h.parse(w, r)
	if !ok {
		return
	}

	a, err := h.store.UpdateAccount(r.Context(), database.UpdateAccountParams{
		ID:          id,
		Name:        req.Name,
		AccountType: req.AccountType,
		Phone:       optText(req.Phone),
		Email:       optText(req.Email),
		Gstin:       optText(req.Gstin),
		Address:     optText(req.Address),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "account not found")
			return
		}
		writeInternal(w, "update account", err)
		return
	}
	writeData(w, http.StatusOK, toAccountResponse(a))
}

// Delete deactivates the account. Vouchers keep referring to it.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	if _, err := h.store.SoftDeleteAccount(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "account not found")
			return
		}
		writeInternal(w, "delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
