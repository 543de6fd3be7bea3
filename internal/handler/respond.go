package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/batchledger/api/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Error codes carried in the "code" field of error responses.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeQuantityExceeded = "QUANTITY_EXCEEDS_REFERENCE"
	codeNotFound         = "NOT_FOUND"
	codeInsufficient     = "INSUFFICIENT_STOCK"
	codeConflict         = "CONFLICT"
	codeUnauthorized     = "UNAUTHORIZED"
	codeInternal         = "INTERNAL_ERROR"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Message: message, Code: code})
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

// writeServiceError maps service errors onto the error envelope. Anything
// unrecognised is logged and reported as a 500 without internal detail.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var qe *service.QuantityExceededError
	var ise *service.InsufficientStockError
	switch {
	case errors.As(err, &qe):
		writeError(w, http.StatusBadRequest, codeQuantityExceeded, qe.Error())
	case errors.As(err, &ise):
		writeError(w, http.StatusConflict, codeInsufficient, ise.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		writeError(w, http.StatusConflict, codeInsufficient, err.Error())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	default:
		logrus.WithError(err).WithField("op", op).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: "internal server error",
			Code:    codeInternal,
			Error:   op + " failed",
		})
	}
}

func writeInternal(w http.ResponseWriter, op string, err error) {
	writeServiceError(w, op, fmt.Errorf("%s: %w", op, err))
}

// decodeAndValidate reads a JSON body into v and runs its validate tags.
// On failure it has already written the 400 response.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, validationMessage(err))
		return false
	}
	return true
}

// validationMessage describes the first failing field.
func validationMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err.Error()
	}
	fe := ves[0]
	field := fe.Field()
	// keep the path for list elements, e.g. items[0].product_id
	if ns := fe.Namespace(); strings.Contains(ns, "[") {
		field = ns[strings.Index(ns, ".")+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "uuid":
		return field + " must be a UUID"
	case "email":
		return field + " must be an email address"
	case "datetime":
		return field + " must be a date (YYYY-MM-DD)"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %q", field, fe.Tag())
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Parameter helpers ---

func pagination(r *http.Request) (limit, offset int32) {
	l := defaultPageSize
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			l = min(v, maxPageSize)
		}
	}
	o := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			o = min(v, math.MaxInt32)
		}
	}
	return int32(l), int32(o)
}

func queryDate(r *http.Request, key string) (pgtype.Date, error) {
	d, err := parseDate(r.URL.Query().Get(key))
	if err != nil {
		return pgtype.Date{}, fmt.Errorf("%s must be a date (YYYY-MM-DD)", key)
	}
	return d, nil
}

// parseDate returns an invalid (NULL) date for an empty string.
func parseDate(s string) (pgtype.Date, error) {
	if s == "" {
		return pgtype.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return pgtype.Date{}, err
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func queryUUID(r *http.Request, key string) (pgtype.UUID, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return pgtype.UUID{}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%s must be a UUID", key)
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

func optText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	return pgtype.Text{String: s, Valid: s != ""}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func uuidPtr(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

func datePtr(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format(dateLayout)
	return &s
}
