package router

import (
	"net/http"

	"github.com/batchledger/api/internal/config"
	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/batchledger/api/internal/handler"
	mw "github.com/batchledger/api/internal/middleware"
	"github.com/batchledger/api/internal/service"
	"github.com/batchledger/api/internal/storage"
	"github.com/batchledger/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Deps holds everything the router needs to build its handlers.
type Deps struct {
	Config   *config.Config
	Queries  *database.Queries
	Pool     service.TxBeginner
	Vouchers handler.VoucherService
	Docs     storage.DocumentStore
	Hub      *ws.Hub
}

// New creates a Chi router with all application routes wired up.
// Reads are open to every authenticated role, writes need ADMIN or
// ACCOUNTANT and deletes need ADMIN.
func New(d Deps) chi.Router {
	cfg := d.Config
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	authHandler := handler.NewAuthHandler(d.Queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	if d.Hub != nil {
		r.Get("/ws/events", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWS(d.Hub, cfg.JWTSecret, w, r)
		})
	}

	transactionHandler := handler.NewTransactionHandler(d.Vouchers, d.Queries, d.Docs)
	accountHandler := handler.NewAccountHandler(d.Queries, cfg.PhoneRegion)
	productHandler := handler.NewProductHandler(d.Queries, d.Pool, func(db database.DBTX) handler.ProductStore {
		return database.New(db)
	})
	ledgerHandler := handler.NewLedgerHandler(d.Queries)
	reportsHandler := handler.NewReportsHandler(d.Queries)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		transactionHandler.RegisterReadRoutes(r)
		accountHandler.RegisterReadRoutes(r)
		productHandler.RegisterReadRoutes(r)
		ledgerHandler.RegisterRoutes(r)
		reportsHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleAccountant))
			transactionHandler.RegisterWriteRoutes(r)
			accountHandler.RegisterWriteRoutes(r)
			productHandler.RegisterWriteRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))
			transactionHandler.RegisterDeleteRoutes(r)
			accountHandler.RegisterDeleteRoutes(r)
			productHandler.RegisterDeleteRoutes(r)
		})
	})

	logrus.Info("router initialized")
	return r
}
