package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/batchledger/api/internal/config"
	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Ledger accounts every installation starts with.
var defaultLedgers = []string{"Sales Account", "Purchase Account", "Cash", "Bank"}

func main() {
	// CLI flags
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	name := flag.String("name", "", "Admin full name")
	flag.Parse()

	cfg := config.Load()
	log := config.SetupLogger(cfg)

	// Fall back to environment variables, then defaults
	*email = firstSet(*email, os.Getenv("SEED_EMAIL"), "admin@batchledger.local")
	*name = firstSet(*name, os.Getenv("SEED_NAME"), "Administrator")
	*password = firstSet(*password, os.Getenv("SEED_PASSWORD"))
	if *password == "" {
		*password = "password123"
		log.Warn("using default password 'password123'; change it immediately in production")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.WithError(err).Fatal("ping database")
	}

	// Seed in a transaction: the admin and the ledgers or nothing
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.WithError(err).Fatal("begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	q := database.New(tx)
	userID, err := seedAdmin(ctx, q, log, strings.ToLower(strings.TrimSpace(*email)), *password, *name)
	if err != nil {
		log.WithError(err).Fatal("seed admin")
	}
	if err := seedLedgers(ctx, q, log); err != nil {
		log.WithError(err).Fatal("seed ledger accounts")
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithError(err).Fatal("commit")
	}
	log.WithField("user_id", userID).Info("seed completed")
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// seedAdmin creates the ADMIN user if the email is not taken yet.
func seedAdmin(ctx context.Context, q *database.Queries, log logrus.FieldLogger, email, password, fullName string) (uuid.UUID, error) {
	existing, err := q.GetUserByEmail(ctx, email)
	if err == nil {
		log.WithField("email", email).Info("admin already exists, skipping")
		return existing.ID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("check user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := q.CreateUser(ctx, database.CreateUserParams{
		Email:          email,
		HashedPassword: string(hashed),
		FullName:       fullName,
		Role:           enum.UserRoleAdmin,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert user: %w", err)
	}
	log.WithField("email", email).Info("created admin user")
	return user.ID, nil
}

// seedLedgers creates the default LEDGER accounts that are missing.
func seedLedgers(ctx context.Context, q *database.Queries, log logrus.FieldLogger) error {
	for _, name := range defaultLedgers {
		found, err := q.ListAccounts(ctx, database.ListAccountsParams{
			Limit:       200,
			AccountType: pgtype.Text{String: enum.AccountTypeLedger, Valid: true},
			Search:      pgtype.Text{String: name, Valid: true},
		})
		if err != nil {
			return fmt.Errorf("check ledger %q: %w", name, err)
		}
		if hasAccount(found, name) {
			continue
		}
		if _, err := q.CreateAccount(ctx, database.CreateAccountParams{
			Name:        name,
			AccountType: enum.AccountTypeLedger,
		}); err != nil {
			return fmt.Errorf("insert ledger %q: %w", name, err)
		}
		log.WithField("name", name).Info("created ledger account")
	}
	return nil
}

func hasAccount(accounts []database.Account, name string) bool {
	for _, a := range accounts {
		if strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}
