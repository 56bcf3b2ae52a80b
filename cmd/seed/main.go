// Package main provides a CLI tool for seeding the database with
// initial data: chart of accounts, admin user, default settings and
// optional demo catalogs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/domain/auth"
	"ledgerbook/internal/domain/catalogs/godown"
	"ledgerbook/internal/domain/catalogs/tax"
	"ledgerbook/internal/domain/catalogs/unit"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/settings"
	"ledgerbook/internal/infrastructure/storage/postgres"
	"ledgerbook/internal/infrastructure/storage/postgres/auth_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/catalog_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/ledger_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/settings_repo"
	"ledgerbook/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	engine := ledger.NewEngine(ledger_repo.NewRepo(txManager), txManager)
	if err := engine.EnsureChart(ctx); err != nil {
		log.Fatalw("failed to seed chart of accounts", "error", err)
	}
	log.Info("chart of accounts ready")

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if err := seedSettings(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed settings", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoCatalogs(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo catalogs", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@ledgerbook.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("seed-only"))
	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	user, err := authService.Register(ctx, auth.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Administrator",
		IsAdmin:  true,
	})
	if err != nil {
		if isConflict(err) {
			log.Infow("admin user already exists", "email", email)
			return nil
		}
		return err
	}

	log.Infow("admin user created", "email", email, "user_id", user.ID)
	return nil
}

func seedSettings(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	service := settings.NewService(settings_repo.NewRepo(txManager), txManager)

	existing, err := service.GetAll(ctx)
	if err != nil {
		return err
	}

	defaults := map[string]string{
		settings.KeyCompanyName:           "My Company",
		settings.KeyCompanyState:          "Maharashtra",
		settings.KeyPrefixSalesInvoice:    "INV",
		settings.KeyPrefixPurchaseInvoice: "PUR",
		settings.KeyPrefixQuotation:       "QTN",
	}

	missing := make(map[string]string)
	for key, value := range defaults {
		if _, ok := existing[key]; !ok {
			missing[key] = value
		}
	}
	if len(missing) == 0 {
		log.Info("settings already seeded")
		return nil
	}

	if err := service.SetAll(ctx, missing); err != nil {
		return err
	}

	log.Infow("default settings seeded", "count", len(missing))
	return nil
}

func seedDemoCatalogs(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	unitService := unit.NewService(catalog_repo.NewUnitRepo(txManager), txManager)
	taxService := tax.NewService(catalog_repo.NewTaxRepo(txManager), txManager)
	godownService := godown.NewService(catalog_repo.NewGodownRepo(txManager), txManager)

	for _, name := range []string{"Pieces", "Box", "Kilogram"} {
		if err := unitService.Create(ctx, unit.NewUnit(name)); err != nil && !isConflict(err) {
			return fmt.Errorf("seed unit %s: %w", name, err)
		}
	}

	for _, rate := range []int64{0, 5, 12, 18, 28} {
		slab := tax.NewGSTSlab(decimal.NewFromInt(rate), fmt.Sprintf("GST %d%%", rate))
		if err := taxService.CreateSlab(ctx, slab); err != nil && !isConflict(err) {
			return fmt.Errorf("seed gst slab %d: %w", rate, err)
		}
	}

	main := godown.NewGodown("MAIN", "Main Godown")
	if err := godownService.Create(ctx, main); err != nil && !isConflict(err) {
		return fmt.Errorf("seed godown: %w", err)
	}

	log.Info("demo catalogs seeded")
	return nil
}

func isConflict(err error) bool {
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		return false
	}
	return appErr.Code == apperror.CodeConflict || appErr.Code == apperror.CodeDuplicate
}
