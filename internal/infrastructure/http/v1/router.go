package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"ledgerbook/internal/domain/auth"
	"ledgerbook/internal/domain/catalogs/customer"
	"ledgerbook/internal/domain/catalogs/godown"
	"ledgerbook/internal/domain/catalogs/item"
	"ledgerbook/internal/domain/catalogs/supplier"
	"ledgerbook/internal/domain/catalogs/tax"
	"ledgerbook/internal/domain/catalogs/unit"
	"ledgerbook/internal/domain/documents/purchase"
	"ledgerbook/internal/domain/documents/quotation"
	"ledgerbook/internal/domain/documents/sale"
	"ledgerbook/internal/domain/inventory"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/payments"
	"ledgerbook/internal/domain/reports"
	"ledgerbook/internal/domain/settings"
	"ledgerbook/internal/infrastructure/http/v1/handlers"
	"ledgerbook/internal/infrastructure/http/v1/middleware"
	"ledgerbook/internal/infrastructure/storage/postgres"
	"ledgerbook/internal/infrastructure/storage/postgres/auth_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/catalog_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/document_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/ledger_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/payment_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/report_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/serial_repo"
	"ledgerbook/internal/infrastructure/storage/postgres/settings_repo"
	"ledgerbook/pkg/logger"
	"ledgerbook/pkg/numerator"
)

// RouterConfig holds everything the router needs to build the API.
type RouterConfig struct {
	// Pool is the database connection pool, used for readiness checks.
	Pool *pgxpool.Pool

	// TxManager provides transactional access for all repositories.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// JWTService issues and validates access tokens.
	JWTService *auth.JWTService

	// Version is reported on /health/info.
	Version string
}

// NewRouter builds the Gin router with all routes wired.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware, order matters.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	deps, err := buildDependencies(cfg)
	if err != nil {
		return nil, err
	}

	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, deps)

		protected := api.Group("")
		protected.Use(middleware.Auth(deps.jwtService))

		registerCatalogRoutes(protected, deps)
		registerDocumentRoutes(protected, deps)
		registerLedgerRoutes(protected, deps)
		registerInventoryRoutes(protected, deps)
		registerPaymentRoutes(protected, deps)
		registerReportRoutes(protected, deps)
		registerSettingsRoutes(protected, deps)
		registerAuditRoutes(protected, deps)
	}

	return router, nil
}

// dependencies is the wired object graph shared by all route groups.
type dependencies struct {
	base       *handlers.BaseHandler
	jwtService *auth.JWTService

	items     *item.Service
	customers *customer.Service
	suppliers *supplier.Service
	godowns   *godown.Service
	units     *unit.Service
	taxes     *tax.Service

	engine     *ledger.Engine
	serials    *inventory.Service
	purchases  *purchase.Service
	sales      *sale.Service
	quotations *quotation.Service
	payments   *payments.Service
	reports    *reports.Service
	settings   *settings.Service
	auth       *auth.Service
	audit      *postgres.AuditService
}

// buildDependencies wires repositories and services once at startup.
// Every repository shares the TxManager, so services that span several
// repositories run each operation in one transaction.
func buildDependencies(cfg RouterConfig) (*dependencies, error) {
	txm := cfg.TxManager
	gen := numerator.New(postgres.NewNumeratorQuerier(txm))

	auditService, err := postgres.NewAuditService(txm)
	if err != nil {
		return nil, err
	}

	itemRepo := catalog_repo.NewItemRepo(txm)
	customerRepo := catalog_repo.NewCustomerRepo(txm)
	supplierRepo := catalog_repo.NewSupplierRepo(txm)
	godownRepo := catalog_repo.NewGodownRepo(txm)
	unitRepo := catalog_repo.NewUnitRepo(txm)
	taxRepo := catalog_repo.NewTaxRepo(txm)

	serialRepo := serial_repo.NewRepo(txm)
	purchaseRepo := document_repo.NewPurchaseRepo(txm)
	saleRepo := document_repo.NewSaleRepo(txm)
	quotationRepo := document_repo.NewQuotationRepo(txm)
	ledgerRepo := ledger_repo.NewRepo(txm)
	paymentRepo := payment_repo.NewRepo(txm)
	reportRepo := report_repo.NewRepo(txm)
	settingsRepo := settings_repo.NewRepo(txm)
	userRepo := auth_repo.NewUserRepo(txm)
	tokenRepo := auth_repo.NewTokenRepo(txm)

	settingsService := settings.NewService(settingsRepo, txm)
	engine := ledger.NewEngine(ledgerRepo, txm)

	unitService := unit.NewService(unitRepo, txm)
	itemService := item.NewService(itemRepo, gen, txm)
	customerService := customer.NewService(customerRepo, gen, txm)
	supplierService := supplier.NewService(supplierRepo, gen, txm)
	godownService := godown.NewService(godownRepo, txm)
	taxService := tax.NewService(taxRepo, txm)

	inventoryService := inventory.NewService(serialRepo, itemRepo, engine, gen, txm)
	purchaseService := purchase.NewService(
		purchaseRepo, engine, serialRepo, itemRepo, unitService, settingsService, gen, txm)
	saleService := sale.NewService(
		saleRepo, engine, serialRepo, itemRepo, unitService, settingsService, gen, txm)
	quotationService := quotation.NewService(
		quotationRepo, saleService, customerRepo, itemRepo, taxRepo, settingsService, gen, txm)
	paymentService := payments.NewService(paymentRepo, saleRepo, purchaseRepo, engine, txm)
	reportService := reports.NewService(reportRepo, settingsService)

	authService := auth.NewService(userRepo, tokenRepo, txm, cfg.JWTService, auth.DefaultServiceConfig())

	return &dependencies{
		base:       handlers.NewBaseHandler(),
		jwtService: cfg.JWTService,
		items:      itemService,
		customers:  customerService,
		suppliers:  supplierService,
		godowns:    godownService,
		units:      unitService,
		taxes:      taxService,
		engine:     engine,
		serials:    inventoryService,
		purchases:  purchaseService,
		sales:      saleService,
		quotations: quotationService,
		payments:   paymentService,
		reports:    reportService,
		settings:   settingsService,
		auth:       authService,
		audit:      auditService,
	}, nil
}

func registerAuthRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewAuthHandler(deps.base, deps.auth)

	public := rg.Group("/auth")
	public.POST("/login", handler.Login)
	public.POST("/refresh", handler.Refresh)

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(deps.jwtService))
	protected.POST("/logout", handler.Logout)
	protected.GET("/me", handler.Me)

	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/register", handler.Register)
	admin.GET("/users", handler.ListUsers)
}

func registerCatalogRoutes(rg *gin.RouterGroup, deps *dependencies) {
	catalogs := rg.Group("/catalog")

	itemHandler := handlers.NewItemHandler(deps.base, deps.items)
	itemsGroup := catalogs.Group("/items")
	itemsGroup.GET("/categories", itemHandler.Categories)
	RegisterCatalogRoutes(itemsGroup, itemHandler)

	customerHandler := handlers.NewCatalogHandler[*customer.Customer](
		deps.base, deps.customers, func() *customer.Customer { return &customer.Customer{} })
	RegisterCatalogRoutes(catalogs.Group("/customers"), customerHandler)

	supplierHandler := handlers.NewCatalogHandler[*supplier.Supplier](
		deps.base, deps.suppliers, func() *supplier.Supplier { return &supplier.Supplier{} })
	RegisterCatalogRoutes(catalogs.Group("/suppliers"), supplierHandler)

	godownHandler := handlers.NewCatalogHandler[*godown.Godown](
		deps.base, deps.godowns, func() *godown.Godown { return &godown.Godown{} })
	RegisterCatalogRoutes(catalogs.Group("/godowns"), godownHandler)

	unitHandler := handlers.NewUnitHandler(deps.base, deps.units)
	unitsGroup := catalogs.Group("/units")
	unitsGroup.GET("/compound", unitHandler.ListCompound)
	unitsGroup.POST("/compound", unitHandler.CreateCompound)
	unitsGroup.DELETE("/compound/:id", unitHandler.DeleteCompound)
	RegisterCatalogRoutes(unitsGroup, unitHandler)

	taxHandler := handlers.NewTaxHandler(deps.base, deps.taxes)
	taxGroup := catalogs.Group("/tax")
	taxGroup.GET("/slabs", taxHandler.ListSlabs)
	taxGroup.POST("/slabs", taxHandler.CreateSlab)
	taxGroup.GET("/slabs/:id", taxHandler.GetSlab)
	taxGroup.DELETE("/slabs/:id", taxHandler.DeleteSlab)
	taxGroup.GET("/hsn", taxHandler.ListHSN)
	taxGroup.POST("/hsn", taxHandler.CreateHSN)
	taxGroup.GET("/hsn/:id", taxHandler.GetHSN)
	taxGroup.PUT("/hsn/:id", taxHandler.UpdateHSN)
	taxGroup.DELETE("/hsn/:id", taxHandler.DeleteHSN)
}

func registerDocumentRoutes(rg *gin.RouterGroup, deps *dependencies) {
	docs := rg.Group("/document")

	purchaseHandler := handlers.NewPurchaseHandler(deps.base, deps.purchases, deps.audit)
	purchaseGroup := docs.Group("/purchase-invoices")
	purchaseGroup.GET("", purchaseHandler.List)
	purchaseGroup.POST("", purchaseHandler.Create)
	purchaseGroup.GET("/unpaid", purchaseHandler.Unpaid)
	purchaseGroup.GET("/:id", purchaseHandler.Get)

	saleHandler := handlers.NewSaleHandler(deps.base, deps.sales, deps.audit)
	saleGroup := docs.Group("/sales-invoices")
	saleGroup.GET("", saleHandler.List)
	saleGroup.POST("", saleHandler.Create)
	saleGroup.GET("/unpaid", saleHandler.Unpaid)
	saleGroup.GET("/:id", saleHandler.Get)

	quotationHandler := handlers.NewQuotationHandler(deps.base, deps.quotations)
	quotationGroup := docs.Group("/quotations")
	quotationGroup.GET("", quotationHandler.List)
	quotationGroup.POST("", quotationHandler.Create)
	quotationGroup.GET("/:id", quotationHandler.Get)
	quotationGroup.POST("/:id/convert", quotationHandler.Convert)
}

func registerLedgerRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewLedgerHandler(deps.base, deps.engine)

	group := rg.Group("/ledger")
	group.GET("/accounts", handler.ListAccounts)
	group.POST("/accounts", handler.CreateAccount)
	group.GET("/accounts/:id", handler.GetAccount)
	group.GET("/transactions", handler.ListTransactions)
	group.POST("/transactions", handler.Post)
	group.GET("/transactions/:id", handler.GetTransaction)
	group.GET("/reconciliation/unreconciled", handler.UnreconciledCash)
	group.POST("/reconciliation", handler.Reconcile)
}

func registerInventoryRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewInventoryHandler(deps.base, deps.serials)

	group := rg.Group("/inventory")
	group.GET("/serials", handler.Search)
	group.GET("/serials/available", handler.AvailableForItem)
	group.GET("/serials/by-number/:number", handler.GetByNumber)
	group.GET("/serials/:id", handler.Get)
	group.GET("/assemblies/components", handler.Components)
	group.POST("/assemblies", handler.Build)
}

func registerPaymentRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewPaymentHandler(deps.base, deps.payments, deps.audit)

	group := rg.Group("/payments")
	group.GET("", handler.List)
	group.POST("/customer", handler.CreateCustomer)
	group.POST("/supplier", handler.CreateSupplier)
	group.POST("/validate-allocations", handler.ValidateAllocations)
	group.GET("/open-invoices", handler.OpenInvoices)
	group.GET("/:id", handler.Get)
}

func registerReportRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewReportsHandler(deps.base, deps.reports)

	group := rg.Group("/reports")
	group.GET("/profit-loss", handler.ProfitAndLoss)
	group.GET("/balance-sheet", handler.BalanceSheet)
	group.GET("/gstr1", handler.GSTR1)
	group.GET("/gstr3b", handler.GSTR3B)
	group.GET("/account-statement/:partyId", handler.AccountStatement)
	group.GET("/expiring-warranties", handler.ExpiringWarranties)
	group.GET("/low-stock", handler.LowStock)
	group.GET("/category-stock", handler.CategoryStock)
}

func registerAuditRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewAuditHandler(deps.base, deps.audit)

	group := rg.Group("/audit")
	group.GET("/:entityType/:entityId", handler.History)
}

func registerSettingsRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewSettingsHandler(deps.base, deps.settings)

	group := rg.Group("/settings")
	group.GET("", handler.GetAll)
	group.PUT("", middleware.RequireAdmin(), handler.SetAll)
}
