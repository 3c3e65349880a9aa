package app

import (
	"context"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/andy/beatbooks/internal/config"
	"github.com/andy/beatbooks/internal/crypto"
	"github.com/andy/beatbooks/internal/db"
	"github.com/andy/beatbooks/internal/logger"
	"github.com/andy/beatbooks/internal/render"
	"github.com/andy/beatbooks/internal/repository"
	"github.com/andy/beatbooks/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB

	// Repositories
	ProductRepo repository.ProductRepository
	ClientRepo  repository.ClientRepository
	InvoiceRepo repository.InvoiceRepository
	TxRepo      repository.TransactionRepository
	GoalRepo    repository.GoalRepository

	// Services
	CatalogService service.CatalogService
	InvoiceService service.InvoiceService
	LedgerService  service.LedgerService
	GoalService    service.GoalService
	StatsService   service.StatsService

	// PDF renderer, disabled when no Gotenberg URL is configured
	Renderer *render.Renderer
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config and setting up logging
// 2. Getting encryption key from keyring
// 3. Opening database
// 4. Running migrations
// 5. Creating repositories and services
// 6. Seeding the default product catalog
func New(ctx context.Context) (*App, error) {
	// Load config from default path
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	// Logging goes to a file by default so the TUI keeps the terminal
	if err := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	// Get keyring for secure password storage
	keyring := crypto.NewKeyring()

	// Try to get existing encryption key
	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		// Store the key in keyring
		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	// Open the database with encryption
	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create repositories
	productRepo := repository.NewProductRepo(database)
	clientRepo := repository.NewClientRepo(database)
	invoiceRepo := repository.NewInvoiceRepo(database)
	txRepo := repository.NewTransactionRepo(database)
	goalRepo := repository.NewGoalRepo(database)

	// Create services; the ledger doubles as the invoice lifecycle's sync target
	ledgerService := service.NewLedgerService(txRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, productRepo, clientRepo, ledgerService, cfg.Invoice.NumberPrefix)
	catalogService := service.NewCatalogService(productRepo)
	goalService := service.NewGoalService(goalRepo, txRepo)
	statsService := service.NewStatsService(invoiceRepo, txRepo)

	// Seed the default catalog on a fresh database
	if err := catalogService.EnsureDefaults(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to seed product catalog: %w", err)
	}

	renderer := render.NewRenderer(cfg.Renderer, cfg.Business, cfg.Invoice.OutputDir)

	return &App{
		Config:         cfg,
		DB:             database,
		ProductRepo:    productRepo,
		ClientRepo:     clientRepo,
		InvoiceRepo:    invoiceRepo,
		TxRepo:         txRepo,
		GoalRepo:       goalRepo,
		CatalogService: catalogService,
		InvoiceService: invoiceService,
		LedgerService:  ledgerService,
		GoalService:    goalService,
		StatsService:   statsService,
		Renderer:       renderer,
	}, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your bookkeeping data will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	// Confirm password
	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
