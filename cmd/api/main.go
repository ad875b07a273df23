package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/erp-core/internal/application/accounting"
	"github.com/jhoicas/erp-core/internal/application/billing"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/internal/application/treasury"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/erp-core/internal/infrastructure/pdf"
	"github.com/jhoicas/erp-core/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-core/internal/infrastructure/txretry"
	httpRouter "github.com/jhoicas/erp-core/internal/interfaces/http"
	"github.com/jhoicas/erp-core/pkg/config"
	"github.com/jhoicas/erp-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var base repository.Store
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("store en memoria: los datos no se persisten")
		base = memory.NewStore()
	default:
		if cfg.Store.MigrateOnStart {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), postgres.MigrateUp); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		base = postgres.NewStore(pool, cfg.Store.TxTimeout)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := txretry.New(base,
		txretry.WithMaxRetries(cfg.Store.MaxRetries),
		txretry.WithMetrics(txretry.NewMetrics(reg)),
		txretry.WithLogger(log),
	)
	repos := store.Repos()

	stockUC := inventory.NewStockUseCase(store)
	billingDefaults := billing.Defaults{
		TaxRate:  cfg.Billing.DefaultTaxRate,
		Currency: cfg.Billing.DefaultCurrency,
		DueDays:  cfg.Billing.DueDays,
	}

	// PDF: representación gráfica de la factura
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.Issuer{
		Name:  cfg.App.Name,
		TaxID: cfg.Billing.IssuerTaxID,
	})

	app := httpRouter.NewApp(cfg.App.Name, httpRouter.RouterDeps{
		Accounts:    accounting.NewAccountUseCase(store),
		Journal:     accounting.NewJournalUseCase(store),
		Products:    inventory.NewProductUseCase(repos.Products),
		Stock:       stockUC,
		Sales:       sales.NewSaleUseCase(store, stockUC, cfg.Billing.DefaultCurrency),
		Customers:   billing.NewCustomerUseCase(repos.Customers),
		Invoices:    billing.NewInvoiceUseCase(store, billingDefaults),
		Collections: billing.NewCollectionUseCase(store),
		CreditNotes: billing.NewCreditNoteUseCase(store),
		InvoicePDF:  billing.NewPDFUseCase(store, pdfGenerator),
		Vendors:     treasury.NewVendorUseCase(repos.Vendors),
		BankAccount: treasury.NewBankAccountUseCase(repos.BankAccounts, cfg.Billing.DefaultCurrency),
		Payments:    treasury.NewPaymentUseCase(store),
		Gatherer:    reg,
		Logger:      log.Component("http").Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
