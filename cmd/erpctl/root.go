package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/erp-core/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-core/internal/infrastructure/txretry"
	"github.com/jhoicas/erp-core/pkg/config"
	"github.com/jhoicas/erp-core/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "erpctl",
	Short: "Herramientas operativas del motor contable",
	Long: `erpctl opera directamente sobre la base PostgreSQL configurada
(DATABASE_URL o DB_HOST/DB_PORT/...): aplica migraciones y
consulta balance de sumas y saldos o stock de un artículo.`,
	SilenceUsage: true,
}

// env agrupa lo que necesitan los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("erpctl")
	return cfg, log, nil
}

// openStore abre el pool y devuelve el store con reintentos; close libera el pool.
func openStore(ctx context.Context) (*env, *txretry.Store, error) {
	cfg, log, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Store.Driver != config.DriverPostgres {
		return nil, nil, fmt.Errorf("erpctl requiere STORE_DRIVER=postgres (actual %q)", cfg.Store.Driver)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	store := txretry.New(postgres.NewStore(pool, cfg.Store.TxTimeout),
		txretry.WithMaxRetries(cfg.Store.MaxRetries),
		txretry.WithLogger(log),
	)
	return &env{cfg: cfg, log: log, pool: pool}, store, nil
}

func (e *env) close() { e.pool.Close() }
