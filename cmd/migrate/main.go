// migrate aplica los scripts SQL embebidos (internal/infrastructure/postgres/migrations) que aún no
// figuran en schema_migrations.
//
// Uso: go run ./cmd/migrate [-list]
// Con -list solo muestra los scripts disponibles, sin conectarse a la base.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/marko-code-lab/noiddea/internal/infrastructure/postgres"
	"github.com/marko-code-lab/noiddea/pkg/config"
	"github.com/marko-code-lab/noiddea/pkg/logger"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "-list" {
		all, err := postgres.Migrations()
		if err != nil {
			fmt.Fprintf(os.Stderr, "leer migraciones: %v\n", err)
			os.Exit(1)
		}
		for _, m := range all {
			fmt.Println(m.Name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Error().Err(err).Strs("applied", applied).Msg("migración interrumpida")
		pool.Close()
		os.Exit(1)
	}
	if len(applied) == 0 {
		log.Info().Msg("la base ya está al día")
		return
	}
	log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
}
