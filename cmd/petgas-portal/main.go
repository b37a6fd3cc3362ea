// Command petgas-portal runs the Petgas client portal and admin API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/petgasmx/petgas-portal/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *migrateOnly {
		if err := app.Migrate(ctx, *configPath); err != nil {
			log.WithError(err).Fatal("migrate failed")
		}
		log.Info("migrations applied")
		os.Exit(0)
	}

	if err := app.RunServer(ctx, *configPath); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
