package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/gcp-flowlog-audit/internal/adapter/driven/config"
	"github.com/diillson/gcp-flowlog-audit/internal/adapter/driven/export"
	"github.com/diillson/gcp-flowlog-audit/internal/adapter/driven/gcp"
	"github.com/diillson/gcp-flowlog-audit/internal/adapter/driving/cli"
	"github.com/diillson/gcp-flowlog-audit/internal/application/usecase"
	"github.com/diillson/gcp-flowlog-audit/pkg/console"
	"github.com/diillson/gcp-flowlog-audit/pkg/logs"
	"github.com/diillson/gcp-flowlog-audit/pkg/version"
)

func main() {
	// Ctrl-C cancela a chamada em andamento
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	logger := logs.ConsoleLogger()
	gcpRepo := gcp.NewGCPRepository(logger)
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	auditUseCase := usecase.NewAuditUseCase(
		gcpRepo,
		exportRepo,
		configRepo,
		consoleImpl,
		logger,
	)

	app.SetAuditUseCase(auditUseCase)

	if err := app.Execute(ctx); err != nil {
		consoleImpl.LogError("%v", err)
		stop()
		os.Exit(1)
	}
}
