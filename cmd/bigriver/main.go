package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/diillson/bigrivercalc-go/internal/adapter/driven/aws"
	"github.com/diillson/bigrivercalc-go/internal/adapter/driven/config"
	"github.com/diillson/bigrivercalc-go/internal/adapter/driven/export"
	"github.com/diillson/bigrivercalc-go/internal/adapter/driving/cli"
	"github.com/diillson/bigrivercalc-go/internal/application/usecase"
	"github.com/diillson/bigrivercalc-go/internal/clock"
	"github.com/diillson/bigrivercalc-go/internal/shared/types"
	"github.com/diillson/bigrivercalc-go/pkg/console"
	"golang.org/x/term"
)

func main() {
	consoleImpl := console.NewConsole(console.Options{
		LogLevel:    os.Getenv(types.EnvLogLevel),
		Interactive: term.IsTerminal(int(os.Stderr.Fd())),
	})

	app := cli.NewCLIApp(cli.Dependencies{
		NewService: func(cfg *types.Config) cli.BillingService {
			awsRepo := aws.NewAWSRepository(aws.Options{Profile: cfg.Profile, Region: cfg.Region})
			return usecase.NewBillingUseCase(awsRepo, consoleImpl)
		},
		ConfigRepo: config.NewConfigRepository(),
		ExportRepo: export.NewExportRepository(clock.RealClock{}),
		Console:    consoleImpl,
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.ExecuteContext(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
