package main

import (
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/diillson/bigrivercalc-go/internal/adapter/driven/aws"
	"github.com/diillson/bigrivercalc-go/internal/adapter/driven/config"
	"github.com/diillson/bigrivercalc-go/internal/adapter/driven/logging"
	"github.com/diillson/bigrivercalc-go/internal/adapter/driving/lambda"
	"github.com/diillson/bigrivercalc-go/internal/application/usecase"
	"github.com/diillson/bigrivercalc-go/internal/clock"
	"github.com/diillson/bigrivercalc-go/pkg/version"
)

func main() {
	// Configuração vem de BIGRIVER_CONFIG (opcional) e das variáveis BIGRIVER_*.
	cfg, err := config.Load(config.NewConfigRepository(), "")
	if err != nil {
		logging.New("", nil).LogError("failed to load configuration: %v", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, os.Stderr).With("version", version.FormatVersion())

	// Cada invocação ganha um repositório novo; nada de estado entre eventos.
	newService := func() lambda.BillingService {
		awsRepo := aws.NewAWSRepository(aws.Options{Profile: cfg.Profile, Region: cfg.Region})
		return usecase.NewBillingUseCase(awsRepo, logger)
	}

	handler := lambda.NewHandler(newService, clock.RealClock{}, logger)
	awslambda.Start(handler.Handle)
}
