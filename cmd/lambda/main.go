package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/app"
	"github.com/stemsi/exstem-grader/internal/config"
	"github.com/stemsi/exstem-grader/internal/lambdaproxy"
	"github.com/stemsi/exstem-grader/internal/logger"
	"github.com/stemsi/exstem-grader/internal/router"
	"github.com/stemsi/exstem-grader/internal/validator"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	// Store handles live for the whole execution environment and are reused
	// by every invocation it serves.
	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer application.Close()

	var h gin.HandlerFunc
	switch cfg.LambdaFunction {
	case config.FunctionSubmission:
		h = application.Handlers.Submission.Handle
	case config.FunctionIngestion:
		h = application.Handlers.Ingestion.Handle
	default:
		log.Fatal().Str("function", cfg.LambdaFunction).Msg("Unknown LAMBDA_FUNCTION")
	}

	log.Info().Str("function", cfg.LambdaFunction).Str("storage", cfg.StorageBackend).Msg("Lambda ready")
	lambda.Start(lambdaproxy.New(router.SetupFunction(h, cfg, log)).Proxy)
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
