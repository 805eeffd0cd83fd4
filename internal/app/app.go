// Package app wires configuration into the services and handlers shared by
// the HTTP server and the Lambda entry point.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/archive"
	"github.com/stemsi/exstem-grader/internal/config"
	"github.com/stemsi/exstem-grader/internal/extraction"
	"github.com/stemsi/exstem-grader/internal/handler"
	"github.com/stemsi/exstem-grader/internal/identity"
	"github.com/stemsi/exstem-grader/internal/repository"
	"github.com/stemsi/exstem-grader/internal/router"
	"github.com/stemsi/exstem-grader/internal/service"
)

// App holds the long-lived handles of one process.
type App struct {
	Handlers *router.Handlers
	Close    func()
}

// New connects to storage and builds every handler. Call Close on shutdown.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	// ─── Storage ───────────────────────────────────────────────────────
	stores, err := repository.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}

	// ─── Extraction ────────────────────────────────────────────────────
	extractor, err := extraction.New(cfg)
	if err != nil {
		stores.Close()
		return nil, err
	}

	var docs service.DocumentArchive
	if cfg.ArchiveEnabled {
		a, err := archive.NewMinioArchive(cfg)
		if err != nil {
			stores.Close()
			return nil, err
		}
		docs = a
		log.Info().Str("endpoint", cfg.MinioEndpoint).Str("bucket", cfg.MinioBucket).Msg("Document archive enabled")
	}

	// ─── Services ──────────────────────────────────────────────────────
	submissionService := service.NewSubmissionService(stores.Exams, cfg.RejectDuplicateSubmissions, log)
	ingestionService := service.NewIngestionService(
		extractor,
		stores.Questions,
		docs,
		service.NewNormalizer(cfg.IDScheme),
		cfg.TempDir,
		log,
	)

	// ─── Handlers ──────────────────────────────────────────────────────
	chain := identity.NewChain(identity.Options{
		AllowUnverifiedTokens: cfg.AllowUnverifiedTokens,
		AllowBodyUserID:       cfg.AllowBodyUserID,
	})

	return &App{
		Handlers: &router.Handlers{
			Submission: handler.NewSubmissionHandler(submissionService, chain, cfg.MaxUploadBytes, log),
			Ingestion:  handler.NewIngestionHandler(ingestionService, cfg.MaxUploadBytes, log),
			Health:     handler.NewHealthHandler(stores.Ping),
		},
		Close: stores.Close,
	}, nil
}
