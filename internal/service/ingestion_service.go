package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/extraction"
	"github.com/stemsi/exstem-grader/internal/metrics"
	"github.com/stemsi/exstem-grader/internal/model"
	"github.com/stemsi/exstem-grader/internal/repository"
)

// DocumentArchive keeps a copy of ingested documents. Optional.
type DocumentArchive interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// IngestionService extracts questions from uploaded PDFs into the question bank.
type IngestionService struct {
	extractor  extraction.Extractor
	store      repository.QuestionStore
	archive    DocumentArchive
	normalizer *Normalizer
	tempDir    string
	log        zerolog.Logger
}

// NewIngestionService creates a new IngestionService. archive may be nil.
func NewIngestionService(
	extractor extraction.Extractor,
	store repository.QuestionStore,
	archive DocumentArchive,
	normalizer *Normalizer,
	tempDir string,
	log zerolog.Logger,
) *IngestionService {
	return &IngestionService{
		extractor:  extractor,
		store:      store,
		archive:    archive,
		normalizer: normalizer,
		tempDir:    tempDir,
		log:        log.With().Str("component", "ingestion_service").Logger(),
	}
}

// Ingest extracts the questions of pdf and stores each of them. Items are
// uploaded one by one; the first storage error aborts the batch.
func (s *IngestionService) Ingest(ctx context.Context, pdf []byte) (*model.IngestResult, error) {
	items, err := s.extract(ctx, pdf)
	if err != nil {
		return nil, err
	}

	uploaded := 0
	for _, item := range items {
		if err := s.store.Put(ctx, s.normalizer.Normalize(item)); err != nil {
			metrics.IngestedQuestions.WithLabelValues("error").Inc()
			s.log.Error().Err(err).Int("uploaded", uploaded).Int("total", len(items)).Msg("Question upload failed")
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		uploaded++
	}
	metrics.IngestedQuestions.WithLabelValues("uploaded").Add(float64(uploaded))

	s.log.Info().Int("questions", len(items)).Int("uploaded", uploaded).Msg("Document ingested")

	return &model.IngestResult{
		Status:    "success",
		Questions: len(items),
		Uploaded:  uploaded,
	}, nil
}

// extract stages pdf in a temp file for the extractor and removes it afterwards.
func (s *IngestionService) extract(ctx context.Context, pdf []byte) ([]model.QuestionItem, error) {
	f, err := os.CreateTemp(s.tempDir, "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveDocument, err)
	}
	path := f.Name()
	defer func() {
		_ = os.Remove(path)
	}()

	if _, err := f.Write(pdf); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", ErrSaveDocument, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveDocument, err)
	}

	if s.archive != nil {
		if object, err := s.archive.Store(ctx, path, pdf); err != nil {
			s.log.Warn().Err(err).Msg("Document archive failed")
		} else {
			s.log.Debug().Str("object", object).Msg("Document archived")
		}
	}

	items, err := s.extractor.Extract(ctx, path)
	if errors.Is(err, extraction.ErrNoList) {
		return nil, ErrNoQuestionsExtracted
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if len(items) == 0 {
		return nil, ErrNoQuestionsExtracted
	}
	return items, nil
}
