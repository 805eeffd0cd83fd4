package service

import "errors"

// Submission and history errors.
var (
	ErrMissingExamID       = errors.New("missing exam_id (quiz_id) in request body")
	ErrInvalidQuizID       = errors.New("quiz_id must be an integer")
	ErrInvalidExamData     = errors.New("examData is not a valid exam definition")
	ErrInvalidAnswers      = errors.New("answers must be an object keyed by question id")
	ErrMissingExamIDParam  = errors.New("missing exam_id parameter for type=single")
	ErrInvalidExamIDParam  = errors.New("invalid exam_id format")
	ErrExamNotFound        = errors.New("exam not found")
	ErrDuplicateSubmission = errors.New("exam already submitted")
)

// Ingestion errors.
var (
	ErrNoQuestionsExtracted = errors.New("no questions extracted from PDF")
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrUploadFailed         = errors.New("question upload failed")
	ErrSaveDocument         = errors.New("failed to save PDF")
)
