package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/metrics"
	"github.com/stemsi/exstem-grader/internal/model"
	"github.com/stemsi/exstem-grader/internal/repository"
)

// SubmissionMessage is returned on every successful submission.
const SubmissionMessage = "Submission successful"

// SubmissionService grades submissions and serves exam history.
type SubmissionService struct {
	store      repository.ExamRecordStore
	insertOnly bool
	now        func() time.Time
	log        zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService. With insertOnly a second
// submission for the same (exam, user) is rejected instead of overwriting.
func NewSubmissionService(store repository.ExamRecordStore, insertOnly bool, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		store:      store,
		insertOnly: insertOnly,
		now:        time.Now,
		log:        log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades req for userID and persists the resulting exam record.
func (s *SubmissionService) Submit(ctx context.Context, userID string, req *model.SubmitRequest) (*model.SubmitResult, error) {
	examData := orEmptyObject(req.ExamData)
	answersRaw := orEmptyObject(req.Answers)

	var def model.ExamDefinition
	if err := json.Unmarshal(examData, &def); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidExamData, err)
	}
	var answers model.AnswerSet
	if err := json.Unmarshal(answersRaw, &answers); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}

	graded := Grade(&def, answers)
	if len(graded.DuplicateIDs) > 0 {
		s.log.Warn().
			Strs("question_ids", graded.DuplicateIDs).
			Msg("Exam definition repeats question identities")
	}
	if len(graded.MalformedAnswerKeys) > 0 {
		s.log.Warn().
			Str("user_id", userID).
			Strs("answer_keys", graded.MalformedAnswerKeys).
			Msg("Answers contain keys that are not question identities")
	}

	rec, err := AssembleRecord(RecordInput{
		QuizID:        def.QuizID,
		UserID:        userID,
		ExamStartTime: req.ExamStartTime,
		Grade:         graded,
		ExamData:      examData,
		Answers:       answersRaw,
	}, s.now())
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if s.insertOnly {
		err = s.store.PutIfAbsent(ctx, rec)
	} else {
		err = s.store.Put(ctx, rec)
	}
	if errors.Is(err, repository.ErrAlreadyExists) {
		metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicateSubmission
	}
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("save exam record: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues("graded").Inc()
	metrics.GradedQuestions.Observe(float64(rec.TotalQuestions))

	s.log.Info().
		Int64("exam_id", rec.ExamID).
		Str("user_id", userID).
		Int("correct_count", rec.CorrectCount).
		Int("total_questions", rec.TotalQuestions).
		Msg("Exam graded")

	return &model.SubmitResult{
		Message:        SubmissionMessage,
		ExamID:         rec.ExamID,
		CorrectCount:   rec.CorrectCount,
		TotalQuestions: rec.TotalQuestions,
	}, nil
}

// ListHistory returns the exam summaries of userID, most recent first.
func (s *SubmissionService) ListHistory(ctx context.Context, userID string) (model.ExamHistory, error) {
	records, err := s.store.ScanByUser(ctx, userID)
	if err != nil {
		return model.ExamHistory{}, fmt.Errorf("scan exam records: %w", err)
	}
	return ProjectListing(records), nil
}

// GetExam returns the detail view of one exam of userID. rawExamID is the
// unparsed query parameter.
func (s *SubmissionService) GetExam(ctx context.Context, userID, rawExamID string) (*model.ExamDetail, error) {
	examID, err := ParseExamID(rawExamID)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Get(ctx, examID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get exam record: %w", err)
	}

	detail := ProjectDetail(rec)
	return &detail, nil
}

func orEmptyObject(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return raw
}
