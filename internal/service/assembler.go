package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stemsi/exstem-grader/internal/model"
)

// FinishTimeLayout is the UTC layout of exam_finish_time. It is fixed width so
// that lexical order of stored values equals chronological order.
const FinishTimeLayout = "2006-01-02T15:04:05.000000Z"

// RecordInput carries everything the assembler needs besides the clock.
type RecordInput struct {
	QuizID        json.RawMessage
	UserID        string
	ExamStartTime json.RawMessage
	Grade         GradeResult
	ExamData      json.RawMessage
	Answers       json.RawMessage
}

// ParseQuizID converts examData.quiz_id into an exam id. Absent, null, empty and
// zero values are treated as missing.
func ParseQuizID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, ErrMissingExamID
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuizID, err)
	}

	switch q := v.(type) {
	case nil:
		return 0, ErrMissingExamID
	case bool:
		if !q {
			return 0, ErrMissingExamID
		}
	case string:
		s := strings.TrimSpace(q)
		if s == "" {
			return 0, ErrMissingExamID
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidQuizID, q)
		}
		return id, nil
	case json.Number:
		if id, err := q.Int64(); err == nil {
			if id == 0 {
				return 0, ErrMissingExamID
			}
			return id, nil
		}
		// Integer literals that failed Int64 are out of range.
		if !strings.ContainsAny(q.String(), ".eE") {
			return 0, fmt.Errorf("%w: %s", ErrInvalidQuizID, q)
		}
		f, err := q.Float64()
		if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidQuizID, q)
		}
		if f == 0 {
			return 0, ErrMissingExamID
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidQuizID, raw)
}

// AssembleRecord builds the persisted exam record. The finish time is taken from
// now, never from the client.
func AssembleRecord(in RecordInput, now time.Time) (*model.ExamRecord, error) {
	examID, err := ParseQuizID(in.QuizID)
	if err != nil {
		return nil, err
	}

	return &model.ExamRecord{
		ExamID:         examID,
		UserID:         in.UserID,
		ExamStartTime:  in.ExamStartTime,
		ExamFinishTime: now.UTC().Format(FinishTimeLayout),
		CorrectCount:   in.Grade.CorrectCount,
		TotalQuestions: in.Grade.TotalQuestions,
		Questions:      in.Grade.Questions,
		ExamData:       in.ExamData,
		UserAnswers:    in.Answers,
	}, nil
}
