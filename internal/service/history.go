package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/stemsi/exstem-grader/internal/model"
)

// Summarize projects one record onto its listing row.
func Summarize(rec *model.ExamRecord) model.ExamSummary {
	return model.ExamSummary{
		ExamID:         rec.ExamID,
		ExamStartTime:  rec.ExamStartTime,
		ExamFinishTime: rec.ExamFinishTime,
		CorrectCount:   rec.CorrectCount,
		TotalQuestions: rec.TotalQuestions,
	}
}

// ProjectListing returns the summaries of records, most recently finished first.
// Records without a finish time compare as "" and therefore come last.
func ProjectListing(records []model.ExamRecord) model.ExamHistory {
	exams := make([]model.ExamSummary, 0, len(records))
	for i := range records {
		exams = append(exams, Summarize(&records[i]))
	}

	sort.SliceStable(exams, func(i, j int) bool {
		return exams[i].ExamFinishTime > exams[j].ExamFinishTime
	})

	return model.ExamHistory{Exams: exams, Count: len(exams)}
}

// ProjectDetail returns the question identities of rec in stored order, skipping
// grade records without an identity.
func ProjectDetail(rec *model.ExamRecord) model.ExamDetail {
	ids := make([]string, 0, len(rec.Questions))
	for _, q := range rec.Questions {
		if q.QuestionID == "" {
			continue
		}
		ids = append(ids, q.QuestionID)
	}

	return model.ExamDetail{
		ExamID:      rec.ExamID,
		QuestionIDs: ids,
		ExamInfo: model.ExamInfo{
			ExamStartTime:  rec.ExamStartTime,
			ExamFinishTime: rec.ExamFinishTime,
			CorrectCount:   rec.CorrectCount,
			TotalQuestions: rec.TotalQuestions,
		},
	}
}

// ParseExamID parses the exam_id query parameter of a detail request.
func ParseExamID(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrMissingExamIDParam
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrInvalidExamIDParam
	}
	return id, nil
}
