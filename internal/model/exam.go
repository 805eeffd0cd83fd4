package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// GroupID is the opaque identifier of a question group. Clients send it as a
// JSON string or a JSON number; both become the token used in question ids.
type GroupID string

// UnmarshalJSON accepts strings, numbers and null.
func (g *GroupID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = GroupID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("group id must be a string or number: %w", err)
	}
	*g = GroupID(strings.TrimSpace(n.String()))
	return nil
}

// SubQuestion is the atomic gradable unit inside a group.
type SubQuestion struct {
	CorrectAnswer any `json:"correct_answer"`
}

// Group is a named cluster of sub-questions (a passage, a fill-in block, ...).
type Group struct {
	ID           GroupID       `json:"id"`
	SubQuestions []SubQuestion `json:"subquestions"`
}

// GroupSet holds the categories nested under examData.groups.
type GroupSet struct {
	FillShort []Group `json:"fill_short"`
	FillLong  []Group `json:"fill_long"`
	Reading   []Group `json:"reading"`
}

// ExamDefinition is the answer-key view of the examData a client submits.
// Reorder questions live at the top level, not under groups.
type ExamDefinition struct {
	QuizID           json.RawMessage `json:"quiz_id"`
	Groups           GroupSet        `json:"groups"`
	ReorderQuestions []Group         `json:"reorder_questions"`
}

// AnswerSet maps a question identity ("{group_id}-{index}") to the submitted choice.
type AnswerSet map[string]any

// GradeRecord is the per-sub-question outcome stored with an exam record.
type GradeRecord struct {
	QuestionID       string  `json:"question_id"`
	GroupID          GroupID `json:"group_id"`
	SubquestionIndex int     `json:"subquestion_index"`
	CorrectAnswer    any     `json:"correct_answer"`
	UserChoice       any     `json:"user_choice"`
}

// ExamRecord is one user's graded attempt at one exam, keyed by (exam_id, user_id).
type ExamRecord struct {
	ExamID         int64           `json:"exam_id"`
	UserID         string          `json:"user_id"`
	ExamStartTime  json.RawMessage `json:"exam_start_time"`
	ExamFinishTime string          `json:"exam_finish_time"`
	CorrectCount   int             `json:"correct_count"`
	TotalQuestions int             `json:"total_questions"`
	Questions      []GradeRecord   `json:"questions"`
	ExamData       json.RawMessage `json:"exam_data"`
	UserAnswers    json.RawMessage `json:"user_answers"`
}

// SubmitRequest is the POST body of the submission endpoint. A legacy user_id
// field is read by the identity chain, not here.
type SubmitRequest struct {
	ExamData      json.RawMessage `json:"examData"`
	Answers       json.RawMessage `json:"answers"`
	ExamStartTime json.RawMessage `json:"examStartTime"`
}

// SubmitResult is returned to the client after a successful submission.
type SubmitResult struct {
	Message        string `json:"message"`
	ExamID         int64  `json:"exam_id"`
	CorrectCount   int    `json:"correct_count"`
	TotalQuestions int    `json:"total_questions"`
}

// ExamSummary is one row of the history listing.
type ExamSummary struct {
	ExamID         int64           `json:"exam_id"`
	ExamStartTime  json.RawMessage `json:"exam_start_time"`
	ExamFinishTime string          `json:"exam_finish_time"`
	CorrectCount   int             `json:"correct_count"`
	TotalQuestions int             `json:"total_questions"`
}

// ExamHistory is the listing response.
type ExamHistory struct {
	Exams []ExamSummary `json:"exams"`
	Count int           `json:"count"`
}

// ExamInfo is the metadata block of the detail response.
type ExamInfo struct {
	ExamStartTime  json.RawMessage `json:"exam_start_time"`
	ExamFinishTime string          `json:"exam_finish_time"`
	CorrectCount   int             `json:"correct_count"`
	TotalQuestions int             `json:"total_questions"`
}

// ExamDetail is the single-exam response.
type ExamDetail struct {
	ExamID      int64    `json:"exam_id"`
	QuestionIDs []string `json:"question_ids"`
	ExamInfo    ExamInfo `json:"exam_info"`
}
