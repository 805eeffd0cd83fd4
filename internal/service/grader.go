package service

import (
	"reflect"
	"sort"

	"github.com/stemsi/exstem-grader/internal/model"
)

// Category names in traversal order.
const (
	CategoryFillShort = "fill_short"
	CategoryReorder   = "reorder_questions"
	CategoryFillLong  = "fill_long"
	CategoryReading   = "reading"
)

// CategoryOrder is the order in which categories are graded. Question identities
// are positional, so changing it invalidates every stored answer map.
var CategoryOrder = []string{CategoryFillShort, CategoryReorder, CategoryFillLong, CategoryReading}

// GradeResult is the outcome of one grading pass.
type GradeResult struct {
	Questions      []model.GradeRecord
	CorrectCount   int
	TotalQuestions int
	// DuplicateIDs lists identities that appeared more than once in the traversal.
	DuplicateIDs []string
	// MalformedAnswerKeys lists answer keys that cannot be a question identity.
	// They can never be graded, which usually means a client bug.
	MalformedAnswerKeys []string
}

// CategoryGroups returns the groups of one category, or nil when the exam has none.
func CategoryGroups(def *model.ExamDefinition, category string) []model.Group {
	switch category {
	case CategoryFillShort:
		return def.Groups.FillShort
	case CategoryReorder:
		return def.ReorderQuestions
	case CategoryFillLong:
		return def.Groups.FillLong
	case CategoryReading:
		return def.Groups.Reading
	}
	return nil
}

// Grade compares answers against the answer key of def. It emits one grade record
// per sub-question, in CategoryOrder, then group order, then sub-question order.
func Grade(def *model.ExamDefinition, answers model.AnswerSet) GradeResult {
	res := GradeResult{Questions: []model.GradeRecord{}}
	seen := make(map[string]struct{})

	for _, category := range CategoryOrder {
		for _, group := range CategoryGroups(def, category) {
			for i, sub := range group.SubQuestions {
				qid := QuestionID(group.ID, i)
				choice := answers[qid]

				if answerMatches(choice, sub.CorrectAnswer) {
					res.CorrectCount++
				}
				if _, dup := seen[qid]; dup {
					res.DuplicateIDs = append(res.DuplicateIDs, qid)
				}
				seen[qid] = struct{}{}

				res.Questions = append(res.Questions, model.GradeRecord{
					QuestionID:       qid,
					GroupID:          group.ID,
					SubquestionIndex: i,
					CorrectAnswer:    sub.CorrectAnswer,
					UserChoice:       choice,
				})
			}
		}
	}

	res.TotalQuestions = len(res.Questions)
	res.MalformedAnswerKeys = malformedAnswerKeys(answers)
	return res
}

func malformedAnswerKeys(answers model.AnswerSet) []string {
	var bad []string
	for key := range answers {
		if _, _, ok := ParseQuestionID(key); !ok {
			bad = append(bad, key)
		}
	}
	sort.Strings(bad)
	return bad
}

// answerMatches reports exact JSON value equality. An unanswered sub-question never matches.
func answerMatches(choice, correct any) bool {
	if choice == nil {
		return false
	}
	return reflect.DeepEqual(choice, correct)
}
