package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stemsi/exstem-grader/internal/model"
)

// QuestionID forms the identity of the index-th (zero-based) sub-question of a group.
// Clients build their answer maps with the same "{group_id}-{index}" format, so
// identities are only stable while CategoryOrder and group order are kept.
func QuestionID(groupID model.GroupID, index int) string {
	return fmt.Sprintf("%s-%d", groupID, index)
}

// ParseQuestionID splits an identity back into its group id and index. The index
// never contains the delimiter, so splitting on the last "-" is unambiguous.
func ParseQuestionID(id string) (model.GroupID, int, bool) {
	i := strings.LastIndex(id, "-")
	if i < 0 {
		return "", 0, false
	}
	idx, err := strconv.Atoi(id[i+1:])
	if err != nil || idx < 0 || strings.HasPrefix(id[i+1:], "+") {
		return "", 0, false
	}
	return model.GroupID(id[:i]), idx, true
}
