package config

import (
	"fmt"
)

// StoreKeyStruct builds the Redis keys used by the key-value storage backend.
type StoreKeyStruct struct{}

func NewStoreKeyStruct() *StoreKeyStruct {
	return &StoreKeyStruct{}
}

// ExamRecordKey returns the key holding one user's record for one exam.
func (r *StoreKeyStruct) ExamRecordKey(table string, examID int64, userID string) string {
	return fmt.Sprintf("%s:%d:%s", table, examID, userID)
}

// UserExamsKey returns the set of exam ids a user has submitted.
func (r *StoreKeyStruct) UserExamsKey(table, userID string) string {
	return fmt.Sprintf("%s:user:%s", table, userID)
}

// QuestionBankKey returns the hash holding extracted question items by id.
func (r *StoreKeyStruct) QuestionBankKey(table string) string {
	return table
}

var StoreKey = NewStoreKeyStruct()
