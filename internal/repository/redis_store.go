package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exstem-grader/internal/config"
	"github.com/stemsi/exstem-grader/internal/model"
)

// RedisExamRecordStore keeps each record as a JSON string and indexes the exam
// ids of a user in a set, so ScanByUser never walks the keyspace.
type RedisExamRecordStore struct {
	rdb   *redis.Client
	table string
}

var _ ExamRecordStore = (*RedisExamRecordStore)(nil)

// NewRedisExamRecordStore creates a new RedisExamRecordStore under the table prefix.
func NewRedisExamRecordStore(rdb *redis.Client, table string) *RedisExamRecordStore {
	return &RedisExamRecordStore{rdb: rdb, table: table}
}

func (s *RedisExamRecordStore) Put(ctx context.Context, rec *model.ExamRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode exam record: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, config.StoreKey.ExamRecordKey(s.table, rec.ExamID, rec.UserID), doc, 0)
		pipe.SAdd(ctx, config.StoreKey.UserExamsKey(s.table, rec.UserID), rec.ExamID)
		return nil
	})
	return err
}

// putIfAbsentScript writes the record and its index entry in one step, or
// neither when the record already exists.
var putIfAbsentScript = redis.NewScript(`
if redis.call("SET", KEYS[1], ARGV[1], "NX") then
	redis.call("SADD", KEYS[2], ARGV[2])
	return 1
end
return 0
`)

func (s *RedisExamRecordStore) PutIfAbsent(ctx context.Context, rec *model.ExamRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode exam record: %w", err)
	}

	keys := []string{
		config.StoreKey.ExamRecordKey(s.table, rec.ExamID, rec.UserID),
		config.StoreKey.UserExamsKey(s.table, rec.UserID),
	}
	created, err := putIfAbsentScript.Run(ctx, s.rdb, keys, doc, rec.ExamID).Int()
	if err != nil {
		return err
	}
	if created == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *RedisExamRecordStore) Get(ctx context.Context, examID int64, userID string) (*model.ExamRecord, error) {
	doc, err := s.rdb.Get(ctx, config.StoreKey.ExamRecordKey(s.table, examID, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec := &model.ExamRecord{}
	if err := json.Unmarshal(doc, rec); err != nil {
		return nil, fmt.Errorf("decode exam record: %w", err)
	}
	return rec, nil
}

func (s *RedisExamRecordStore) ScanByUser(ctx context.Context, userID string) ([]model.ExamRecord, error) {
	members, err := s.rdb.SMembers(ctx, config.StoreKey.UserExamsKey(s.table, userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		examID, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		keys = append(keys, config.StoreKey.ExamRecordKey(s.table, examID, userID))
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.ExamRecord, 0, len(vals))
	for _, v := range vals {
		doc, ok := v.(string)
		if !ok {
			// Index entry without a record (expired or deleted).
			continue
		}
		var rec model.ExamRecord
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decode exam record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// RedisQuestionStore keeps extracted items in a single hash keyed by item id.
type RedisQuestionStore struct {
	rdb   *redis.Client
	table string
}

var _ QuestionStore = (*RedisQuestionStore)(nil)

// NewRedisQuestionStore creates a new RedisQuestionStore.
func NewRedisQuestionStore(rdb *redis.Client, table string) *RedisQuestionStore {
	return &RedisQuestionStore{rdb: rdb, table: table}
}

func (s *RedisQuestionStore) Put(ctx context.Context, item model.QuestionItem) error {
	id, err := ItemKey(item)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode question item: %w", err)
	}
	return s.rdb.HSet(ctx, config.StoreKey.QuestionBankKey(s.table), id, doc).Err()
}
