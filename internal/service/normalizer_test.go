package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/exstem-grader/internal/model"
)

func TestNormalizeKeepsExistingID(t *testing.T) {
	for _, scheme := range []string{IDSchemeUUID, IDSchemeLegacy} {
		n := NewNormalizer(scheme)
		for _, id := range []any{"q-1", float64(17), nil} {
			item := model.QuestionItem{"id": id, "question": "Q"}
			want := model.QuestionItem{"id": id, "question": "Q"}
			if got := n.Normalize(item); !reflect.DeepEqual(got, want) {
				t.Errorf("%s: Normalize(%v) = %v", scheme, want, got)
			}
		}
	}
}

func TestNormalizeAssignsUUID(t *testing.T) {
	n := NewNormalizer(IDSchemeUUID)
	a := n.Normalize(model.QuestionItem{"question": "Q1"})
	b := n.Normalize(model.QuestionItem{"question": "Q2"})

	idA, ok := a["id"].(string)
	if !ok {
		t.Fatalf("id = %#v, want string", a["id"])
	}
	if _, err := uuid.Parse(idA); err != nil {
		t.Errorf("id %q is not a UUID: %v", idA, err)
	}
	if a["id"] == b["id"] {
		t.Error("two items received the same id")
	}

	// Second pass is a no-op.
	if again := n.Normalize(a); again["id"] != idA {
		t.Errorf("renormalized id = %v", again["id"])
	}
}

func TestNormalizeLegacy(t *testing.T) {
	n := NewNormalizer(IDSchemeLegacy)
	before := time.Now().UnixMicro()
	item := n.Normalize(model.QuestionItem{})
	after := time.Now().UnixMicro()

	id, ok := item["id"].(int64)
	if !ok {
		t.Fatalf("id = %#v, want int64", item["id"])
	}
	if id < before || id >= after+1_000_000 {
		t.Errorf("id %d outside [%d, %d)", id, before, after+1_000_000)
	}
}

func TestNormalizeNilItem(t *testing.T) {
	item := NewNormalizer(IDSchemeUUID).Normalize(nil)
	if _, ok := item["id"]; !ok {
		t.Error("nil item should come back with an id")
	}
}
