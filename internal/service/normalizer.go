package service

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/exstem-grader/internal/model"
)

// ID schemes for extracted question items.
const (
	IDSchemeUUID   = "uuid"
	IDSchemeLegacy = "legacy"
)

// Normalizer makes sure every extracted item carries an id before it is stored.
type Normalizer struct {
	newID func() any
}

// NewNormalizer returns a normalizer for the given scheme. Unknown schemes use UUIDs.
func NewNormalizer(scheme string) *Normalizer {
	if scheme == IDSchemeLegacy {
		return &Normalizer{newID: func() any { return LegacyItemID(time.Now()) }}
	}
	return &Normalizer{newID: func() any { return uuid.NewString() }}
}

// Normalize assigns an id to item when it has none. Items that already carry an
// "id" attribute, whatever its value, are returned untouched.
func (n *Normalizer) Normalize(item model.QuestionItem) model.QuestionItem {
	if item == nil {
		item = model.QuestionItem{}
	}
	if _, ok := item[model.QuestionItemIDKey]; ok {
		return item
	}
	item[model.QuestionItemIDKey] = n.newID()
	return item
}

// LegacyItemID reproduces the numeric ids of the first ingestion pipeline:
// microseconds since the epoch plus a random offset below one million.
// Ids are roughly ordered within a batch but not guaranteed unique.
func LegacyItemID(now time.Time) int64 {
	return now.UnixMicro() + rand.Int64N(1_000_000)
}
