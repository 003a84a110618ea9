package model

import (
	"github.com/google/uuid"

	errs "github.com/matzehuels/umlstack/pkg/errors"
)

// ID is the globally unique identifier of an element.
type ID = uuid.UUID

// NilID is the zero identifier. It never names an element.
var NilID = uuid.Nil

// RootID is the well-known identifier of a project's root composite.
var RootID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// NewID returns a fresh random identifier.
func NewID() ID { return uuid.New() }

// ParseID parses the textual form of an identifier. The raw string is kept
// in the error so that callers can report exactly what was stored.
func ParseID(s string) (ID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NilID, errs.Wrap(errs.ErrCodeParse, err, "invalid identifier %q", s)
	}
	return id, nil
}
