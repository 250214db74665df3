package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind string

const (
	MissingCollection Kind = "missing_collection"
	OtherError        Kind = "other_error"
)

// Postgres SQLSTATE undefined_table.
const undefinedTableCode = "42P01"

var missingTableMarkers = []string{
	"Could not find the table", // PostgREST schema cache
	"PGRST205",
	"no such table", // sqlite
	"does not exist",
}

type CollectionError struct {
	Collection Collection
	Kind       Kind
	Err        error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collection, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Classify maps a raw backend error onto a *CollectionError. Errors already
// classified pass through unchanged; nil stays nil.
func Classify(collection Collection, err error) error {
	if err == nil {
		return nil
	}

	var ce *CollectionError
	if errors.As(err, &ce) {
		return ce
	}

	kind := OtherError
	if isMissingRelation(err) {
		kind = MissingCollection
	}
	return &CollectionError{Collection: collection, Kind: kind, Err: err}
}

func isMissingRelation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == undefinedTableCode
	}

	msg := err.Error()
	for _, marker := range missingTableMarkers {
		if strings.Contains(msg, marker) {
			// "does not exist" is only a table signal when it names a relation
			if marker == "does not exist" && !strings.Contains(msg, "relation") {
				continue
			}
			return true
		}
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var ce *CollectionError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

func IsMissingCollection(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == MissingCollection
}

// Message is the human readable part of a classified error.
func Message(err error) string {
	var ce *CollectionError
	if errors.As(err, &ce) && ce.Err != nil {
		return ce.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
