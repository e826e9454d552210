package apperr

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"

	"nc-news/internal/store"
)

// PostgreSQL SQLSTATE codes the translator recognises.
const (
	codeNumericValueOutOfRange    = "22003"
	codeInvalidTextRepresentation = "22P02"
	codeNotNullViolation          = "23502"
	codeForeignKeyViolation       = "23503"
	codeUniqueViolation           = "23505"
)

// referenceEntities names the entity behind each foreign-key column.
var referenceEntities = map[string]string{
	"author":     "User",
	"username":   "User",
	"topic":      "Topic",
	"slug":       "Topic",
	"article_id": "Article",
}

var (
	detailColumn = regexp.MustCompile(`\((.*?)\)`)
	detailTable  = regexp.MustCompile(`table "(\w+)"`)
)

// Classify inspects err for a known store signature. Only the first match
// applies; anything unrecognised is Unknown.
func Classify(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, store.ErrUnknownTable) {
		return SchemaMismatch
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Unknown
	}
	switch pgErr.Code {
	case codeNumericValueOutOfRange, codeInvalidTextRepresentation:
		return BadInput
	case codeNotNullViolation:
		return MissingProperty
	case codeForeignKeyViolation:
		return DanglingReference
	case codeUniqueViolation:
		return Conflict
	}
	return Unknown
}

// Translate maps any error reaching the boundary to the Error rendered to the
// client. Typed failures pass through unchanged.
func Translate(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	errors.As(err, &pgErr)

	switch kind := Classify(err); kind {
	case BadInput:
		return NewBadInput()
	case MissingProperty:
		return NewMissingProperty()
	case DanglingReference:
		return NewDanglingReference(referencedEntity(pgErr))
	case Conflict:
		return NewConflict(conflictingEntity(pgErr))
	case SchemaMismatch:
		return NewSchemaMismatch(err)
	case Unknown, UnknownQueryField, InvalidQueryValue, InvalidBodyValue, NotFound:
		return NewUnknown(err)
	}
	return NewUnknown(err)
}

// referencedEntity resolves the entity from the violated column reported in
// the constraint detail, e.g. `Key (author)=(chris) is not present in table "users".`
func referencedEntity(pgErr *pgconn.PgError) string {
	column := pgErr.ColumnName
	if m := detailColumn.FindStringSubmatch(pgErr.Detail); column == "" && m != nil {
		column = m[1]
	}
	if entity, ok := referenceEntities[column]; ok {
		return entity
	}
	if m := detailTable.FindStringSubmatch(pgErr.Detail); m != nil {
		return Title(Singular(m[1]))
	}
	return "Resource"
}

func conflictingEntity(pgErr *pgconn.PgError) string {
	if pgErr.TableName != "" {
		return Title(Singular(pgErr.TableName))
	}
	return "Resource"
}
