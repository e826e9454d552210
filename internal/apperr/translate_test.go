package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nc-news/internal/store"
)

func TestTranslate_StoreSignatures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		status  int
		message string
	}{
		{
			name:    "malformed identifier",
			err:     &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type integer: "not-an-id"`},
			kind:    BadInput,
			status:  400,
			message: "Bad endpoint",
		},
		{
			name:    "vote delta overflows the column",
			err:     &pgconn.PgError{Code: "22003", Message: "integer out of range"},
			kind:    BadInput,
			status:  400,
			message: "Bad endpoint",
		},
		{
			name:    "required column omitted",
			err:     &pgconn.PgError{Code: "23502", ColumnName: "body"},
			kind:    MissingProperty,
			status:  400,
			message: "Bad request: missing property",
		},
		{
			name:    "dangling author",
			err:     &pgconn.PgError{Code: "23503", Detail: `Key (author)=(chris) is not present in table "users".`},
			kind:    DanglingReference,
			status:  404,
			message: "User not found",
		},
		{
			name:    "dangling topic",
			err:     &pgconn.PgError{Code: "23503", Detail: `Key (topic)=(dogs) is not present in table "topics".`},
			kind:    DanglingReference,
			status:  404,
			message: "Topic not found",
		},
		{
			name:    "dangling column resolved from referenced table",
			err:     &pgconn.PgError{Code: "23503", Detail: `Key (editor)=(x) is not present in table "users".`},
			kind:    DanglingReference,
			status:  404,
			message: "User not found",
		},
		{
			name:    "duplicate slug",
			err:     &pgconn.PgError{Code: "23505", TableName: "topics"},
			kind:    Conflict,
			status:  409,
			message: "Topic already exists",
		},
		{
			name:    "unrelated postgres failure",
			err:     &pgconn.PgError{Code: "40P01"},
			kind:    Unknown,
			status:  500,
			message: "Internal Server Error",
		},
		{
			name:    "plain error",
			err:     errors.New("connection refused"),
			kind:    Unknown,
			status:  500,
			message: "Internal Server Error",
		},
		{
			name:    "schema mismatch",
			err:     fmt.Errorf("guard: %w", fmt.Errorf("%w: artcles", store.ErrUnknownTable)),
			kind:    SchemaMismatch,
			status:  500,
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(fmt.Errorf("insert comment: %w", tt.err))
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestTranslate_TypedErrorsPassThrough(t *testing.T) {
	orig := NewNotFound("comment", "id")
	got := Translate(fmt.Errorf("delete comment: %w", orig))

	assert.Same(t, orig, got)
	assert.Equal(t, "No comment matching requested id", got.Message)
	assert.Equal(t, 404, got.Status)
}

func TestTranslate_Nil(t *testing.T) {
	assert.Nil(t, Translate(nil))
}

func TestTranslate_InternalKeepsCause(t *testing.T) {
	cause := errors.New("pool closed")
	got := Translate(cause)

	assert.True(t, got.Internal())
	assert.ErrorIs(t, got, cause)
	assert.Equal(t, "Internal Server Error", got.Message)
}

func TestKind_StatusIsTotal(t *testing.T) {
	for k := Unknown; k <= SchemaMismatch; k++ {
		status := k.Status()
		assert.Contains(t, []int{400, 404, 409, 500}, status, k.String())
		assert.NotContains(t, k.String(), "Kind(", "kind %d has no name", int(k))
	}
}

func TestSingularAndTitle(t *testing.T) {
	assert.Equal(t, "article", Singular("articles"))
	assert.Equal(t, "Comment", Title(Singular("comments")))
	assert.Equal(t, "", Title(""))
}
