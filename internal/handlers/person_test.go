package handlers

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsPeopleSchemaMismatch(t *testing.T) {
	assert.True(t, isPeopleSchemaMismatch(&pgconn.PgError{
		Code:    pgerrcode.UndefinedColumn,
		Message: `column "linked_profile_id" does not exist`,
	}))
	assert.True(t, isPeopleSchemaMismatch(&pgconn.PgError{
		Code:    pgerrcode.UndefinedColumn,
		Message: `column birthdays.email does not exist`,
	}))

	// Missing-column errors about other columns are real failures
	assert.False(t, isPeopleSchemaMismatch(&pgconn.PgError{
		Code:    pgerrcode.UndefinedColumn,
		Message: `column "venue" does not exist`,
	}))
	// A contact column in a different error class is not a mismatch
	assert.False(t, isPeopleSchemaMismatch(&pgconn.PgError{
		Code:    pgerrcode.UniqueViolation,
		Message: `duplicate key value violates unique constraint "profiles_email_key"`,
	}))

	// Message-text fallback for stores without structured errors
	assert.True(t, isPeopleSchemaMismatch(errors.New(`no such column: relationship`)))
	assert.False(t, isPeopleSchemaMismatch(errors.New(`connection refused`)))
	assert.False(t, isPeopleSchemaMismatch(nil))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `jo\_anne@example.com`, escapeLike(`jo_anne@example.com`))
	assert.Equal(t, `100\%@example.com`, escapeLike(`100%@example.com`))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
	assert.Equal(t, `plain@example.com`, escapeLike(`plain@example.com`))
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))
	assert.Equal(t, "kept", nullableString("kept"))
}
