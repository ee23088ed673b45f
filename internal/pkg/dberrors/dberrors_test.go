package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "users_email_lower_key"}
	wrapped := fmt.Errorf("insert user: %w", unique)
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation}

	assert.True(t, IsUniqueViolation(wrapped))
	assert.True(t, IsDuplicateConstraintError(wrapped, "users_email_lower_key"))
	assert.False(t, IsDuplicateConstraintError(wrapped, "posts_pkey"))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsForeignKeyViolation(nil))
}
