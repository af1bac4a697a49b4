package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create post: %w", NewNotFound("thread", "t1"))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsStoreUnavailable(wrapped))

	var nf *ErrNotFound
	require.True(t, stderrors.As(wrapped, &nf))
	assert.Equal(t, "thread", nf.Entity)
	assert.Equal(t, "t1", nf.ID)
}

func TestValidationError(t *testing.T) {
	err := NewValidation("limit", "must be between 1 and 100")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "[validation] invalid limit: must be between 1 and 100", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestStoreErrors(t *testing.T) {
	cause := stderrors.New("no hosts available")

	unavailable := NewStoreUnavailable("cassandra", "create_post", cause)
	assert.True(t, IsStoreUnavailable(unavailable))
	assert.True(t, IsRetryable(unavailable))
	assert.ErrorIs(t, unavailable, cause)
	assert.Contains(t, unavailable.Error(), "cassandra unavailable during create_post")

	failed := NewStoreQueryFailed("neo4j", "upsert_user", cause)
	assert.True(t, IsErrorType(failed, ErrorTypeStore))
	assert.False(t, IsStoreUnavailable(failed))
	assert.False(t, IsRetryable(failed))
}

func TestConfigErrors(t *testing.T) {
	assert.True(t, IsErrorType(NewConfigMissingRequired("NEO4J_URI"), ErrorTypeConfig))
	assert.True(t, IsErrorType(NewConfigValidationFailed("PORT", "bad"), ErrorTypeConfig))
}

func TestIsErrorType_Nil(t *testing.T) {
	assert.False(t, IsErrorType(nil, ErrorTypeValidation))
	assert.False(t, IsValidation(stderrors.New("plain")))
}
