package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrieError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with TrieError
	trieErr := New(ErrCodeFileDecode, "cannot decode records.json", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, trieErr)
	assert.Equal(t, originalErr, errors.Unwrap(trieErr))
	assert.True(t, errors.Is(trieErr, originalErr))
}

func TestTrieError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "keyfield error",
			code:     ErrCodeKeyFieldInvalid,
			message:  "empty key field",
			expected: "[ERR_103_KEYFIELD_INVALID] empty key field",
		},
		{
			name:     "destroyed",
			code:     ErrCodeEngineDestroyed,
			message:  "engine destroyed",
			expected: "[ERR_404_ENGINE_DESTROYED] engine destroyed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestTrieError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code but different messages
	err1 := New(ErrCodeNotRecord, "int is not record-shaped", nil)
	err2 := New(ErrCodeNotRecord, "string is not record-shaped", nil)

	// Then: they match by code
	assert.True(t, errors.Is(err1, err2))
}

func TestTrieError_Is_DoesNotMatchDifferentCodes(t *testing.T) {
	err1 := New(ErrCodeNotRecord, "not a record", nil)
	err2 := New(ErrCodeTypeMismatch, "not a collection", nil)

	assert.False(t, errors.Is(err1, err2))
}

func TestTrieError_Is_ThroughFmtWrapping(t *testing.T) {
	// Given: a sentinel wrapped by fmt.Errorf
	sentinel := New(ErrCodeEngineDestroyed, "engine destroyed", nil)
	wrapped := New(ErrCodeEngineDestroyed, "add after destroy", nil)

	// Then: errors.Is sees through the chain
	assert.ErrorIs(t, errors.Join(errors.New("context"), wrapped), sentinel)
}

func TestTrieError_WithDetails_AddsContext(t *testing.T) {
	err := New(ErrCodeKeyFieldInvalid, "bad key field", nil).
		WithDetail("index", "2").
		WithDetail("value", "[]")

	require.Len(t, err.Details, 2)
	assert.Equal(t, "2", err.Details["index"])
	assert.Equal(t, "[]", err.Details["value"])
}

func TestTrieError_WithSuggestion_AddsSuggestion(t *testing.T) {
	err := New(ErrCodePatternInvalid, "bad split pattern", nil).
		WithSuggestion("use a valid RE2 expression")

	assert.Equal(t, "use a valid RE2 expression", err.Suggestion)
}

func TestTrieError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code     string
		expected Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeKeyFieldInvalid, CategoryConfig},
		{ErrCodeFileNotFound, CategoryIO},
		{ErrCodeNotRecord, CategoryValidation},
		{ErrCodeEngineDestroyed, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{"BAD", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, "msg", nil).Category)
		})
	}
}

func TestTrieError_SeverityFromCode(t *testing.T) {
	assert.Equal(t, SeverityFatal, New(ErrCodeEngineDestroyed, "x", nil).Severity)
	assert.Equal(t, SeverityFatal, New(ErrCodeNotInitialized, "x", nil).Severity)
	assert.Equal(t, SeverityError, New(ErrCodeNotRecord, "x", nil).Severity)
}

func TestWrap_CreatesTrieErrorFromError(t *testing.T) {
	original := errors.New("boom")

	wrapped := Wrap(ErrCodeInternal, original)

	require.NotNil(t, wrapped)
	assert.Equal(t, "boom", wrapped.Message)
	assert.Equal(t, original, wrapped.Cause)
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestNewf_FormatsMessage(t *testing.T) {
	err := Newf(ErrCodeInvalidInput, "limit must be >= 0, got %d", -1)
	assert.Equal(t, "limit must be >= 0, got -1", err.Message)
}

func TestConstructors_SetCategory(t *testing.T) {
	assert.Equal(t, CategoryConfig, ConfigError("x", nil).Category)
	assert.Equal(t, CategoryIO, IOError("x", nil).Category)
	assert.Equal(t, CategoryValidation, ValidationError("x", nil).Category)
	assert.Equal(t, CategoryInternal, InternalError("x", nil).Category)
}

func TestIsFatal_ChecksFatalSeverity(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeEngineDestroyed, "x", nil)))
	assert.False(t, IsFatal(New(ErrCodeNotRecord, "x", nil)))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.False(t, IsFatal(nil))
}

func TestGetCodeAndCategory(t *testing.T) {
	err := New(ErrCodeTypeMismatch, "x", nil)
	assert.Equal(t, ErrCodeTypeMismatch, GetCode(err))
	assert.Equal(t, CategoryValidation, GetCategory(err))
	assert.Empty(t, GetCode(errors.New("plain")))
	assert.Empty(t, GetCategory(errors.New("plain")))
}
