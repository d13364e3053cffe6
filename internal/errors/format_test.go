package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForUser_BasicError(t *testing.T) {
	// Given: a TrieError
	err := New(ErrCodeFileNotFound, "file 'records.json' not found", nil)

	// When: formatting for user
	result := FormatForUser(err, false)

	// Then: contains message and code
	assert.Contains(t, result, "file 'records.json' not found")
	assert.Contains(t, result, "[ERR_201_FILE_NOT_FOUND]")
}

func TestFormatForUser_WithSuggestion(t *testing.T) {
	err := New(ErrCodeKeyFieldInvalid, "no key fields configured", nil).
		WithSuggestion("pass --key name")

	result := FormatForUser(err, false)

	assert.Contains(t, result, "Suggestion:")
	assert.Contains(t, result, "--key name")
}

func TestFormatForUser_StandardError(t *testing.T) {
	result := FormatForUser(errors.New("something went wrong"), false)
	assert.Equal(t, "something went wrong", result)
}

func TestFormatForUser_NilError(t *testing.T) {
	assert.Empty(t, FormatForUser(nil, false))
}

func TestFormatJSON_BasicError(t *testing.T) {
	// Given: an error with detail and cause
	err := New(ErrCodeFileDecode, "bad yaml", errors.New("line 3")).
		WithDetail("path", "data.yaml")

	// When: formatting as JSON
	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	// Then: all fields are present
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, ErrCodeFileDecode, parsed["code"])
	assert.Equal(t, "bad yaml", parsed["message"])
	assert.Equal(t, "IO", parsed["category"])
	assert.Equal(t, "line 3", parsed["cause"])
	assert.Equal(t, "data.yaml", parsed["details"].(map[string]any)["path"])
}

func TestFormatJSON_StandardError(t *testing.T) {
	data, err := FormatJSON(errors.New("plain"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ErrCodeInternal)
}

func TestFormatJSON_NilError(t *testing.T) {
	data, err := FormatJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestFormatForCLI_ShortFormat(t *testing.T) {
	err := New(ErrCodeEngineDestroyed, "engine destroyed", nil).
		WithSuggestion("create a new engine")

	result := FormatForCLI(err)

	assert.Contains(t, result, "Error: engine destroyed")
	assert.Contains(t, result, "Hint: create a new engine")
	assert.Contains(t, result, "Code: ERR_404_ENGINE_DESTROYED")
}

func TestFormatForLog_IncludesDetails(t *testing.T) {
	err := New(ErrCodeNotRecord, "not a record", nil).WithDetail("type", "int")

	fields := FormatForLog(err)

	assert.Equal(t, ErrCodeNotRecord, fields["error_code"])
	assert.Equal(t, "int", fields["detail_type"])
	assert.Nil(t, FormatForLog(nil))
	assert.Equal(t, "plain", FormatForLog(errors.New("plain"))["error"])
}
