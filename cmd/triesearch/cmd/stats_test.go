package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCmd_Text(t *testing.T) {
	dir := sandbox(t)
	data := writeData(t, dir, "people.json", peopleJSON)

	out, err := run(t, "stats", "-d", data)

	require.NoError(t, err)
	assert.Contains(t, out, "Index")
	assert.Regexp(t, `records:\s+4`, out)
	assert.Regexp(t, `keys:\s+4`, out)
	assert.Regexp(t, `cache:\s+64 entries max`, out)
	assert.Regexp(t, `heap:\s+[0-9.]+ [KMG]?B`, out)
}

func TestStatsCmd_JSON(t *testing.T) {
	// Given: two records sharing a key
	dir := sandbox(t)
	data := writeData(t, dir, "dup.json", `[{"name":"Ola"},{"name":"Ola"}]`)

	// When
	out, err := run(t, "stats", "-d", data, "--json")

	// Then: one key, two records, "ola" is three nodes below the root
	require.NoError(t, err)
	var stats struct {
		State   string `json:"state"`
		Records int    `json:"records"`
		Keys    int    `json:"keys"`
		Nodes   int    `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, "active", stats.State)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.Keys)
	assert.Equal(t, 3, stats.Nodes)
}

func TestStatsCmd_IgnoreDuplicatesFromEnv(t *testing.T) {
	dir := sandbox(t)
	data := writeData(t, dir, "dup.json", `[{"name":"Ola"},{"name":"Ola"}]`)
	t.Setenv("TRIESEARCH_IGNORE_DUPLICATES", "true")

	out, err := run(t, "stats", "-d", data, "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"records": 1`)
}

func TestStatsCmd_Textfile(t *testing.T) {
	// Given
	dir := sandbox(t)
	data := writeData(t, dir, "people.json", peopleJSON)
	prom := filepath.Join(dir, "metrics", "triesearch.prom")

	// When
	_, err := run(t, "stats", "-d", data, "--textfile", prom)

	// Then: the textfile carries the record count labelled by dataset
	require.NoError(t, err)
	raw, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `triesearch_index_records{dataset="people"} 4`)
}

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "people", datasetName([]string{"/data/people.json", "more.yaml"}))
	assert.Equal(t, "", datasetName(nil))
}
