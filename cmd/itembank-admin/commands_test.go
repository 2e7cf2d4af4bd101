package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePath = "../../pkg/itembank/fixture/testdata/sample.yaml"

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

func TestAdminCommands(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "itembank.db"))

	out := execute(t, "migrate")
	assert.Contains(t, out, "Schema ready (sqlite)")

	out = execute(t, "seed", "--file", samplePath)
	assert.Contains(t, out, "Seeded 2 users, 3 concepts, 2 tags, 2 media assets, 2 drafts, 1 published items")

	// reseeding requires --reset
	execute(t, "seed", "--file", samplePath, "--reset")

	out = execute(t, "stats", "--json")
	var stats struct {
		Drafts struct {
			TotalCount int64            `json:"total_count"`
			ByStatus   map[string]int64 `json:"by_status"`
		} `json:"drafts"`
		Concepts int64 `json:"concepts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.EqualValues(t, 2, stats.Drafts.TotalCount)
	assert.EqualValues(t, 1, stats.Drafts.ByStatus["in_review"])
	assert.EqualValues(t, 3, stats.Concepts)

	out = execute(t, "stats")
	assert.Contains(t, out, "Draft items: 2")

	out = execute(t, "drafts", "--status", "in_review")
	assert.Contains(t, out, "item-1")
	assert.NotContains(t, out, "item-2")
	assert.Contains(t, out, "total: 1")
}

func TestSeedRequiresFile(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"seed"})
	assert.Error(t, root.Execute())
}
