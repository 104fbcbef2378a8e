package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `people:
  - id: 2544
    full_name: LeBron James
    first_name: LeBron
    last_name: James
teams:
  - id: 1610612747
    full_name: Los Angeles Lakers
    abbreviation: LAL
    nickname: Lakers
    city: Los Angeles
`

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidate_ReportsCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	out, err := runRoot(t, "validate", "--file", path)

	require.NoError(t, err)
	assert.Contains(t, out, "1 people, 1 teams")
}

func TestValidate_RejectsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("people: []\nteams: []\n"), 0o644))

	_, err := runRoot(t, "validate", "--file", path)

	assert.Error(t, err)
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := runRoot(t, "validate", "--file", filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
