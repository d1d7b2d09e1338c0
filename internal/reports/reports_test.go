package reports

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	now := time.Date(2024, 3, 9, 17, 4, 5, 0, time.FixedZone("X", 3600))

	path, err := Write(dir, "health", map[string]int{"samples": 3}, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "health-20240309-160405.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 3, got["samples"])
}

func TestWriteDefaults(t *testing.T) {
	path, err := Write(t.TempDir(), "", []int{1}, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "report-19700101-000000.json", filepath.Base(path))

	_, err = Write(t.TempDir(), "bad", func() {}, time.Now())
	assert.ErrorContains(t, err, "marshal report")
}
