// Package reports writes timestamped JSON report files.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Write pretty-prints data into dir/{prefix}-{YYYYMMDD-HHMMSS}.json, creating
// dir if needed, and returns the path written.
func Write(dir, prefix string, data any, now time.Time) (string, error) {
	if prefix == "" {
		prefix = "report"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, now.UTC().Format("20060102-150405")))
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
