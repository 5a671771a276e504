// Package dataset persists normalized member records to local JSON files
// and reports group distributions.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/polidle/parl-scraper/internal/member"
)

// Write serializes records to path, pretty-printed, replacing any previous
// file. Photo candidate URLs never reach the file: they are excluded at
// the type level (`json:"-"`).
func Write(path string, records []member.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create dataset dir for %s: %w", path, err)
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}

// Read loads a previously written dataset file.
func Read(path string) ([]member.Record, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var records []member.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return records, nil
}

// LogDistribution prints the per-group record counts, largest first.
func LogDistribution(logger *zap.Logger, label string, records []member.Record) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, gc := range member.GroupDistribution(records) {
		logger.Info("group count",
			zap.String("chamber", label),
			zap.String("group", gc.Code),
			zap.Int("members", gc.Count),
		)
	}
}
