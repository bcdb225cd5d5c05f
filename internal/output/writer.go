package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lorenzotomasdiez/llm-mafia/internal/mafia"
)

// WriteGameLog saves log as indented JSON at path, creating parent
// directories as needed.
func WriteGameLog(path string, log mafia.Log) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("output: encoding game log: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("output: creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("output: writing %s: %w", path, err)
	}
	return nil
}

// ReadGameLog loads a log written by WriteGameLog.
func ReadGameLog(path string) (mafia.Log, error) {
	var log mafia.Log
	data, err := os.ReadFile(path)
	if err != nil {
		return log, fmt.Errorf("output: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &log); err != nil {
		return log, fmt.Errorf("output: decoding %s: %w", path, err)
	}
	return log, nil
}
