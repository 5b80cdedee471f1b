/*
Package history keeps a rolling JSON log of pipeline runs.
*/
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shanehull/corpbrief/internal/types"
	"github.com/ternarybob/arbor"
)

const DefaultLimit = 50

type Manager struct {
	mutex  sync.Mutex
	path   string
	limit  int
	logger arbor.ILogger
}

func NewManager(path string, limit int, logger arbor.ILogger) (*Manager, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
		}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{path: path, limit: limit, logger: logger}, nil
}

// loadRuns starts fresh when the file is missing or unreadable.
func (m *Manager) loadRuns() []types.RunStats {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Info().Str("path", m.path).Msg("Run log not found, starting fresh")
			return nil
		}
		m.logger.Warn().Err(err).Str("path", m.path).Msg("Error reading run log, starting fresh")
		return nil
	}

	var runs []types.RunStats
	if err := json.Unmarshal(data, &runs); err != nil {
		m.logger.Warn().Err(err).Str("path", m.path).Msg("Error unmarshalling run log, starting fresh")
		return nil
	}
	return runs
}

// Append adds a run and keeps only the most recent runs up to the limit.
func (m *Manager) Append(stats types.RunStats) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	runs := append(m.loadRuns(), stats)
	if len(runs) > m.limit {
		runs = runs[len(runs)-m.limit:]
	}

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run log: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run log %s: %w", m.path, err)
	}

	m.logger.Debug().Str("path", m.path).Int("runs", len(runs)).Msg("Saved run log")
	return nil
}

func (m *Manager) Runs() []types.RunStats {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.loadRuns()
}

func (m *Manager) Path() string {
	return m.path
}
