package companies

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestKospi_Deduplicated(t *testing.T) {
	list := Kospi()
	assert.Len(t, list, 99)

	seen := map[string]bool{}
	for _, name := range list {
		assert.False(t, seen[name], "duplicate %s", name)
		seen[name] = true
	}
	assert.Equal(t, "삼성전자", list[0])
}

func TestPreset(t *testing.T) {
	tests := []struct {
		name    string
		wantLen int
		wantOK  bool
	}{
		{"top_10", 10, true},
		{"top_30", 30, true},
		{"top_50", 50, true},
		{"top_100", 99, true},
		{"tech_focus", 20, true},
		{"finance_focus", 13, true},
		{"nope", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, ok := Preset(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, list, tt.wantLen)
		})
	}

	for _, name := range Presets() {
		_, ok := Preset(name)
		assert.True(t, ok, name)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists", "target_companies.json")
	now := time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC)

	require.NoError(t, Save(path, []string{"삼성전자", "카카오"}, now))

	lf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01T08:30:00Z", lf.CreatedAt)
	assert.Equal(t, 2, lf.TotalCompanies)
	assert.Equal(t, []string{"삼성전자", "카카오"}, lf.Companies)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(arbor.NewLogger())

	good := filepath.Join(dir, "good.json")
	require.NoError(t, Save(good, []string{"NAVER"}, time.Now()))

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, Save(empty, nil, time.Now()))

	assert.Equal(t, []string{"NAVER"}, r.Resolve(good, "top_50"), "list file wins over preset")
	assert.Equal(t, DefaultTargets, r.Resolve(corrupt, ""))
	assert.Equal(t, DefaultTargets, r.Resolve(empty, ""))
	assert.Equal(t, DefaultTargets, r.Resolve(filepath.Join(dir, "missing.json"), ""))
	assert.Equal(t, DefaultTargets, r.Resolve("", "unknown"))
	assert.Equal(t, DefaultTargets, r.Resolve("", ""))
	assert.Len(t, r.Resolve("", "finance_focus"), 13)
}
