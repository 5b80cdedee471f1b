package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules_MatchesDefaults(t *testing.T) {
	rules, err := LoadRules("../../configs/classify_rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}

func TestParseRules_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty",
			yaml:    "{}",
			wantErr: "no categories",
		},
		{
			name:    "missing name",
			yaml:    "primary:\n  - keywords: [a]\n",
			wantErr: "without a name",
		},
		{
			name:    "missing keywords",
			yaml:    "risk:\n  - category: 분쟁\n",
			wantErr: "has no keywords",
		},
		{
			name:    "bad yaml",
			yaml:    "primary: [",
			wantErr: "failed to parse rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRules_PartialTiers(t *testing.T) {
	rules, err := ParseRules([]byte("tertiary:\n  - category: 수주\n    keywords: [수주]\n"))
	require.NoError(t, err)

	c := New(rules, Options{})
	_, category, ok := c.Match("대규모 수주 공시")
	require.True(t, ok)
	assert.Equal(t, "수주", category)
}
