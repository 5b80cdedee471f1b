package classify

import (
	"fmt"
	"os"
	"strings"

	"github.com/shanehull/corpbrief/internal/types"
	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk shape of a rule set. Tier order is fixed by the
// field order, not by the file.
type rulesFile struct {
	Primary   []Category `yaml:"primary"`
	Secondary []Category `yaml:"secondary"`
	Tertiary  []Category `yaml:"tertiary"`
	Risk      []Category `yaml:"risk"`
}

// LoadRules reads tier rules from a YAML file.
func LoadRules(path string) ([]TierRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) ([]TierRule, error) {
	var raw rulesFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := []TierRule{
		{Tier: types.TierPrimary, Categories: raw.Primary},
		{Tier: types.TierSecondary, Categories: raw.Secondary},
		{Tier: types.TierTertiary, Categories: raw.Tertiary},
		{Tier: types.TierRisk, Categories: raw.Risk},
	}

	total := 0
	for _, r := range rules {
		for _, c := range r.Categories {
			if strings.TrimSpace(c.Name) == "" {
				return nil, fmt.Errorf("%s tier has a category without a name", r.Tier)
			}
			if len(c.Keywords) == 0 {
				return nil, fmt.Errorf("category %q in %s tier has no keywords", c.Name, r.Tier)
			}
			total++
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("rules define no categories")
	}

	return rules, nil
}
