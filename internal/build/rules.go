package build

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// CategoryRule maps catalog signals onto one category.
type CategoryRule struct {
	Name  Category `yaml:"name"`
	Tags  []string `yaml:"tags"`
	IDs   []string `yaml:"ids"`
	Stats []string `yaml:"stats"`
}

// Modifier describes how one item stat key contributes to a snapshot stat.
type Modifier struct {
	Stat    Stat `yaml:"stat"`
	Percent bool `yaml:"percent"`
}

// AbilityBonusRule grants PerRank of Stat for every learned rank of an
// ability whose description matches Pattern.
type AbilityBonusRule struct {
	Pattern string  `yaml:"pattern"`
	Stat    Stat    `yaml:"stat"`
	PerRank float64 `yaml:"perRank"`

	re *regexp.Regexp
}

// Matches reports whether the rule applies to an ability description.
func (r *AbilityBonusRule) Matches(description string) bool {
	return r.re != nil && r.re.MatchString(description)
}

// Rules are the data tables driving classification and aggregation.
type Rules struct {
	StarterCostThreshold int                 `yaml:"starterCostThreshold"`
	UniqueMarker         string              `yaml:"uniqueMarker"`
	BootsCategory        Category            `yaml:"bootsCategory"`
	DefaultCategory      Category            `yaml:"defaultCategory"`
	Categories           []CategoryRule      `yaml:"categories"`
	Modifiers            map[string]Modifier `yaml:"modifiers"`
	AbilityBonuses       []AbilityBonusRule  `yaml:"abilityBonuses"`

	categoryOrder map[Category]int
}

// ParseRules decodes a YAML rule document and compiles its patterns.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRulesFile reads a rule document from disk.
func LoadRulesFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRules(data)
}

var defaultRules = sync.OnceValue(func() *Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules: %v", err))
	}
	return r
})

// DefaultRules returns the embedded rule tables. The result is shared and
// must not be modified.
func DefaultRules() *Rules {
	return defaultRules()
}

func (r *Rules) compile() error {
	if r.DefaultCategory == "" {
		return fmt.Errorf("rules: defaultCategory is required")
	}
	if r.BootsCategory == "" {
		return fmt.Errorf("rules: bootsCategory is required")
	}

	r.categoryOrder = make(map[Category]int, len(r.Categories)+1)
	for i, c := range r.Categories {
		if c.Name == "" {
			return fmt.Errorf("rules: category %d has no name", i)
		}
		if _, dup := r.categoryOrder[c.Name]; dup {
			return fmt.Errorf("rules: duplicate category %q", c.Name)
		}
		r.categoryOrder[c.Name] = i
	}
	if _, ok := r.categoryOrder[r.DefaultCategory]; !ok {
		r.categoryOrder[r.DefaultCategory] = len(r.Categories)
	}

	for i := range r.AbilityBonuses {
		re, err := regexp.Compile(r.AbilityBonuses[i].Pattern)
		if err != nil {
			return fmt.Errorf("rules: ability bonus %d: %w", i, err)
		}
		r.AbilityBonuses[i].re = re
	}
	return nil
}

// CategoryOrder returns the display position of a category. Unknown
// categories sort after every configured one.
func (r *Rules) CategoryOrder(c Category) int {
	if i, ok := r.categoryOrder[c]; ok {
		return i
	}
	return len(r.categoryOrder)
}

// CategoryNames lists the configured categories in display order, the
// default category last.
func (r *Rules) CategoryNames() []Category {
	out := make([]Category, 0, len(r.Categories)+1)
	for _, c := range r.Categories {
		out = append(out, c.Name)
	}
	if idx := r.categoryOrder[r.DefaultCategory]; idx == len(r.Categories) {
		out = append(out, r.DefaultCategory)
	}
	return out
}
