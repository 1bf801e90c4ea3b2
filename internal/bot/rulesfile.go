package bot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Buay-SS/slipbot/internal/slip"
)

// ruleFile mirrors the Rules worksheet for running without sheet access.
type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Identifier string `yaml:"identifier"`
	Field      string `yaml:"field"`
	Method     string `yaml:"method"`
	Pattern    string `yaml:"pattern"`
	Value      string `yaml:"value"`
}

// LoadRulesFile reads extraction rules from a local YAML file. Entries with
// an unknown field or method are dropped, matching the worksheet loader.
func LoadRulesFile(path string) ([]slip.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	var rules []slip.Rule
	for _, e := range rf.Rules {
		field, ok := slip.ParseField(e.Field)
		if !ok {
			continue
		}
		method, ok := slip.ParseMethod(e.Method)
		if !ok {
			continue
		}
		rules = append(rules, slip.Rule{
			Identifier: e.Identifier,
			Field:      field,
			Method:     method,
			Pattern:    e.Pattern,
			Value:      e.Value,
		})
	}
	return rules, nil
}
