package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type stageFile struct {
	Stages []Stage `yaml:"stages"`
}

// ParseStages reads a YAML stage list. A deployment overrides the built-in
// pipeline this way, e.g. to add flags or swap a stage script.
func ParseStages(yamlContent []byte) ([]Stage, error) {
	var file stageFile
	if err := yaml.Unmarshal(yamlContent, &file); err != nil {
		return nil, err
	}
	if err := ValidateStages(file.Stages); err != nil {
		return nil, err
	}
	return file.Stages, nil
}

// LoadStagesFile loads and validates a stage list from disk.
func LoadStagesFile(path string) ([]Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseStages(data)
}

func ValidateStages(stages []Stage) error {
	if len(stages) == 0 {
		return fmt.Errorf("no stages defined")
	}
	seen := make(map[string]bool)
	declared := make(map[string]bool)
	for i, stage := range stages {
		if stage.Name == "" {
			return fmt.Errorf("stage %d: name is required", i)
		}
		if seen[stage.Name] {
			return fmt.Errorf("stage name duplicated: %s", stage.Name)
		}
		seen[stage.Name] = true
		if len(stage.Command) == 0 {
			return fmt.Errorf("stage %s: command is required", stage.Name)
		}
		switch stage.OnFailure {
		case FailAbort, FailContinue, FailWarn:
		default:
			return fmt.Errorf("stage %s: unknown on_failure policy %q", stage.Name, stage.OnFailure)
		}
		for _, name := range stage.SkipWhenEmpty {
			if !contains(stage.Inputs, name) && !contains(stage.Outputs, name) {
				return fmt.Errorf("stage %s: skip_when_empty names undeclared artifact %s", stage.Name, name)
			}
		}
		// an input must come from an earlier stage's declared output
		for _, name := range stage.Inputs {
			if !declared[name] {
				return fmt.Errorf("stage %s: input %s is not produced by any earlier stage", stage.Name, name)
			}
		}
		for _, name := range stage.Outputs {
			declared[name] = true
		}
	}
	return nil
}
