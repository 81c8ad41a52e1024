package pipeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/serisow/lesocle-seeder/pipeline_type"
	"github.com/serisow/lesocle-seeder/plugin_registry"
)

// DefaultPlan authenticates and nothing else.
func DefaultPlan() *pipeline_type.Pipeline {
	return &pipeline_type.Pipeline{
		ID:    "default",
		Label: "Authenticate",
		Steps: []pipeline_type.PipelineStep{
			{ID: "Domain", Type: "domain"},
			{ID: "Auth", Type: "auth"},
		},
	}
}

// ParsePlan reads a YAML plan. Steps may be written as bare type names or as
// {id, type, description} mappings.
func ParsePlan(data []byte) (*pipeline_type.Pipeline, error) {
	var p pipeline_type.Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("error parsing plan: %w", err)
	}
	if len(p.Steps) == 0 {
		return nil, errors.New("plan has no steps")
	}
	if p.ID == "" {
		p.ID = "plan"
	}
	return &p, nil
}

func LoadPlan(path string) (*pipeline_type.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading plan %s: %w", path, err)
	}
	p, err := ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ValidatePlan rejects a plan naming a step type the registry does not know,
// so a typo fails before any request is sent.
func ValidatePlan(p *pipeline_type.Pipeline, registry *plugin_registry.PluginRegistry) error {
	var errs []error
	for i, s := range p.Steps {
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("step %d has no type", i+1))
			continue
		}
		if !registry.HasStepType(s.Type) {
			errs = append(errs, fmt.Errorf("step %d: unknown step type: %s", i+1, s.Type))
		}
	}
	return errors.Join(errs...)
}
