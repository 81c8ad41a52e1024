package pipeline_type

import "gopkg.in/yaml.v3"

// Pipeline is an ordered list of steps run against one context.
type Pipeline struct {
	ID      string         `yaml:"id" json:"id"`
	Label   string         `yaml:"label" json:"label"`
	Steps   []PipelineStep `yaml:"steps" json:"steps"`
	Context *Context       `yaml:"-" json:"-"`
}

type PipelineStep struct {
	ID              string `yaml:"id" json:"id"`
	Type            string `yaml:"type" json:"type"`
	StepDescription string `yaml:"description,omitempty" json:"step_description,omitempty"`
}

// Name is what gets logged for the step: its ID, or its type when unnamed.
func (s PipelineStep) Name() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Type
}

// UnmarshalYAML accepts a bare scalar as shorthand for {type: <scalar>}.
func (s *PipelineStep) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Type = node.Value
		return nil
	}
	type plain PipelineStep
	return node.Decode((*plain)(s))
}
