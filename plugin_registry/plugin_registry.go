package plugin_registry

import (
	"fmt"
	"maps"
	"slices"

	"github.com/serisow/lesocle-seeder/pipeline/step"
)

type PluginRegistry struct {
	stepTypes    map[string]func() step.Step
	descriptions map[string]string
}

func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		stepTypes:    make(map[string]func() step.Step),
		descriptions: make(map[string]string),
	}
}

// RegisterStepType registers a new step type
func (pr *PluginRegistry) RegisterStepType(typeName string, factory func() step.Step) {
	pr.stepTypes[typeName] = factory
}

// RegisterStepTypeWithDescription registers a step type along with the one-line
// description shown by the -list flag.
func (pr *PluginRegistry) RegisterStepTypeWithDescription(typeName, description string, factory func() step.Step) {
	pr.RegisterStepType(typeName, factory)
	pr.descriptions[typeName] = description
}

// GetStepInstance returns a new instance of a step type
func (pr *PluginRegistry) GetStepInstance(typeName string) (step.Step, error) {
	factory, ok := pr.stepTypes[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown step type: %s", typeName)
	}
	return factory(), nil
}

func (pr *PluginRegistry) HasStepType(typeName string) bool {
	_, ok := pr.stepTypes[typeName]
	return ok
}

// StepTypes returns the registered type names in sorted order.
func (pr *PluginRegistry) StepTypes() []string {
	return slices.Sorted(maps.Keys(pr.stepTypes))
}

func (pr *PluginRegistry) Description(typeName string) string {
	return pr.descriptions[typeName]
}
