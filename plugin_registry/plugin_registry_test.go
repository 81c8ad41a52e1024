package plugin_registry_test

import (
	"context"
	"testing"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline/step"
	"github.com/serisow/lesocle-seeder/pipeline_type"
	"github.com/serisow/lesocle-seeder/plugin_registry"
)

type MockStep struct {
	calls int
}

func (s *MockStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	s.calls++
	return nil
}

func (s *MockStep) GetType() string {
	return "mock_step"
}

func TestRegisterAndGetStepType(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	// Register a mock step type
	registry.RegisterStepType("mock_step", func() step.Step {
		return &MockStep{}
	})

	// Retrieve the step instance
	stepInstance, err := registry.GetStepInstance("mock_step")
	if err != nil {
		t.Fatalf("Expected to retrieve step instance, got error: %v", err)
	}

	if stepInstance.GetType() != "mock_step" {
		t.Errorf("Expected step type 'mock_step', got '%s'", stepInstance.GetType())
	}
}

func TestGetUnregisteredStepType(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	_, err := registry.GetStepInstance("unknown_step")
	if err == nil {
		t.Fatal("Expected error when retrieving unregistered step type, got nil")
	}

	expectedErrorMsg := "unknown step type: unknown_step"
	if err.Error() != expectedErrorMsg {
		t.Errorf("Expected error '%s', got '%s'", expectedErrorMsg, err.Error())
	}
}

func TestFactoryReturnsFreshInstances(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()
	registry.RegisterStepType("mock_step", func() step.Step {
		return &MockStep{}
	})

	first, _ := registry.GetStepInstance("mock_step")
	second, _ := registry.GetStepInstance("mock_step")
	if first == second {
		t.Error("Expected a new step instance on each call")
	}
}

func TestStepTypesAndDescriptions(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()
	registry.RegisterStepTypeWithDescription("zeta", "last one", func() step.Step { return &MockStep{} })
	registry.RegisterStepType("alpha", func() step.Step { return &MockStep{} })

	types := registry.StepTypes()
	if len(types) != 2 || types[0] != "alpha" || types[1] != "zeta" {
		t.Errorf("Expected sorted [alpha zeta], got %v", types)
	}
	if !registry.HasStepType("alpha") || registry.HasStepType("beta") {
		t.Error("HasStepType returned the wrong answer")
	}
	if got := registry.Description("zeta"); got != "last one" {
		t.Errorf("Expected description 'last one', got '%s'", got)
	}
	if got := registry.Description("alpha"); got != "" {
		t.Errorf("Expected empty description, got '%s'", got)
	}
}
