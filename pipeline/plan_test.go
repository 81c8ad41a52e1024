package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serisow/lesocle-seeder/pipeline/step"
	"github.com/serisow/lesocle-seeder/plugin_registry"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantID    string
		wantTypes []string
		wantNames []string
		wantErr   string
	}{
		{
			name: "shorthand",
			yaml: `
id: seed
steps:
  - domain
  - auth
  - create_activities
`,
			wantID:    "seed",
			wantTypes: []string{"domain", "auth", "create_activities"},
			wantNames: []string{"domain", "auth", "create_activities"},
		},
		{
			name: "mapping",
			yaml: `
label: Full seed
steps:
  - id: Domain
    type: domain
  - id: Auth
    type: auth
    description: log in as admin
`,
			wantID:    "plan",
			wantTypes: []string{"domain", "auth"},
			wantNames: []string{"Domain", "Auth"},
		},
		{name: "empty", yaml: "id: x\nsteps: []\n", wantErr: "plan has no steps"},
		{name: "malformed", yaml: "steps: [", wantErr: "error parsing plan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePlan([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)

			var types, names []string
			for _, s := range p.Steps {
				types = append(types, s.Type)
				names = append(names, s.Name())
			}
			assert.Equal(t, tt.wantTypes, types)
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - domain\n"), 0o644))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, p.Steps, 1)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidatePlan(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()
	registry.RegisterStepType("domain", func() step.Step { return step.Func{Type: "domain"} })
	registry.RegisterStepType("auth", func() step.Step { return step.Func{Type: "auth"} })

	assert.NoError(t, ValidatePlan(DefaultPlan(), registry))

	p, err := ParsePlan([]byte("steps:\n  - domain\n  - atuh\n  - id: nameless\n"))
	require.NoError(t, err)

	err = ValidatePlan(p, registry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2: unknown step type: atuh")
	assert.Contains(t, err.Error(), "step 3 has no type")
}
