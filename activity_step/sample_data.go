package activity_step

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/activities.yaml
var defaultActivitiesYAML []byte

type SampleActivity struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Supplier    string `yaml:"supplier"`
}

type sampleActivitiesFile struct {
	Activities []SampleActivity `yaml:"activities"`
}

// LoadSampleActivities reads the activities to create from path, or the
// built-in set when path is empty.
func LoadSampleActivities(path string) ([]SampleActivity, error) {
	data := defaultActivitiesYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading sample activities: %w", err)
		}
	}
	return ParseSampleActivities(data)
}

func ParseSampleActivities(data []byte) ([]SampleActivity, error) {
	var file sampleActivitiesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing sample activities: %w", err)
	}
	for i, a := range file.Activities {
		if a.Title == "" {
			return nil, fmt.Errorf("sample activity %d has no title", i+1)
		}
	}
	if len(file.Activities) == 0 {
		return nil, errors.New("no sample activities defined")
	}
	return file.Activities, nil
}
