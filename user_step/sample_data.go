package user_step

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/users.yaml
var defaultUsersYAML []byte

type SampleUser struct {
	Username  string `yaml:"username" json:"username"`
	Email     string `yaml:"email" json:"email"`
	FirstName string `yaml:"firstName" json:"firstName"`
	LastName  string `yaml:"lastName" json:"lastName"`
	Role      string `yaml:"role" json:"role"`
}

// LoadSampleUsers reads the users to create from path, or the built-in set
// when path is empty.
func LoadSampleUsers(path string) ([]SampleUser, error) {
	data := defaultUsersYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading sample users: %w", err)
		}
	}

	var file struct {
		Users []SampleUser `yaml:"users"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing sample users: %w", err)
	}
	if len(file.Users) == 0 {
		return nil, errors.New("no sample users defined")
	}
	for i, u := range file.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("sample user %d has no username", i+1)
		}
	}
	return file.Users, nil
}
