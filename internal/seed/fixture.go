package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixture.yml
var defaultFixture []byte

// Fixture is a hand-written data set. Posts are created in file order and
// reference their author by key and their tags by name.
type Fixture struct {
	Tags  []string      `yaml:"tags"`
	Users []FixtureUser `yaml:"users"`
	Posts []FixturePost `yaml:"posts"`
}

type FixtureUser struct {
	Key       string `yaml:"key"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	ImageURL  string `yaml:"image_url"`
}

type FixturePost struct {
	Author  string   `yaml:"author"`
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Tags    []string `yaml:"tags"`
}

// ParseFixture decodes a YAML fixture and checks that every post names a known author.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	keys := make(map[string]struct{}, len(f.Users))
	for _, u := range f.Users {
		if u.Key == "" {
			return nil, fmt.Errorf("fixture user %s %s has no key", u.FirstName, u.LastName)
		}
		if _, dup := keys[u.Key]; dup {
			return nil, fmt.Errorf("duplicate fixture user key %q", u.Key)
		}
		keys[u.Key] = struct{}{}
	}
	for _, p := range f.Posts {
		if _, ok := keys[p.Author]; !ok {
			return nil, fmt.Errorf("post %q references unknown author %q", p.Title, p.Author)
		}
	}
	return &f, nil
}

// DefaultFixture returns the embedded demo data set.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}
