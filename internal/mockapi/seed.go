package mockapi

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

//go:embed seed.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in mock portfolio.
func DefaultSeed() portfolio.Snapshot {
	snap, err := ParseSeed(defaultSeed)
	if err != nil {
		panic("mockapi: embedded seed is invalid: " + err.Error())
	}
	return snap
}

// LoadSeed reads seed data from path, or returns DefaultSeed when path is empty.
func LoadSeed(path string) (portfolio.Snapshot, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return portfolio.Snapshot{}, errors.Wrapf(err, "failed to read seed file %s", path)
	}
	snap, err := ParseSeed(data)
	if err != nil {
		return portfolio.Snapshot{}, errors.Wrapf(err, "failed to load seed file %s", path)
	}
	return snap, nil
}

// ParseSeed decodes YAML seed data and checks that skill and project ids
// are unique.
func ParseSeed(data []byte) (portfolio.Snapshot, error) {
	var snap portfolio.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return portfolio.Snapshot{}, errors.Wrap(err, "failed to parse seed yaml")
	}

	seen := make(map[string]bool, len(snap.Skills))
	for _, s := range snap.Skills {
		if err := s.Validate(); err != nil {
			return portfolio.Snapshot{}, errors.Wrapf(err, "skill %q", s.ID)
		}
		if seen[s.ID] {
			return portfolio.Snapshot{}, errors.Errorf("duplicate skill id %q", s.ID)
		}
		seen[s.ID] = true
	}

	seen = make(map[string]bool, len(snap.Projects))
	for _, p := range snap.Projects {
		if err := p.Validate(); err != nil {
			return portfolio.Snapshot{}, errors.Wrapf(err, "project %q", p.ID)
		}
		if seen[p.ID] {
			return portfolio.Snapshot{}, errors.Errorf("duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}

	if snap.Skills == nil {
		snap.Skills = []portfolio.Skill{}
	}
	if snap.Projects == nil {
		snap.Projects = []portfolio.Project{}
	}
	return snap, nil
}
