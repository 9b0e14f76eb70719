package declare

import (
	"dario.cat/mergo"
	"github.com/pkg/errors"
	"github.com/ryanuber/go-glob"
)

// ForEnvironment returns a copy of the manifest with the environment's overrides merged
// over each declaration. Non-zero override fields win; env maps are merged key by key.
func (m Manifest) ForEnvironment(env string) (Manifest, error) {
	overrides := m.Environments[env]

	services := make([]Service, 0, len(m.Services))
	for _, s := range m.Services {
		merged := s.clone()

		if override, exists := overrides[s.Name]; exists {
			override = override.clone()
			override.Name = ""

			if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
				return Manifest{}, errors.Wrapf(err, "merging %s overrides for %s", env, s.Name)
			}
		}

		if err := m.validateService(merged); err != nil {
			return Manifest{}, errors.Wrapf(err, "environment %s", env)
		}

		services = append(services, merged)
	}

	m.Services = services
	return m, nil
}

// Select returns the declarations whose names match any of the glob patterns, in manifest
// order. No patterns selects everything.
func (m Manifest) Select(patterns ...string) []Service {
	if len(patterns) == 0 {
		return m.Services
	}

	var selected []Service
	for _, s := range m.Services {
		for _, pattern := range patterns {
			if glob.Glob(pattern, s.Name) {
				selected = append(selected, s)
				break
			}
		}
	}

	return selected
}

func (m Manifest) Lookup(name string) (Service, error) {
	for _, s := range m.Services {
		if s.Name == name {
			return s, nil
		}
	}

	return Service{}, errors.Wrapf(ErrNotDeclared, "service %s", name)
}

func (m Manifest) Names() []string {
	names := make([]string, 0, len(m.Services))
	for _, s := range m.Services {
		names = append(names, s.Name)
	}
	return names
}
