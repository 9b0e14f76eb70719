package declare

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultManifest = "launch.yaml"
	DefaultVersion  = "1.0.0"

	supportedVersions = ">= 1.0.0, < 2.0.0"
)

// Manifest is the ordered list of declarations found in one file.
type Manifest struct {
	Version      string                        `yaml:"version,omitempty" json:"version"`
	Project      string                        `yaml:"project,omitempty" json:"project"`
	Services     []Service                     `yaml:"services" json:"services"`
	Environments map[string]map[string]Service `yaml:"environments,omitempty" json:"environments,omitempty"`

	// Dir is the absolute directory paths in the manifest are relative to.
	Dir string `yaml:"-" json:"dir"`
}

// New assembles a manifest from declarations made in code. dir anchors relative paths.
func New(dir, project string, services ...Service) (Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Manifest{}, errors.Wrapf(err, "resolving %s", dir)
	}

	m := Manifest{
		Version:  DefaultVersion,
		Project:  project,
		Services: services,
		Dir:      abs,
	}

	return m.normalize()
}

// Load reads, defaults and validates the manifest at path. It has no side effects beyond
// reading the file and checking that declared build recipes exist.
func Load(path string) (Manifest, error) {
	var m Manifest

	abs, err := filepath.Abs(path)
	if err != nil {
		return Manifest{}, errors.Wrapf(err, "resolving %s", path)
	}

	raw, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return Manifest{}, errors.Wrapf(ErrNotFound, "manifest %s", path)
	}
	if err != nil {
		return Manifest{}, errors.Wrapf(err, "reading manifest %s", path)
	}

	if m, err = Decode(raw); err != nil {
		return Manifest{}, errors.Wrapf(err, "decoding manifest %s", path)
	}

	m.Dir = filepath.Dir(abs)

	return m.normalize()
}

// Decode parses manifest YAML. Unknown fields are rejected so typos surface early.
func Decode(raw []byte) (m Manifest, err error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	if err = dec.Decode(&m); err != nil && err != io.EOF {
		return Manifest{}, err
	}

	return m, nil
}

func (m Manifest) normalize() (Manifest, error) {
	if m.Version == "" {
		m.Version = DefaultVersion
	}

	if m.Project == "" {
		m.Project = strings.ToLower(filepath.Base(m.Dir))
	}

	services := make([]Service, 0, len(m.Services))
	for _, s := range m.Services {
		services = append(services, s.clone().withDefaults())
	}
	m.Services = services

	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}

	return m, nil
}

// Validate checks the manifest without touching the provider.
func (m Manifest) Validate() error {
	version, err := semver.NewVersion(m.Version)
	if err != nil {
		return errors.Wrapf(ErrUnsupportedVersion, "%q", m.Version)
	}

	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}

	if !constraint.Check(version) {
		return errors.Wrapf(ErrUnsupportedVersion, "%s does not satisfy %s", m.Version, supportedVersions)
	}

	if err := ValidateName(m.Project); err != nil {
		return errors.Wrap(err, "project")
	}

	if len(m.Services) == 0 {
		return ErrEmpty
	}

	seen := map[string]struct{}{}
	for _, s := range m.Services {
		if _, exists := seen[s.Name]; exists {
			return errors.Wrapf(ErrDuplicateName, "service %s", s.Name)
		}
		seen[s.Name] = struct{}{}

		if err := m.validateService(s); err != nil {
			return err
		}
	}

	for env, overrides := range m.Environments {
		if err := ValidateName(env); err != nil {
			return errors.Wrapf(err, "environment %q", env)
		}

		for name := range overrides {
			if _, exists := seen[name]; !exists {
				return errors.Wrapf(ErrNotDeclared, "environment %s overrides %s", env, name)
			}
		}
	}

	return nil
}

func (m Manifest) validateService(s Service) error {
	if err := ValidateName(s.Name); err != nil {
		return errors.Wrap(err, "service")
	}

	if _, known := kinds[s.Kind]; !known {
		return errors.Wrapf(ErrUnknownKind, "service %s: %q", s.Name, s.Kind)
	}

	if err := validateBounds(s); err != nil {
		return errors.Wrapf(err, "service %s", s.Name)
	}

	dockerfile := m.Path(s.Dockerfile)
	if info, err := os.Stat(dockerfile); err != nil || info.IsDir() {
		return errors.Wrapf(ErrNotFound, "service %s: build recipe %s", s.Name, dockerfile)
	}

	context := m.Path(s.BuildContext())
	if info, err := os.Stat(context); err != nil || !info.IsDir() {
		return errors.Wrapf(ErrNotFound, "service %s: build context %s", s.Name, context)
	}

	if s.Policy != "" {
		if _, err := os.Stat(m.Path(s.Policy)); err != nil {
			return errors.Wrapf(ErrNotFound, "service %s: policy %s", s.Name, m.Path(s.Policy))
		}
	}

	return nil
}

// Path resolves a manifest-relative path.
func (m Manifest) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Dir, rel)
}

// DockerfilePath is the absolute path of the service's build recipe.
func (m Manifest) DockerfilePath(s Service) string {
	return m.Path(s.Dockerfile)
}

// ContextPath is the absolute path of the service's build context.
func (m Manifest) ContextPath(s Service) string {
	return m.Path(s.BuildContext())
}
