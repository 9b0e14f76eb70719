// Package declare holds the declarations a manifest is made of.
//
// A declaration is an inert value: it names a resource kind, a stable logical name and the
// build recipe used to produce its artifact. Nothing in this package talks to a provider;
// the conventions under pkg/convention read manifests and do the provisioning.
package declare

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"sort"
)

type Kind string

// KindHTTPService is a stateless HTTP compute service built from a container recipe.
const KindHTTPService Kind = "http-service"

const (
	DefaultDockerfile       = "Dockerfile"
	DefaultMemory           = int32(128)
	DefaultTimeout          = int32(3)
	DefaultEphemeralStorage = int32(512)
)

var kinds = map[Kind]struct{}{
	KindHTTPService: {},
}

// Service declares one resource. Name is the key used to match the declaration with what
// was provisioned by previous invocations, so it must not change once a service is live.
type Service struct {
	Kind             Kind              `yaml:"kind,omitempty" json:"kind"`
	Name             string            `yaml:"name,omitempty" json:"name"`
	Dockerfile       string            `yaml:"dockerfile,omitempty" json:"dockerfile"`
	Context          string            `yaml:"context,omitempty" json:"context,omitempty"`
	Memory           int32             `yaml:"memory,omitempty" json:"memory"`
	Timeout          int32             `yaml:"timeout,omitempty" json:"timeout"`
	EphemeralStorage int32             `yaml:"ephemeralStorage,omitempty" json:"ephemeralStorage"`
	Private          bool              `yaml:"private,omitempty" json:"private"`
	Env              map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Policy           string            `yaml:"policy,omitempty" json:"policy,omitempty"`
}

type Option func(*Service)

// HTTPService declares a stateless HTTP service. The returned value has defaults applied.
func HTTPService(name string, opts ...Option) Service {
	s := Service{
		Kind: KindHTTPService,
		Name: name,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s.withDefaults()
}

// Dockerfile sets the build recipe path, relative to the manifest.
func Dockerfile(path string) Option {
	return func(s *Service) {
		s.Dockerfile = path
	}
}

// Context sets the build context directory, relative to the manifest.
func Context(path string) Option {
	return func(s *Service) {
		s.Context = path
	}
}

func Memory(mb int32) Option {
	return func(s *Service) {
		s.Memory = mb
	}
}

func Timeout(seconds int32) Option {
	return func(s *Service) {
		s.Timeout = seconds
	}
}

func EphemeralStorage(mb int32) Option {
	return func(s *Service) {
		s.EphemeralStorage = mb
	}
}

// Private requires signed requests on the service URL.
func Private() Option {
	return func(s *Service) {
		s.Private = true
	}
}

func Env(key, value string) Option {
	return func(s *Service) {
		if s.Env == nil {
			s.Env = map[string]string{}
		}
		s.Env[key] = value
	}
}

// Policy points at an IAM policy template, relative to the manifest.
func Policy(path string) Option {
	return func(s *Service) {
		s.Policy = path
	}
}

func (s Service) withDefaults() Service {
	if s.Kind == "" {
		s.Kind = KindHTTPService
	}

	if s.Dockerfile == "" {
		s.Dockerfile = DefaultDockerfile
	}

	if s.Memory == 0 {
		s.Memory = DefaultMemory
	}

	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}

	if s.EphemeralStorage == 0 {
		s.EphemeralStorage = DefaultEphemeralStorage
	}

	return s
}

// BuildContext is the declared context directory, or the directory holding the Dockerfile.
func (s Service) BuildContext() string {
	if s.Context != "" {
		return s.Context
	}
	return filepath.Dir(s.Dockerfile)
}

func (s Service) clone() Service {
	if s.Env != nil {
		env := make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			env[k] = v
		}
		s.Env = env
	}
	return s
}

// EnvKeys returns the environment variable names in sorted order.
func (s Service) EnvKeys() []string {
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hash digests every deployable setting of the declaration. Two declarations with the same
// hash converge to the same live configuration.
func (s Service) Hash() string {
	// encoding/json sorts map keys, which keeps the digest stable.
	b, _ := json.Marshal(s.withDefaults())
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:16]
}
