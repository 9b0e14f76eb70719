package umwelt

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Settings are the environment variables launch reads. CLI flags are exported into the
// environment before parsing so both paths land here.
type Settings struct {
	Manifest       string `env:"LAUNCH_MANIFEST" envDefault:"launch.yaml"`
	Environment    string `env:"LAUNCH_ENVIRONMENT" envDefault:"development"`
	StatePath      string `env:"LAUNCH_STATE" envDefault:".launch/state.db"`
	BusName        string `env:"LAUNCH_BUS_NAME"`
	TrackBranch    string `env:"LAUNCH_TRACK_BRANCH"`
	RegistryId     string `env:"AWS_ECR_REGISTRY_ID"`
	RegistryRegion string `env:"AWS_ECR_REGION"`
	ApiGatewayId   string `env:"AWS_API_GATEWAY_ID"`
}

// Anchor resolves a relative state path against dir, so one manifest keeps one state store
// wherever launch is invoked from.
func (s Settings) Anchor(dir string) Settings {
	if s.StatePath != "" && !filepath.IsAbs(s.StatePath) {
		s.StatePath = filepath.Join(dir, s.StatePath)
	}
	return s
}

func ParseSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, errors.Wrap(err, "parsing environment")
	}
	return s, nil
}
