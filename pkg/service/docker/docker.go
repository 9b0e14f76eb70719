package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Platform is the only architecture launch publishes; Lambda functions are created to match.
const Platform = "linux/amd64"

type Service struct {
	Binary string
}

type BuildInput struct {
	Dockerfile string
	Context    string
	Tags       []string
	Labels     map[string]string
}

func FromPath(ctx context.Context) (Service, error) {
	binary, err := exec.LookPath("docker")
	if err != nil {
		return Service{}, errors.Wrap(err, "docker cli is required to build images")
	}

	return Service{Binary: binary}, nil
}

func (s Service) command(ctx context.Context, args ...string) *exec.Cmd {
	log.Debug().Strs("args", args).Msg("docker")
	cmd := exec.CommandContext(ctx, s.Binary, args...)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr
	return cmd
}

func (s Service) Login(ctx context.Context, registryUrl, username, password string) error {
	cmd := s.command(ctx, "login", "--username", username, "--password-stdin", registryUrl)
	cmd.Stdin = strings.NewReader(password)

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "docker login %s", registryUrl)
	}

	return nil
}

// BuildArgs renders the docker build argv. Labels are sorted so builds are reproducible.
func BuildArgs(i BuildInput) []string {
	args := []string{
		"build",
		"--platform", Platform,
		"--provenance=false",
		"-f", i.Dockerfile,
	}

	for _, tag := range i.Tags {
		args = append(args, "-t", tag)
	}

	keys := make([]string, 0, len(i.Labels))
	for key := range i.Labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		args = append(args, "--label", fmt.Sprintf("%s=%s", key, i.Labels[key]))
	}

	return append(args, i.Context)
}

func (s Service) Build(ctx context.Context, i BuildInput) error {
	cmd := s.command(ctx, BuildArgs(i)...)
	cmd.Env = append(cmd.Env, "DOCKER_BUILDKIT=1")

	if _, err := cmd.Output(); err != nil {
		return errors.Wrapf(err, "docker build %s", i.Dockerfile)
	}

	return nil
}

func (s Service) Push(ctx context.Context, tag string) error {
	cmd := s.command(ctx, "push", tag)
	cmd.Stdout = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "docker push %s", tag)
	}

	return nil
}

func (s Service) Inspect(ctx context.Context, image string) (types.ImageInspect, error) {
	output, err := s.command(ctx, "image", "inspect", image).Output()
	if err != nil {
		return types.ImageInspect{}, errors.Wrapf(err, "docker image inspect %s", image)
	}

	return DecodeInspect(output, image)
}

func DecodeInspect(output []byte, image string) (types.ImageInspect, error) {
	var inspectData []types.ImageInspect
	if err := json.Unmarshal(output, &inspectData); err != nil {
		return types.ImageInspect{}, err
	}

	if len(inspectData) == 0 {
		return types.ImageInspect{}, fmt.Errorf("no image found for %s", image)
	}

	if len(inspectData) > 1 {
		return types.ImageInspect{}, fmt.Errorf("multiple images found for %s", image)
	}

	return inspectData[0], nil
}
