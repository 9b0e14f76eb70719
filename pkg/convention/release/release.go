package release

import (
	"context"
	"sort"
	"time"

	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/internal/util"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/declare"
	"github.com/linecard/launch/pkg/service/docker"
	"github.com/linecard/launch/pkg/service/registry"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/docker/docker/api/types"
	"github.com/golang-module/carbon/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RetainWeeks is how long sha-only releases survive a prune.
const RetainWeeks = 4

type RegistryService interface {
	InspectRepository(ctx context.Context, registryId, name string) (*registry.Repository, error)
	Token(ctx context.Context, registryId string) (string, error)
	Digest(ctx context.Context, registryId, repository string, id ecrtypes.ImageIdentifier) (string, error)
	Inspect(ctx context.Context, registryId, repository string, id ecrtypes.ImageIdentifier) (types.ImageInspect, error)
	List(ctx context.Context, registryId, repository string) ([]ecrtypes.ImageDetail, error)
	Delete(ctx context.Context, registryId, repository string, imageDigests []string) error
	Untag(ctx context.Context, registryId, repository, tag string) error
}

type BuildService interface {
	Login(ctx context.Context, registryUrl, username, password string) error
	Build(ctx context.Context, i docker.BuildInput) error
	Push(ctx context.Context, tag string) error
	Inspect(ctx context.Context, image string) (types.ImageInspect, error)
}

// Image is a local build waiting to be published.
type Image struct {
	types.ImageInspect
	Service declare.Service
	Tags    []string
}

// Release is a published image and the declaration it was built from.
type Release struct {
	Labels config.ReleaseLabels
	Tag    string
	Digest string
	Uri    string
}

type Summary struct {
	Branch string
	Sha    string
	Digest string
	Pushed time.Time
	Age    string
}

type Services struct {
	Registry RegistryService
	Build    BuildService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, r RegistryService, b BuildService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Registry: r,
			Build:    b,
		},
	}
}

// Tags are the image references a build of s is published under: the branch and the sha.
func (c Convention) Tags(s declare.Service) []string {
	var tags []string

	if c.Config.Git.Branch != "" {
		tags = append(tags, c.Config.ImageTag(s.Name, util.DeSlasher(c.Config.Git.Branch)))
	}

	return append(tags, c.Config.ImageTag(s.Name, c.Config.Git.Sha))
}

// Build runs docker against the declaration's recipe and labels the result with the declaration.
func (c Convention) Build(ctx context.Context, m declare.Manifest, s declare.Service) (Image, error) {
	ctx, span := tracing.Start(ctx, "release.Build", s.Name)
	defer span.End()

	if c.Config.Git.Sha == "" {
		return Image{}, tracing.Fail(span, errors.New("cannot build without a git sha"))
	}

	labels, err := c.Config.Labels(s)
	if err != nil {
		return Image{}, tracing.Fail(span, err)
	}

	input := docker.BuildInput{
		Dockerfile: m.DockerfilePath(s),
		Context:    m.ContextPath(s),
		Tags:       c.Tags(s),
		Labels:     labels,
	}

	span.SetAttributes(
		attribute.String("build.dockerfile", input.Dockerfile),
		attribute.String("build.context", input.Context),
		attribute.StringSlice("build.tags", input.Tags),
		attribute.Bool("git.dirty", c.Config.Git.Dirty),
	)

	log.Info().Str("service", s.Name).Strs("tags", input.Tags).Msg("building")

	if err := c.Service.Build.Build(ctx, input); err != nil {
		return Image{}, tracing.Fail(span, err)
	}

	inspect, err := c.Service.Build.Inspect(ctx, c.Config.ImageTag(s.Name, c.Config.Git.Sha))
	if err != nil {
		return Image{}, tracing.Fail(span, err)
	}

	return Image{ImageInspect: inspect, Service: s, Tags: input.Tags}, nil
}

// Publish pushes every tag of the image and returns the release the registry now holds.
func (c Convention) Publish(ctx context.Context, i Image, allowDirty bool) (Release, error) {
	ctx, span := tracing.Start(ctx, "release.Publish", i.Service.Name)
	defer span.End()

	if c.Config.Git.Dirty && !allowDirty {
		return Release{}, tracing.Fail(span, config.ErrDirty)
	}

	repositoryName := c.Config.RepositoryName(i.Service.Name)

	repository, err := c.Service.Registry.InspectRepository(ctx, c.Config.Registry.Id, repositoryName)
	if err != nil {
		return Release{}, tracing.Fail(span, err)
	}

	if repository == nil {
		return Release{}, tracing.Fail(span, errors.Wrapf(config.ErrNotProvisioned, "repository %s", repositoryName))
	}

	token, err := c.Service.Registry.Token(ctx, c.Config.Registry.Id)
	if err != nil {
		return Release{}, tracing.Fail(span, err)
	}

	if err := c.Service.Build.Login(ctx, c.Config.Registry.Url, "AWS", token); err != nil {
		return Release{}, tracing.Fail(span, err)
	}

	for _, tag := range i.Tags {
		log.Info().Str("service", i.Service.Name).Str("tag", tag).Msg("pushing")
		if err := c.Service.Build.Push(ctx, tag); err != nil {
			return Release{}, tracing.Fail(span, err)
		}
	}

	return c.Find(ctx, i.Service.Name, c.Config.Git.Sha)
}

// Find resolves a tag in the service's repository and decodes the declaration it carries.
func (c Convention) Find(ctx context.Context, service, tag string) (Release, error) {
	ctx, span := tracing.Start(ctx, "release.Find", service)
	defer span.End()

	repositoryName := c.Config.RepositoryName(service)

	span.SetAttributes(
		attribute.String("registry.id", c.Config.Registry.Id),
		attribute.String("repository.name", repositoryName),
		attribute.String("tag", tag),
	)

	digest, err := c.Service.Registry.Digest(ctx, c.Config.Registry.Id, repositoryName, registry.ByTag(tag))
	if err != nil {
		return Release{}, tracing.Fail(span, err)
	}

	inspect, err := c.Service.Registry.Inspect(ctx, c.Config.Registry.Id, repositoryName, registry.ByDigest(digest))
	if err != nil {
		return Release{}, tracing.Fail(span, err)
	}

	if inspect.Config == nil {
		return Release{}, tracing.Fail(span, errors.Errorf("release %s:%s has no image config", repositoryName, tag))
	}

	labels, err := config.DecodeLabels(inspect.Config.Labels)
	if err != nil {
		return Release{}, tracing.Fail(span, errors.Wrapf(err, "release %s:%s", repositoryName, tag))
	}

	if labels.Service.Name != service {
		return Release{}, tracing.Fail(span, errors.Errorf("release %s:%s declares %s", repositoryName, tag, labels.Service.Name))
	}

	span.SetAttributes(attribute.String("image.digest", digest))

	return Release{
		Labels: labels,
		Tag:    tag,
		Digest: digest,
		Uri:    c.Config.ImageUri(service, digest),
	}, nil
}

// List summarizes the service's releases, newest first. A missing repository has none.
func (c Convention) List(ctx context.Context, service string) ([]Summary, error) {
	var summaries []Summary

	ctx, span := tracing.Start(ctx, "release.List", service)
	defer span.End()

	repositoryName := c.Config.RepositoryName(service)

	repository, err := c.Service.Registry.InspectRepository(ctx, c.Config.Registry.Id, repositoryName)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	if repository == nil {
		return []Summary{}, nil
	}

	images, err := c.Service.Registry.List(ctx, c.Config.Registry.Id, repositoryName)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	for _, image := range images {
		summary := Summary{Digest: aws.ToString(image.ImageDigest)}

		if image.ImagePushedAt != nil {
			summary.Pushed = *image.ImagePushedAt
			summary.Age = carbon.CreateFromStdTime(summary.Pushed).DiffForHumans()
		}

		for _, tag := range image.ImageTags {
			if util.ShaLike(tag) {
				summary.Sha = tag
			} else {
				summary.Branch = tag
			}
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Pushed.After(summaries[j].Pushed)
	})

	return summaries, nil
}

// PrunePlan splits releases into kept and deletable digests. Untagged images are always
// deletable; sha-only images are deletable once older than RetainWeeks. Branch tags and
// digests some environment still runs (inUse) are kept.
func (c Convention) PrunePlan(ctx context.Context, service string, now time.Time, inUse []string) (keep []Summary, drop []string, err error) {
	releases, err := c.List(ctx, service)
	if err != nil {
		return nil, nil, err
	}

	cutoff := carbon.CreateFromStdTime(now).SubWeeks(RetainWeeks)

	running := make(map[string]bool, len(inUse))
	for _, digest := range inUse {
		running[digest] = true
	}

	for _, release := range releases {
		pushed := carbon.CreateFromStdTime(release.Pushed)

		switch {
		case running[release.Digest]:
			keep = append(keep, release)
		case release.Branch == "" && release.Sha == "":
			drop = append(drop, release.Digest)
		case release.Branch == "" && pushed.Lt(cutoff):
			drop = append(drop, release.Digest)
		default:
			keep = append(keep, release)
		}
	}

	return keep, drop, nil
}

func (c Convention) Prune(ctx context.Context, service string, digests []string) error {
	ctx, span := tracing.Start(ctx, "release.Prune", service)
	defer span.End()

	span.SetAttributes(attribute.StringSlice("image.digests", digests))

	return tracing.Fail(span, c.Service.Registry.Delete(ctx, c.Config.Registry.Id, c.Config.RepositoryName(service), digests))
}

func (c Convention) Untag(ctx context.Context, service, tag string) error {
	ctx, span := tracing.Start(ctx, "release.Untag", service)
	defer span.End()

	return tracing.Fail(span, c.Service.Registry.Untag(ctx, c.Config.Registry.Id, c.Config.RepositoryName(service), util.DeSlasher(tag)))
}
