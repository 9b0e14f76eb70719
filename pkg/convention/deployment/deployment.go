package deployment

import (
	"context"
	"time"

	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/convention/release"
	"github.com/linecard/launch/pkg/declare"
	"github.com/linecard/launch/pkg/service/function"
	"github.com/linecard/launch/pkg/state"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type FunctionService interface {
	Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error)
	PutFunction(ctx context.Context, spec function.FunctionSpec) (*lambda.GetFunctionOutput, error)
	DeleteFunction(ctx context.Context, name string) error
	InspectUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error)
	PutUrl(ctx context.Context, name string, authType types.FunctionUrlAuthType) (string, error)
	DeleteUrl(ctx context.Context, name string) error
	InspectRole(ctx context.Context, name string) (*iamtypes.Role, error)
	DeleteRole(ctx context.Context, name string) error
	DeletePolicy(ctx context.Context, arn string) error
}

type RegistryService interface {
	DeleteRepository(ctx context.Context, registryId, name string) error
}

type StateStore interface {
	Upsert(r state.Resource) (state.Resource, error)
	MarkDeployed(project, environment, name, digest, url string, at time.Time) error
	MarkDestroyed(project, environment, name string) error
	Environments(project, name string) ([]string, error)
	Record(project, environment, resource, action string, err error) error
}

var ErrRepositoryShared = errors.New("refusing to purge a repository other environments deploy from")

// Deployment is a service running on the provider.
type Deployment struct {
	Name        string
	Resource    string
	FunctionArn string
	RoleArn     string
	ImageUri    string
	Url         string
	Private     bool
	State       types.State
	Tags        map[string]string
}

func (d Deployment) Sha() string {
	return d.Tags[config.TagSha]
}

// Branch is the git branch the running release was built from.
func (d Deployment) Branch() string {
	return d.Tags[config.TagBranch]
}

func (d Deployment) SpecHash() string {
	return d.Tags[config.TagSpec]
}

type Services struct {
	Function FunctionService
	Registry RegistryService
	State    StateStore
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, f FunctionService, r RegistryService, s StateStore) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Function: f,
			Registry: r,
			State:    s,
		},
	}
}

func (c Convention) record(action, service string, err error) {
	if recordErr := c.Service.State.Record(c.Config.Project, c.Config.Environment, service, action, err); recordErr != nil {
		log.Warn().Err(recordErr).Str("service", service).Msg("failed to record event")
	}
}

// Deploy rolls the release onto the function of the service it declares and returns its
// URL. The role must have been provisioned beforehand.
func (c Convention) Deploy(ctx context.Context, r release.Release) (d Deployment, err error) {
	s := r.Labels.Service

	ctx, span := tracing.Start(ctx, "deployment.Deploy", s.Name)
	defer span.End()

	defer func() { c.record("deploy", s.Name, err) }()

	resource := c.Config.ResourceName(s.Name)

	span.SetAttributes(
		attribute.String("resource.name", resource),
		attribute.String("image.uri", r.Uri),
		attribute.String("git.sha", r.Labels.Sha),
	)

	role, err := c.Service.Function.InspectRole(ctx, resource)
	if err != nil {
		return Deployment{}, tracing.Fail(span, err)
	}

	if role == nil {
		return Deployment{}, tracing.Fail(span, errors.Wrapf(config.ErrNotProvisioned, "role %s", resource))
	}

	tags := c.Config.Tags(s)
	tags[config.TagSha] = r.Labels.Sha
	if r.Labels.Branch != "" {
		tags[config.TagBranch] = r.Labels.Branch
	}

	log.Info().Str("service", s.Name).Str("image", r.Uri).Msg("deploying")

	_, err = c.Service.Function.PutFunction(ctx, function.FunctionSpec{
		Name:             resource,
		RoleArn:          aws.ToString(role.Arn),
		ImageUri:         r.Uri,
		MemorySize:       s.Memory,
		Timeout:          s.Timeout,
		EphemeralStorage: s.EphemeralStorage,
		Env:              s.Env,
		Tags:             tags,
	})
	if err != nil {
		return Deployment{}, tracing.Fail(span, err)
	}

	url, err := c.Service.Function.PutUrl(ctx, resource, AuthType(s))
	if err != nil {
		return Deployment{}, tracing.Fail(span, err)
	}

	found, err := c.Find(ctx, s.Name)
	if err != nil {
		return Deployment{}, tracing.Fail(span, err)
	}

	if found == nil {
		return Deployment{}, tracing.Fail(span, errors.Errorf("function %s vanished after deploy", resource))
	}

	_, err = c.Service.State.Upsert(state.Resource{
		Project:     c.Config.Project,
		Environment: c.Config.Environment,
		Name:        s.Name,
		Kind:        string(s.Kind),
		FunctionArn: found.FunctionArn,
		RoleArn:     found.RoleArn,
		SpecHash:    tags[config.TagSpec],
		GitSha:      r.Labels.Sha,
	})
	if err != nil {
		return Deployment{}, tracing.Fail(span, err)
	}

	if err := c.Service.State.MarkDeployed(c.Config.Project, c.Config.Environment, s.Name, r.Digest, url, time.Now().UTC()); err != nil {
		return Deployment{}, tracing.Fail(span, err)
	}

	span.SetAttributes(attribute.String("function.url", url))

	return *found, nil
}

// AuthType maps a declaration's privacy onto the function URL auth mode.
func AuthType(s declare.Service) types.FunctionUrlAuthType {
	if s.Private {
		return types.FunctionUrlAuthTypeAwsIam
	}
	return types.FunctionUrlAuthTypeNone
}

// Find returns nil without error when the service has no function.
func (c Convention) Find(ctx context.Context, service string) (*Deployment, error) {
	ctx, span := tracing.Start(ctx, "deployment.Find", service)
	defer span.End()

	resource := c.Config.ResourceName(service)

	fn, err := c.Service.Function.Inspect(ctx, resource)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	if fn == nil || fn.Configuration == nil {
		return nil, nil
	}

	d := &Deployment{
		Name:        service,
		Resource:    resource,
		FunctionArn: aws.ToString(fn.Configuration.FunctionArn),
		RoleArn:     aws.ToString(fn.Configuration.Role),
		State:       fn.Configuration.State,
		Tags:        fn.Tags,
	}

	if fn.Code != nil {
		d.ImageUri = aws.ToString(fn.Code.ImageUri)
	}

	url, err := c.Service.Function.InspectUrl(ctx, resource)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	if url != nil {
		d.Url = aws.ToString(url.FunctionUrl)
		d.Private = url.AuthType == types.FunctionUrlAuthTypeAwsIam
	}

	return d, nil
}

// Destroy removes the URL, function, role and policy of a service. The repository and its
// releases are only removed when purge is set. Every step tolerates missing resources, so
// destroying twice is harmless.
func (c Convention) Destroy(ctx context.Context, service string, purge bool) (err error) {
	ctx, span := tracing.Start(ctx, "deployment.Destroy", service)
	defer span.End()

	defer func() { c.record("destroy", service, err) }()

	resource := c.Config.ResourceName(service)

	span.SetAttributes(
		attribute.String("resource.name", resource),
		attribute.Bool("purge", purge),
	)

	if purge {
		if err := c.purgeable(service); err != nil {
			return tracing.Fail(span, err)
		}
	}

	log.Info().Str("service", service).Bool("purge", purge).Msg("destroying")

	if err := c.Service.Function.DeleteUrl(ctx, resource); err != nil {
		return tracing.Fail(span, err)
	}

	if err := c.Service.Function.DeleteFunction(ctx, resource); err != nil {
		return tracing.Fail(span, err)
	}

	if err := c.Service.Function.DeleteRole(ctx, resource); err != nil {
		return tracing.Fail(span, err)
	}

	if err := c.Service.Function.DeletePolicy(ctx, c.Config.PolicyArn(service)); err != nil {
		return tracing.Fail(span, err)
	}

	if purge {
		if err := c.Service.Registry.DeleteRepository(ctx, c.Config.Registry.Id, c.Config.RepositoryName(service)); err != nil {
			return tracing.Fail(span, err)
		}
	}

	return tracing.Fail(span, c.Service.State.MarkDestroyed(c.Config.Project, c.Config.Environment, service))
}

// purgeable refuses to drop the shared repository while another environment still runs from it.
func (c Convention) purgeable(service string) error {
	environments, err := c.Service.State.Environments(c.Config.Project, service)
	if err != nil {
		return err
	}

	for _, environment := range environments {
		if environment != c.Config.Environment {
			return errors.Wrapf(ErrRepositoryShared, "%s is live in %s", service, environment)
		}
	}

	return nil
}
