package infra

import (
	"context"

	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/convention/plan"
	"github.com/linecard/launch/pkg/declare"
	"github.com/linecard/launch/pkg/service/registry"
	"github.com/linecard/launch/pkg/state"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type RegistryService interface {
	PutRepository(ctx context.Context, registryId, name string, tags map[string]string) (*registry.Repository, error)
}

type FunctionService interface {
	PutRole(ctx context.Context, name, trustDocument string, tags map[string]string) (*iamtypes.Role, error)
	PutPolicy(ctx context.Context, arn, document string, tags map[string]string) (*iamtypes.Policy, error)
	AttachPolicyToRole(ctx context.Context, policyArn, roleName string) error
}

type StateStore interface {
	Get(project, environment, name string) (*state.Resource, error)
	Upsert(r state.Resource) (state.Resource, error)
	Record(project, environment, resource, action string, err error) error
}

type Services struct {
	Registry RegistryService
	Function FunctionService
	State    StateStore
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, r RegistryService, f FunctionService, s StateStore) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Registry: r,
			Function: f,
			State:    s,
		},
	}
}

// Apply provisions every change whose repository or role is missing or stale. Changes that
// only await a deploy, noops and orphans are left alone.
func (c Convention) Apply(ctx context.Context, m declare.Manifest, changes []plan.Change) ([]state.Resource, error) {
	var provisioned []state.Resource

	for _, change := range changes {
		if !change.Provision() {
			log.Debug().Str("service", change.Name).Str("action", string(change.Action)).Strs("drift", change.Drift).Msg("skipping")
			continue
		}

		resource, err := c.Provision(ctx, m, change.Service)
		if err != nil {
			return provisioned, err
		}

		provisioned = append(provisioned, resource)
	}

	return provisioned, nil
}

// Provision ensures the repository and execution role a service needs. Both calls are
// create-or-update, so provisioning an existing service only refreshes tags and policies.
func (c Convention) Provision(ctx context.Context, m declare.Manifest, s declare.Service) (resource state.Resource, err error) {
	ctx, span := tracing.Start(ctx, "infra.Provision", s.Name)
	defer span.End()

	defer func() {
		if recordErr := c.Service.State.Record(c.Config.Project, c.Config.Environment, s.Name, "create", err); recordErr != nil {
			log.Warn().Err(recordErr).Str("service", s.Name).Msg("failed to record event")
		}
	}()

	tags := c.Config.Tags(s)
	name := c.Config.ResourceName(s.Name)

	span.SetAttributes(
		attribute.String("resource.name", name),
		attribute.String("launch.spec", tags[config.TagSpec]),
	)

	log.Info().Str("service", s.Name).Str("resource", name).Msg("provisioning")

	repository, err := c.Service.Registry.PutRepository(ctx, c.Config.Registry.Id, c.Config.RepositoryName(s.Name), c.Config.RepositoryTags(s.Name))
	if err != nil {
		return state.Resource{}, tracing.Fail(span, errors.Wrapf(err, "repository for %s", s.Name))
	}

	trust, err := c.Config.TrustPolicy(s.Name)
	if err != nil {
		return state.Resource{}, tracing.Fail(span, err)
	}

	role, err := c.Service.Function.PutRole(ctx, name, trust, tags)
	if err != nil {
		return state.Resource{}, tracing.Fail(span, errors.Wrapf(err, "role for %s", s.Name))
	}

	document, err := c.Config.PolicyDocument(m, s)
	if err != nil {
		return state.Resource{}, tracing.Fail(span, err)
	}

	policy, err := c.Service.Function.PutPolicy(ctx, c.Config.PolicyArn(s.Name), document, tags)
	if err != nil {
		return state.Resource{}, tracing.Fail(span, errors.Wrapf(err, "policy for %s", s.Name))
	}

	if err := c.Service.Function.AttachPolicyToRole(ctx, aws.ToString(policy.Arn), aws.ToString(role.RoleName)); err != nil {
		return state.Resource{}, tracing.Fail(span, err)
	}

	// re-provisioning a deployed service leaves it deployed.
	existing, err := c.Service.State.Get(c.Config.Project, c.Config.Environment, s.Name)
	if err != nil {
		return state.Resource{}, tracing.Fail(span, err)
	}

	status := state.StatusProvisioned
	if existing != nil && existing.Status == state.StatusDeployed {
		status = state.StatusDeployed
	}

	resource, err = c.Service.State.Upsert(state.Resource{
		Project:     c.Config.Project,
		Environment: c.Config.Environment,
		Name:        s.Name,
		Kind:        string(s.Kind),
		RoleArn:     aws.ToString(role.Arn),
		Repository:  aws.ToString(repository.RepositoryUri),
		SpecHash:    tags[config.TagSpec],
		Status:      status,
	})

	return resource, tracing.Fail(span, err)
}
