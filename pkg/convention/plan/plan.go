package plan

import (
	"context"
	"fmt"

	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/declare"
	"github.com/linecard/launch/pkg/service/registry"
	"github.com/linecard/launch/pkg/state"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/pkg/errors"
)

type Action string

const (
	Create Action = "create"
	Update Action = "update"
	Noop   Action = "noop"
	Orphan Action = "orphan"
)

type RegistryService interface {
	InspectRepository(ctx context.Context, registryId, name string) (*registry.Repository, error)
}

type FunctionService interface {
	InspectRole(ctx context.Context, name string) (*iamtypes.Role, error)
	Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error)
}

type StateStore interface {
	Get(project, environment, name string) (*state.Resource, error)
	Live(project, environment string) ([]state.Resource, error)
}

// Live is what the provider and the state store report for one service.
type Live struct {
	Repository *registry.Repository
	Role       *iamtypes.Role
	Function   *lambda.GetFunctionOutput
	Record     *state.Resource
}

// Change is one line of a plan. Reasons are what create fixes (repository and role);
// Drift is what only deploy fixes (function code and configuration). Orphans carry no declaration.
type Change struct {
	Name    string
	Action  Action
	Reasons []string
	Drift   []string
	Service declare.Service
	Live    Live
}

func (c Change) Deployed() bool {
	return c.Live.Function != nil
}

// Provision reports whether create has anything to do for this change.
func (c Change) Provision() bool {
	return c.Action == Create || (c.Action == Update && len(c.Reasons) > 0)
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

// Plan diffs each service against what is live, in declaration order, then appends an
// orphan for every recorded service the manifest no longer declares. Orphans are only
// reported when every declaration was planned, so a selection never orphans the rest.
func (c Convention) Plan(ctx context.Context, m declare.Manifest, services []declare.Service) ([]Change, error) {
	var changes []Change

	ctx, span := tracing.Start(ctx, "plan.Plan", "")
	defer span.End()

	for _, s := range services {
		change, err := c.Diff(ctx, s)
		if err != nil {
			return nil, tracing.Fail(span, err)
		}
		changes = append(changes, change)
	}

	if len(services) == len(m.Services) {
		orphans, err := c.Orphans(ctx, m)
		if err != nil {
			return nil, tracing.Fail(span, err)
		}
		changes = append(changes, orphans...)
	}

	span.SetAttributes(attribute.Int("plan.changes", len(changes)))

	return changes, nil
}

// Diff compares one declaration with its live resources.
func (c Convention) Diff(ctx context.Context, s declare.Service) (Change, error) {
	var err error

	ctx, span := tracing.Start(ctx, "plan.Diff", s.Name)
	defer span.End()

	change := Change{Name: s.Name, Service: s}
	resource := c.Config.ResourceName(s.Name)
	hash := s.Hash()

	if change.Live.Repository, err = c.Service.Registry.InspectRepository(ctx, c.Config.Registry.Id, c.Config.RepositoryName(s.Name)); err != nil {
		return Change{}, tracing.Fail(span, err)
	}

	if change.Live.Role, err = c.Service.Function.InspectRole(ctx, resource); err != nil {
		return Change{}, tracing.Fail(span, err)
	}

	if change.Live.Function, err = c.Service.Function.Inspect(ctx, resource); err != nil {
		return Change{}, tracing.Fail(span, err)
	}

	if change.Live.Record, err = c.Service.State.Get(c.Config.Project, c.Config.Environment, s.Name); err != nil {
		return Change{}, tracing.Fail(span, err)
	}

	live := change.Live

	if live.Repository == nil {
		change.Reasons = append(change.Reasons, "repository missing")
	}

	if live.Role == nil {
		change.Reasons = append(change.Reasons, "role missing")
	}

	if len(change.Reasons) > 0 {
		change.Action = Create
		span.SetAttributes(attribute.String("plan.action", string(change.Action)))
		return change, nil
	}

	// the repository is shared across environments, so only the role carries this environment's spec.
	if roleTag(live.Role, config.TagSpec) != hash {
		change.Reasons = append(change.Reasons, "role spec")
	}

	switch {
	case live.Function == nil:
		change.Drift = append(change.Drift, "function not deployed")
	case live.Function.Tags[config.TagSpec] != hash:
		change.Drift = append(change.Drift, fmt.Sprintf("function spec %s != %s", live.Function.Tags[config.TagSpec], hash))
	case live.Record != nil && live.Record.ImageDigest != "" && imageUri(live.Function) != c.Config.ImageUri(s.Name, live.Record.ImageDigest):
		change.Drift = append(change.Drift, "function image")
	}

	change.Action = Noop
	if len(change.Reasons) > 0 || len(change.Drift) > 0 {
		change.Action = Update
	}

	span.SetAttributes(attribute.String("plan.action", string(change.Action)))

	return change, nil
}

// Orphans lists services recorded as live for this project and environment that m does not declare.
func (c Convention) Orphans(ctx context.Context, m declare.Manifest) ([]Change, error) {
	var orphans []Change

	recorded, err := c.Service.State.Live(c.Config.Project, c.Config.Environment)
	if err != nil {
		return nil, err
	}

	for _, r := range recorded {
		if _, err := m.Lookup(r.Name); err == nil {
			continue
		}

		record := r
		orphans = append(orphans, Change{
			Name:    r.Name,
			Action:  Orphan,
			Reasons: []string{"no longer declared"},
			Live:    Live{Record: &record},
		})
	}

	return orphans, nil
}

// Destroyable resolves names given to destroy. A name must be declared in m or recorded as
// live for this project and environment, so services dropped from the manifest can still be
// torn down.
func (c Convention) Destroyable(m declare.Manifest, names []string) ([]string, error) {
	recorded, err := c.Service.State.Live(c.Config.Project, c.Config.Environment)
	if err != nil {
		return nil, err
	}

	live := make(map[string]bool, len(recorded))
	for _, r := range recorded {
		live[r.Name] = true
	}

	for _, name := range names {
		if _, err := m.Lookup(name); err != nil && !live[name] {
			return nil, errors.Wrapf(err, "%s is not recorded in %s either", name, c.Config.Environment)
		}
	}

	return names, nil
}

func roleTag(role *iamtypes.Role, key string) string {
	for _, tag := range role.Tags {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}

func imageUri(f *lambda.GetFunctionOutput) string {
	if f.Code == nil {
		return ""
	}
	return aws.ToString(f.Code.ImageUri)
}

// Provisioned reports whether create would leave every change alone.
func Provisioned(changes []Change) bool {
	for _, change := range changes {
		if change.Provision() {
			return false
		}
	}
	return true
}

// Converged reports whether every change is a noop.
func Converged(changes []Change) bool {
	for _, change := range changes {
		if change.Action != Noop {
			return false
		}
	}
	return true
}
