package bus

import (
	"context"
	"time"

	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/convention/deployment"
	"go.opentelemetry.io/otel/attribute"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DeployedType  = "launch.deployed"
	DestroyedType = "launch.destroyed"
)

type EventService interface {
	Publish(ctx context.Context, busName, detailType string, resources []string, detail any) (string, error)
}

// Detail is the body of every lifecycle event.
type Detail struct {
	RunId       string    `json:"runId"`
	Project     string    `json:"project"`
	Environment string    `json:"environment"`
	Service     string    `json:"service"`
	Sha         string    `json:"sha,omitempty"`
	Url         string    `json:"url,omitempty"`
	Caller      string    `json:"caller,omitempty"`
	At          time.Time `json:"at"`
}

type Services struct {
	Event EventService
}

type Convention struct {
	Config  config.Config
	RunId   string
	Service Services
}

// FromServices correlates every event it emits under runId, or a fresh one when empty.
func FromServices(c config.Config, e EventService, runId string) Convention {
	if runId == "" {
		runId = uuid.NewString()
	}

	return Convention{
		Config: c,
		RunId:  runId,
		Service: Services{
			Event: e,
		},
	}
}

func (c Convention) Enabled() bool {
	return c.Config.Bus.Name != ""
}

func (c Convention) detail(service string) Detail {
	return Detail{
		RunId:       c.RunId,
		Project:     c.Config.Project,
		Environment: c.Config.Environment,
		Service:     service,
		Caller:      c.Config.Caller.Arn,
		At:          time.Now().UTC(),
	}
}

// Deployed announces a deployment; url is the address users reach it at.
func (c Convention) Deployed(ctx context.Context, d deployment.Deployment, url string) error {
	detail := c.detail(d.Name)
	detail.Sha = d.Sha()
	detail.Url = url

	return c.emit(ctx, DeployedType, []string{d.FunctionArn}, detail)
}

func (c Convention) Destroyed(ctx context.Context, service string) error {
	return c.emit(ctx, DestroyedType, nil, c.detail(service))
}

func (c Convention) emit(ctx context.Context, detailType string, resources []string, detail Detail) error {
	if !c.Enabled() {
		return nil
	}

	ctx, span := tracing.Start(ctx, "bus.Emit", detail.Service)
	defer span.End()

	span.SetAttributes(
		attribute.String("bus.name", c.Config.Bus.Name),
		attribute.String("event.type", detailType),
		attribute.String("run.id", c.RunId),
	)

	var filtered []string
	for _, r := range resources {
		if r != "" {
			filtered = append(filtered, r)
		}
	}

	id, err := c.Service.Event.Publish(ctx, c.Config.Bus.Name, detailType, filtered, detail)
	if err != nil {
		return tracing.Fail(span, err)
	}

	log.Debug().Str("service", detail.Service).Str("type", detailType).Str("id", id).Msg("event emitted")

	return nil
}
