package handler

import (
	"context"
	"path"

	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/internal/util"
	"github.com/linecard/launch/pkg/convention/deployment"
	"github.com/linecard/launch/pkg/sdk"
	"github.com/rs/zerolog/log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Action string

const (
	Deploy  Action = "deploy"
	Destroy Action = "destroy"
	Skip    Action = "skip"
)

// Listen for events from the AWS Lambda runtime.
func Listen(tp *sdktrace.TracerProvider) {
	instrumented := otellambda.InstrumentHandler(Handler,
		otellambda.WithTracerProvider(tp),
		otellambda.WithFlusher(tp),
	)

	lambda.Start(instrumented)
}

// Classify decides what an image action means. Sha tags accompany every branch push and
// are ignored; only branch tags drive deployments.
func Classify(event events.ECRImageActionEvent) (Action, error) {
	if event.Detail.Result != "" && event.Detail.Result != "SUCCESS" {
		return Skip, nil
	}

	if util.ShaLike(event.Detail.ImageTag) || event.Detail.ImageTag == "" {
		return Skip, nil
	}

	switch event.Detail.ActionType {
	case "PUSH":
		return Deploy, nil
	case "DELETE":
		return Destroy, nil
	default:
		return Skip, errors.Errorf("action type %s not supported", event.Detail.ActionType)
	}
}

// Handler function to process ECR image action events.
func Handler(ctx context.Context, event events.ECRImageActionEvent) error {
	service := path.Base(event.Detail.RepositoryName)

	ctx, span := tracing.Start(ctx, "handler", service)
	defer span.End()

	span.SetAttributes(
		attribute.String("launch.repository", event.Detail.RepositoryName),
		attribute.String("launch.tag", event.Detail.ImageTag),
		attribute.String("launch.action", event.Detail.ActionType),
	)

	action, err := Classify(event)
	if err != nil {
		return tracing.Fail(span, err)
	}

	if action == Skip {
		log.Debug().
			Str("repository", event.Detail.RepositoryName).
			Str("tag", event.Detail.ImageTag).
			Msg("skipping")
		return nil
	}

	api, err := BeforeEach(ctx, event)
	if err != nil {
		return tracing.Fail(span, err)
	}
	defer api.Close()

	deployed, err := api.Deployment.Find(ctx, service)
	if err != nil {
		return tracing.Fail(span, errors.Wrap(err, "finding deployment"))
	}

	var running string
	if deployed != nil {
		running = deployed.Branch()
	}

	if action = Admit(action, event.Detail.ImageTag, api.Config.TrackBranch, running); action == Skip {
		log.Info().
			Str("service", service).
			Str("tag", event.Detail.ImageTag).
			Str("tracked", api.Config.TrackBranch).
			Str("running", running).
			Msg("branch does not drive this environment, skipping")
		return nil
	}

	switch action {
	case Deploy:
		err = deploy(ctx, api, service, event.Detail.ImageTag)
	case Destroy:
		err = destroy(ctx, api, service, deployed)
	}

	return tracing.Fail(span, err)
}

// Admit narrows a classified action to branches that drive this environment. A push deploys
// when it is the tracked branch, or, with nothing tracked, the branch already running.
// A delete only destroys the deployment built from that branch.
func Admit(action Action, tag, tracked, running string) Action {
	switch action {
	case Deploy:
		if tracked != "" && tag == tracked {
			return Deploy
		}
		if tracked == "" && running != "" && tag == running {
			return Deploy
		}
	case Destroy:
		if running != "" && tag == running && (tracked == "" || tag == tracked) {
			return Destroy
		}
	}
	return Skip
}

func deploy(ctx context.Context, api sdk.API, service, tag string) error {
	log.Info().Str("service", service).Str("branch", tag).Msg("deploying")

	release, err := api.Release.Find(ctx, service, tag)
	if err != nil {
		return errors.Wrap(err, "finding release")
	}

	deployed, err := api.Deployment.Deploy(ctx, release)
	if err != nil {
		return errors.Wrap(err, "deploying release")
	}

	url := deployed.Url

	routed, err := api.Httproxy.Mount(ctx, deployed)
	if err != nil {
		return errors.Wrap(err, "mounting gateway route")
	}

	if routed != "" {
		url = routed
	}

	if err := api.Bus.Deployed(ctx, deployed, url); err != nil {
		log.Warn().Err(err).Str("service", service).Msg("failed to emit deploy event")
	}

	return nil
}

func destroy(ctx context.Context, api sdk.API, service string, deployed *deployment.Deployment) error {
	var functionArn string

	log.Info().Str("service", service).Msg("destroying")

	if deployed != nil {
		functionArn = deployed.FunctionArn
	}

	if err := api.Httproxy.Unmount(ctx, service, functionArn); err != nil {
		return errors.Wrap(err, "unmounting gateway route")
	}

	if err := api.Deployment.Destroy(ctx, service, false); err != nil {
		return errors.Wrap(err, "destroying deployment")
	}

	if err := api.Bus.Destroyed(ctx, service); err != nil {
		log.Warn().Err(err).Str("service", service).Msg("failed to emit destroy event")
	}

	return nil
}
