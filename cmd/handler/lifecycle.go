package handler

import (
	"context"

	"github.com/linecard/launch/internal/umwelt"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/sdk"

	"github.com/aws/aws-lambda-go/events"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/pkg/errors"
)

// lambdaWritable is the only writable path inside the lambda runtime.
const lambdaWritable = "/tmp"

func BeforeEach(ctx context.Context, event events.ECRImageActionEvent) (sdk.API, error) {
	settings, err := umwelt.ParseSettings()
	if err != nil {
		return sdk.API{}, err
	}

	settings = settings.Anchor(lambdaWritable)

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return sdk.API{}, errors.Wrap(err, "loading AWS configuration")
	}

	stsc := sts.NewFromConfig(awsConfig)
	ecrc := ecr.NewFromConfig(awsConfig)

	here, err := umwelt.FromEvent(ctx, settings, event, awsConfig, ecrc, stsc)
	if err != nil {
		return sdk.API{}, errors.Wrap(err, "loading configuration from event")
	}

	return sdk.Init(ctx, awsConfig, config.FromHere(here, here.Image.Project()))
}
