package cli

import (
	"context"
	"os"

	"github.com/linecard/launch/cmd/cli/router"
	"github.com/linecard/launch/internal/gitlib"
	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/internal/umwelt"
	"github.com/linecard/launch/internal/util"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/declare"
	"github.com/linecard/launch/pkg/sdk"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Invoke(ctx context.Context) {
	ctx, span := tracing.Start(ctx, "cli", "")
	defer span.End()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	var root router.Root
	arg.MustParse(&root)

	if root.Offline() {
		root.HandleOffline(ctx)
		return
	}

	configEnv(root)

	settings, err := umwelt.ParseSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse settings")
	}

	m, err := declare.Load(settings.Manifest)
	if err != nil {
		log.Fatal().Err(err).Str("manifest", settings.Manifest).Msg("failed to load manifest")
	}

	if m, err = m.ForEnvironment(settings.Environment); err != nil {
		log.Fatal().Err(err).Str("environment", settings.Environment).Msg("failed to apply environment")
	}

	settings = settings.Anchor(m.Dir)

	git, err := gitlib.FromPath(m.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read git state")
	}

	retryLogger := util.RetryLogger{
		Log: &log.Logger,
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithLogger(&retryLogger),
		awsconfig.WithClientLogMode(aws.LogRetries))

	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS configuration")
	}

	stsc := sts.NewFromConfig(awsConfig)
	ecrc := ecr.NewFromConfig(awsConfig)
	gwc := apigatewayv2.NewFromConfig(awsConfig)

	here, err := umwelt.FromCwd(ctx, settings, git, awsConfig, ecrc, stsc, gwc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to discover surroundings")
	}

	cfg := config.FromHere(here, m.Project)

	api, err := sdk.Init(ctx, awsConfig, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize SDK")
	}
	defer api.Close()

	root.Handle(ctx, api, m)
}

// Take options given to the CLI and export them to their respective environment variables.
func configEnv(root router.Root) {
	if root.GlobalOpts.Manifest != "" {
		os.Setenv("LAUNCH_MANIFEST", root.GlobalOpts.Manifest)
	}

	if root.GlobalOpts.Environment != "" {
		os.Setenv("LAUNCH_ENVIRONMENT", root.GlobalOpts.Environment)
	}

	if root.GlobalOpts.BusName != "" {
		os.Setenv("LAUNCH_BUS_NAME", root.GlobalOpts.BusName)
	}

	if root.GlobalOpts.ApiGateway != "" {
		os.Setenv("AWS_API_GATEWAY_ID", root.GlobalOpts.ApiGateway)
	}
}
