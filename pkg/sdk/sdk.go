package sdk

import (
	"context"

	"github.com/linecard/launch/internal/util"

	// config
	"github.com/linecard/launch/pkg/convention/config"

	// services
	"github.com/linecard/launch/pkg/service/docker"
	"github.com/linecard/launch/pkg/service/event"
	"github.com/linecard/launch/pkg/service/function"
	"github.com/linecard/launch/pkg/service/gateway"
	"github.com/linecard/launch/pkg/service/registry"
	"github.com/linecard/launch/pkg/service/sigv4"
	"github.com/linecard/launch/pkg/state"

	// conventions
	"github.com/linecard/launch/pkg/convention/bus"
	"github.com/linecard/launch/pkg/convention/curl"
	"github.com/linecard/launch/pkg/convention/deployment"
	"github.com/linecard/launch/pkg/convention/httproxy"
	"github.com/linecard/launch/pkg/convention/infra"
	"github.com/linecard/launch/pkg/convention/plan"
	"github.com/linecard/launch/pkg/convention/release"

	// clients
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/pkg/errors"
)

type Clients struct {
	StsClient          *sts.Client
	EcrClient          *ecr.Client
	LambdaClient       *lambda.Client
	IamClient          *iam.Client
	EventBridgeClient  *eventbridge.Client
	ApiGatewayV2Client *apigatewayv2.Client
}

type Services struct {
	Docker   docker.Service
	Registry registry.Service
	Function function.Service
	Event    event.Service
	Gateway  gateway.Service
	Sigv4    sigv4.Service
	State    *state.Store
}

type Conventions struct {
	Plan       plan.Convention
	Infra      infra.Convention
	Release    release.Convention
	Deployment deployment.Convention
	Httproxy   httproxy.Convention
	Bus        bus.Convention
	Curl       curl.Convention
}

type API struct {
	Conventions
	Config config.Config
	State  *state.Store
}

func (a API) Close() error {
	if a.State == nil {
		return nil
	}
	return a.State.Close()
}

func Init(ctx context.Context, awsConfig aws.Config, config config.Config) (API, error) {
	clients, err := InitClients(ctx, awsConfig, config)
	if err != nil {
		return API{}, err
	}

	services, err := InitServices(ctx, awsConfig, config, clients)
	if err != nil {
		return API{}, err
	}

	conventions, err := InitConventions(ctx, config, services)
	if err != nil {
		return API{}, err
	}

	return API{
		Conventions: conventions,
		Config:      config,
		State:       services.State,
	}, nil
}

func InitConventions(ctx context.Context, config config.Config, services Services) (Conventions, error) {
	return Conventions{
		Plan:       plan.FromServices(config, services.Registry, services.Function, services.State),
		Infra:      infra.FromServices(config, services.Registry, services.Function, services.State),
		Release:    release.FromServices(config, services.Registry, services.Docker),
		Deployment: deployment.FromServices(config, services.Function, services.Registry, services.State),
		Httproxy:   httproxy.FromServices(config, services.Gateway),
		Bus:        bus.FromServices(config, services.Event, services.State.RunId),
		Curl:       curl.FromServices(config, services.Sigv4, curl.Client()),
	}, nil
}

func InitServices(ctx context.Context, awsConfig aws.Config, config config.Config, clients Clients) (Services, error) {
	// lambda has no docker; handler mode only resolves published releases.
	docker, err := docker.FromPath(ctx)
	if err != nil && !util.InLambda() {
		return Services{}, err
	}

	store, err := state.Open(config.State.Path)
	if err != nil {
		return Services{}, errors.Wrap(err, "opening state store")
	}

	return Services{
		Docker:   docker,
		Registry: registry.FromClients(clients.EcrClient),
		Function: function.FromClients(clients.LambdaClient, clients.IamClient),
		Event:    event.FromClients(clients.EventBridgeClient),
		Gateway:  gateway.FromClients(clients.ApiGatewayV2Client, clients.LambdaClient),
		Sigv4:    sigv4.FromConfig(awsConfig),
		State:    store,
	}, nil
}

func InitClients(ctx context.Context, awsConfig aws.Config, config config.Config) (Clients, error) {
	return Clients{
		StsClient: sts.NewFromConfig(awsConfig),
		EcrClient: ecr.NewFromConfig(awsConfig, func(o *ecr.Options) {
			if config.Registry.Region != "" {
				o.Region = config.Registry.Region
			}
		}),
		LambdaClient:       lambda.NewFromConfig(awsConfig),
		IamClient:          iam.NewFromConfig(awsConfig),
		EventBridgeClient:  eventbridge.NewFromConfig(awsConfig),
		ApiGatewayV2Client: apigatewayv2.NewFromConfig(awsConfig),
	}, nil
}
