package umwelt

import (
	"context"
	"path"

	"github.com/linecard/launch/internal/gitlib"
	"github.com/linecard/launch/internal/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Umwelt describes the surroundings launch runs in: who is calling, which git commit is
// checked out, which registry and gateway to use.

type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type ECRClient interface {
	DescribeRegistry(ctx context.Context, params *ecr.DescribeRegistryInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRegistryOutput, error)
}

type ApiGatewayClient interface {
	GetApis(ctx context.Context, params *apigatewayv2.GetApisInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error)
}

type ThisRegistry struct {
	Id     string
	Region string
}

type ThisApiGateway struct {
	Id string
}

type ThisCaller struct {
	Id      string
	Arn     string
	Account string
	Region  string
}

// ThisImage is set when launch runs from a registry event rather than a checkout.
type ThisImage struct {
	Repository string
	Tag        string
	Digest     string
}

type Here struct {
	Settings   Settings
	Caller     ThisCaller
	Git        gitlib.DotGit
	Registry   ThisRegistry
	ApiGateway ThisApiGateway
	Image      *ThisImage
}

func caller(ctx context.Context, awsConfig aws.Config, stsc STSClient) (ThisCaller, error) {
	whoAmI, err := stsc.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return ThisCaller{}, err
	}

	return ThisCaller{
		Id:      aws.ToString(whoAmI.UserId),
		Arn:     aws.ToString(whoAmI.Arn),
		Account: aws.ToString(whoAmI.Account),
		Region:  awsConfig.Region,
	}, nil
}

func FromCwd(ctx context.Context, settings Settings, git gitlib.DotGit, awsConfig aws.Config, ecrc ECRClient, stsc STSClient, gwc ApiGatewayClient) (here Here, err error) {
	here.Settings = settings
	here.Git = git

	if here.Caller, err = caller(ctx, awsConfig, stsc); err != nil {
		return here, err
	}

	here.Registry.Region = GetRegistryRegion(settings.RegistryRegion, awsConfig)
	if here.Registry.Id, err = GetRegistryId(ctx, settings.RegistryId, ecrc); err != nil {
		return here, err
	}

	if here.ApiGateway.Id, err = GetApiGatewayId(ctx, settings.ApiGatewayId, gwc); err != nil {
		return here, err
	}

	return here, nil
}

// FromEvent builds the surroundings for an ECR image action. Repositories are named
// project/service, tags are either a branch or a git sha.
func FromEvent(ctx context.Context, settings Settings, event events.ECRImageActionEvent, awsConfig aws.Config, ecrc ECRClient, stsc STSClient) (here Here, err error) {
	here.Settings = settings

	if here.Caller, err = caller(ctx, awsConfig, stsc); err != nil {
		return here, err
	}

	if util.ShaLike(event.Detail.ImageTag) {
		here.Git.Sha = event.Detail.ImageTag
	} else {
		here.Git.Branch = event.Detail.ImageTag
	}

	here.Image = &ThisImage{
		Repository: event.Detail.RepositoryName,
		Tag:        event.Detail.ImageTag,
		Digest:     event.Detail.ImageDigest,
	}

	here.Registry.Region = GetRegistryRegion(settings.RegistryRegion, awsConfig)
	if here.Registry.Id, err = GetRegistryId(ctx, settings.RegistryId, ecrc); err != nil {
		return here, err
	}

	// gateway tags were verified when the handler was deployed.
	here.ApiGateway.Id = settings.ApiGatewayId

	return here, nil
}

// Project returns the project segment of an image repository name.
func (t ThisImage) Project() string {
	return path.Dir(t.Repository)
}

// Service returns the service segment of an image repository name.
func (t ThisImage) Service() string {
	return path.Base(t.Repository)
}
