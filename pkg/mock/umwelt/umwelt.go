package mock

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/linecard/launch/internal/gitlib"
	"github.com/linecard/launch/internal/umwelt"
)

func FromCwd(settings umwelt.Settings, gitMock gitlib.DotGit, awsConfig aws.Config) umwelt.Here {
	return umwelt.Here{
		Settings: settings,
		Caller: umwelt.ThisCaller{
			Id:      "user-123",
			Arn:     "arn:aws:iam::123456789012:user/test",
			Account: "123456789012",
			Region:  awsConfig.Region,
		},
		Git: gitMock,
		Registry: umwelt.ThisRegistry{
			Id:     "123456789013",
			Region: awsConfig.Region,
		},
		ApiGateway: umwelt.ThisApiGateway{
			Id: settings.ApiGatewayId,
		},
	}
}

func Settings() umwelt.Settings {
	return umwelt.Settings{
		Manifest:    "launch.yaml",
		Environment: "development",
		StatePath:   ".launch/state.db",
	}
}
