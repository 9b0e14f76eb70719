package umwelt

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// DiscoveryTag marks API gateways launch may mount routes on.
const DiscoveryTag = "LaunchDiscovery"

func GetRegistryId(ctx context.Context, id string, fallback ECRClient) (string, error) {
	if id != "" {
		return id, nil
	}

	registry, err := fallback.DescribeRegistry(ctx, &ecr.DescribeRegistryInput{})
	if err != nil {
		return "", err
	}

	return aws.ToString(registry.RegistryId), nil
}

func GetRegistryRegion(region string, fallback aws.Config) string {
	if region != "" {
		return region
	}
	return fallback.Region
}

// GetApiGatewayId confirms the configured gateway exists and carries the discovery tag.
// An unset id disables gateway mounting.
func GetApiGatewayId(ctx context.Context, apiId string, discovery ApiGatewayClient) (string, error) {
	if apiId == "" {
		return "", nil
	}

	getApisOutput, err := discovery.GetApis(ctx, &apigatewayv2.GetApisInput{})
	if err != nil {
		return "", err
	}

	for _, api := range getApisOutput.Items {
		if _, exists := api.Tags[DiscoveryTag]; exists && aws.ToString(api.ApiId) == apiId {
			return apiId, nil
		}
	}

	return "", fmt.Errorf("no api found with id %s and tagged with %s", apiId, DiscoveryTag)
}
