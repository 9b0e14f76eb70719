package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linecard/launch/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"
)

type ApiGatewayV2Client interface {
	CreateIntegration(ctx context.Context, params *apigatewayv2.CreateIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateIntegrationOutput, error)
	DeleteIntegration(ctx context.Context, params *apigatewayv2.DeleteIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.DeleteIntegrationOutput, error)
	GetIntegrations(ctx context.Context, params *apigatewayv2.GetIntegrationsInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetIntegrationsOutput, error)
	UpdateIntegration(ctx context.Context, params *apigatewayv2.UpdateIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateIntegrationOutput, error)
	CreateRoute(ctx context.Context, params *apigatewayv2.CreateRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateRouteOutput, error)
	GetRoutes(ctx context.Context, params *apigatewayv2.GetRoutesInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetRoutesOutput, error)
	DeleteRoute(ctx context.Context, params *apigatewayv2.DeleteRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.DeleteRouteOutput, error)
	UpdateRoute(ctx context.Context, params *apigatewayv2.UpdateRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateRouteOutput, error)
	GetApi(ctx context.Context, params *apigatewayv2.GetApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApiOutput, error)
}

type LambdaClient interface {
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
	RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error)
}

type Client struct {
	Gw     ApiGatewayV2Client
	Lambda LambdaClient
}

type Service struct {
	Client Client
}

func FromClients(gwc ApiGatewayV2Client, lmc LambdaClient) Service {
	return Service{
		Client: Client{
			Gw:     gwc,
			Lambda: lmc,
		},
	}
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// RouteKey proxies every method and subpath under prefix.
func RouteKey(prefix string) string {
	return "ANY " + prefix + "/{proxy+}"
}

func StatementId(prefix string) string {
	return util.DeSlasher(prefix) + "-api-gw"
}

func integrationParameters(prefix string) map[string]string {
	return map[string]string{
		"overwrite:path":                      "/$request.path.proxy",
		"overwrite:header.X-Forwarded-Prefix": prefix,
	}
}

// PutIntegration returns the id of the proxy integration targeting functionArn, creating it if needed.
func (s Service) PutIntegration(ctx context.Context, apiId, functionArn, prefix string) (string, error) {
	integrations, err := s.Client.Gw.GetIntegrations(ctx, &apigatewayv2.GetIntegrationsInput{
		ApiId: aws.String(apiId),
	})
	if err != nil {
		return "", err
	}

	for _, integration := range integrations.Items {
		if aws.ToString(integration.IntegrationUri) != functionArn {
			continue
		}

		_, err := s.Client.Gw.UpdateIntegration(ctx, &apigatewayv2.UpdateIntegrationInput{
			ApiId:                aws.String(apiId),
			IntegrationId:        integration.IntegrationId,
			IntegrationUri:       aws.String(functionArn),
			PayloadFormatVersion: aws.String("2.0"),
			RequestParameters:    integrationParameters(prefix),
		})
		if err != nil {
			return "", err
		}

		return aws.ToString(integration.IntegrationId), nil
	}

	created, err := s.Client.Gw.CreateIntegration(ctx, &apigatewayv2.CreateIntegrationInput{
		ApiId:                aws.String(apiId),
		IntegrationType:      types.IntegrationTypeAwsProxy,
		IntegrationUri:       aws.String(functionArn),
		PayloadFormatVersion: aws.String("2.0"),
		RequestParameters:    integrationParameters(prefix),
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(created.IntegrationId), nil
}

func (s Service) PutRoute(ctx context.Context, apiId, integrationId, routeKey string, auth types.AuthorizationType) (string, error) {
	target := "integrations/" + integrationId

	route, err := s.GetRouteByRouteKey(ctx, apiId, routeKey)
	if err != nil {
		return "", err
	}

	if route != nil {
		_, err := s.Client.Gw.UpdateRoute(ctx, &apigatewayv2.UpdateRouteInput{
			ApiId:             aws.String(apiId),
			RouteId:           route.RouteId,
			RouteKey:          aws.String(routeKey),
			Target:            aws.String(target),
			AuthorizationType: auth,
		})
		if err != nil {
			return "", err
		}

		return aws.ToString(route.RouteId), nil
	}

	created, err := s.Client.Gw.CreateRoute(ctx, &apigatewayv2.CreateRouteInput{
		ApiId:             aws.String(apiId),
		RouteKey:          aws.String(routeKey),
		Target:            aws.String(target),
		AuthorizationType: auth,
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(created.RouteId), nil
}

func (s Service) PutLambdaPermission(ctx context.Context, apiId, functionArn, prefix string) error {
	parts := strings.Split(functionArn, ":")
	if len(parts) < 7 {
		return fmt.Errorf("malformed function arn %s", functionArn)
	}
	region, accountId := parts[3], parts[4]

	_, err := s.Client.Lambda.AddPermission(ctx, &lambda.AddPermissionInput{
		Action:       aws.String("lambda:InvokeFunction"),
		FunctionName: aws.String(functionArn),
		Principal:    aws.String("apigateway.amazonaws.com"),
		SourceArn:    aws.String("arn:aws:execute-api:" + region + ":" + accountId + ":" + apiId + "/*/*" + prefix + "/*"),
		StatementId:  aws.String(StatementId(prefix)),
	})

	if errorCode(err) == "ResourceConflictException" {
		return nil
	}

	return err
}

func (s Service) DeleteLambdaPermission(ctx context.Context, functionArn, prefix string) error {
	_, err := s.Client.Lambda.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: aws.String(functionArn),
		StatementId:  aws.String(StatementId(prefix)),
	})

	if errorCode(err) == "ResourceNotFoundException" {
		return nil
	}

	return err
}

// DeleteRoute removes the route and the integration it targets. Missing pieces are skipped.
func (s Service) DeleteRoute(ctx context.Context, apiId string, route types.Route) error {
	_, err := s.Client.Gw.DeleteRoute(ctx, &apigatewayv2.DeleteRouteInput{
		ApiId:   aws.String(apiId),
		RouteId: route.RouteId,
	})
	if err != nil && errorCode(err) != "NotFoundException" {
		return err
	}

	integrationId := strings.TrimPrefix(aws.ToString(route.Target), "integrations/")
	if integrationId == "" {
		return nil
	}

	_, err = s.Client.Gw.DeleteIntegration(ctx, &apigatewayv2.DeleteIntegrationInput{
		ApiId:         aws.String(apiId),
		IntegrationId: aws.String(integrationId),
	})
	if err != nil && errorCode(err) != "NotFoundException" {
		return err
	}

	return nil
}

// Endpoint returns the invoke URL of the API's default stage.
func (s Service) Endpoint(ctx context.Context, apiId string) (string, error) {
	api, err := s.Client.Gw.GetApi(ctx, &apigatewayv2.GetApiInput{
		ApiId: aws.String(apiId),
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(api.ApiEndpoint), nil
}

// GetRouteByRouteKey returns nil when no route matches.
func (s Service) GetRouteByRouteKey(ctx context.Context, apiId, routeKey string) (*types.Route, error) {
	var matches []types.Route

	routes, err := s.Client.Gw.GetRoutes(ctx, &apigatewayv2.GetRoutesInput{
		ApiId: aws.String(apiId),
	})
	if err != nil {
		return nil, err
	}

	for _, route := range routes.Items {
		if aws.ToString(route.RouteKey) == routeKey {
			matches = append(matches, route)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("multiple routes found under api %s with route key %s", apiId, routeKey)
	}
}

func (s Service) GetRoutesByFunctionArn(ctx context.Context, apiId, functionArn string) ([]types.Route, error) {
	var integrated []types.Route

	routes, err := s.Client.Gw.GetRoutes(ctx, &apigatewayv2.GetRoutesInput{
		ApiId: aws.String(apiId),
	})
	if err != nil {
		return nil, err
	}

	integrations, err := s.Client.Gw.GetIntegrations(ctx, &apigatewayv2.GetIntegrationsInput{
		ApiId: aws.String(apiId),
	})
	if err != nil {
		return nil, err
	}

	owned := map[string]bool{}
	for _, integration := range integrations.Items {
		if aws.ToString(integration.IntegrationUri) == functionArn {
			owned[aws.ToString(integration.IntegrationId)] = true
		}
	}

	for _, route := range routes.Items {
		if owned[strings.TrimPrefix(aws.ToString(route.Target), "integrations/")] {
			integrated = append(integrated, route)
		}
	}

	return integrated, nil
}
