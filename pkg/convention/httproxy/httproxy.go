package httproxy

import (
	"context"
	"strings"

	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/convention/deployment"
	"github.com/linecard/launch/pkg/service/gateway"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/rs/zerolog/log"
)

type GatewayService interface {
	PutIntegration(ctx context.Context, apiId, functionArn, prefix string) (string, error)
	PutRoute(ctx context.Context, apiId, integrationId, routeKey string, auth types.AuthorizationType) (string, error)
	PutLambdaPermission(ctx context.Context, apiId, functionArn, prefix string) error
	DeleteLambdaPermission(ctx context.Context, functionArn, prefix string) error
	DeleteRoute(ctx context.Context, apiId string, route types.Route) error
	Endpoint(ctx context.Context, apiId string) (string, error)
	GetRouteByRouteKey(ctx context.Context, apiId, routeKey string) (*types.Route, error)
}

type Services struct {
	Gateway GatewayService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, g GatewayService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Gateway: g,
		},
	}
}

func (c Convention) Enabled() bool {
	return c.Config.Httproxy.ApiId != ""
}

// AuthorizationType follows the function URL: private deployments require sigv4 on the route too.
func AuthorizationType(d deployment.Deployment) types.AuthorizationType {
	if d.Private {
		return types.AuthorizationTypeAwsIam
	}
	return types.AuthorizationTypeNone
}

// Mount routes the service's prefix on the shared gateway to its function and returns the
// public URL of the prefix. Without a configured gateway it returns an empty URL.
func (c Convention) Mount(ctx context.Context, d deployment.Deployment) (string, error) {
	if !c.Enabled() {
		log.Debug().Str("service", d.Name).Msg("no api gateway configured, skipping mount")
		return "", nil
	}

	ctx, span := tracing.Start(ctx, "httproxy.Mount", d.Name)
	defer span.End()

	apiId := c.Config.Httproxy.ApiId
	prefix := c.Config.RoutePrefix(d.Name)
	routeKey := gateway.RouteKey(prefix)

	span.SetAttributes(
		attribute.String("gateway.id", apiId),
		attribute.String("gateway.route", routeKey),
	)

	integrationId, err := c.Service.Gateway.PutIntegration(ctx, apiId, d.FunctionArn, prefix)
	if err != nil {
		return "", tracing.Fail(span, err)
	}

	if _, err := c.Service.Gateway.PutRoute(ctx, apiId, integrationId, routeKey, AuthorizationType(d)); err != nil {
		return "", tracing.Fail(span, err)
	}

	if err := c.Service.Gateway.PutLambdaPermission(ctx, apiId, d.FunctionArn, prefix); err != nil {
		return "", tracing.Fail(span, err)
	}

	url, err := c.Url(ctx, d.Name)
	if err != nil {
		return "", tracing.Fail(span, err)
	}

	log.Info().Str("service", d.Name).Str("route", routeKey).Msg("mounted")

	return url, nil
}

// Url is where the service's prefix is reachable on the gateway, mounted or not.
func (c Convention) Url(ctx context.Context, service string) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	endpoint, err := c.Service.Gateway.Endpoint(ctx, c.Config.Httproxy.ApiId)
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(endpoint, "/") + c.Config.RoutePrefix(service) + "/", nil
}

// Unmount removes the service's route, integration and invoke permission. A missing route is not an error.
func (c Convention) Unmount(ctx context.Context, service, functionArn string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, span := tracing.Start(ctx, "httproxy.Unmount", service)
	defer span.End()

	apiId := c.Config.Httproxy.ApiId
	prefix := c.Config.RoutePrefix(service)

	route, err := c.Service.Gateway.GetRouteByRouteKey(ctx, apiId, gateway.RouteKey(prefix))
	if err != nil {
		return tracing.Fail(span, err)
	}

	if route != nil {
		if err := c.Service.Gateway.DeleteRoute(ctx, apiId, *route); err != nil {
			return tracing.Fail(span, err)
		}
	}

	if functionArn == "" {
		return nil
	}

	return tracing.Fail(span, c.Service.Gateway.DeleteLambdaPermission(ctx, functionArn, prefix))
}
