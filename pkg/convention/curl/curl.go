package curl

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/service/sigv4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Sigv4Service interface {
	SignRequest(ctx context.Context, request *http.Request, signingName string) error
}

type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

type Services struct {
	Sigv4 Sigv4Service
	HTTP  HTTPClient
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, s Sigv4Service, h HTTPClient) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Sigv4: s,
			HTTP:  h,
		},
	}
}

// Client propagates trace context to the invoked service.
func Client() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

// SigningName picks the sigv4 service for the host: gateway routes sign for execute-api,
// function URLs for lambda.
func SigningName(u *url.URL) string {
	if strings.Contains(u.Host, ".execute-api.") {
		return sigv4.ExecuteApi
	}
	return sigv4.FunctionUrl
}

// Join appends path to a deployed base URL.
func Join(base, path string) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("not an absolute url: %s", base)
	}

	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	return u.ResolveReference(ref), nil
}

// Do calls path under the service's base URL, signing the request when the service is private.
func (c Convention) Do(ctx context.Context, service, base, method, path string, body []byte, private bool) (*http.Response, error) {
	ctx, span := tracing.Start(ctx, "curl.Do", service)
	defer span.End()

	target, err := Join(base, path)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	span.SetAttributes(
		attribute.String("http.url", target.String()),
		attribute.String("http.method", method),
		attribute.Bool("signed", private),
	)

	if private {
		if err := c.Service.Sigv4.SignRequest(ctx, request, SigningName(target)); err != nil {
			return nil, tracing.Fail(span, errors.Wrap(err, "signing request"))
		}
	}

	log.Debug().Str("service", service).Str("url", target.String()).Bool("signed", private).Msg("invoking")

	response, err := c.Service.HTTP.Do(request)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", response.StatusCode))

	return response, nil
}
