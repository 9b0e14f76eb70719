package router

import (
	"context"
	"os"

	"github.com/linecard/launch/cmd/cli/method"
	"github.com/linecard/launch/cmd/cli/param"
	"github.com/linecard/launch/pkg/declare"
	"github.com/linecard/launch/pkg/sdk"

	"github.com/alexflint/go-arg"
)

type Root struct {
	param.GlobalOpts
	Create   *param.Create   `arg:"subcommand:create" help:"Provision repositories and roles for declared services"`
	Deploy   *param.Deploy   `arg:"subcommand:deploy" help:"Build, publish and deploy declared services"`
	Destroy  *param.Destroy  `arg:"subcommand:destroy" help:"Tear down declared services"`
	Plan     *param.Plan     `arg:"subcommand:plan" help:"Show what create would change"`
	Status   *param.Status   `arg:"subcommand:status" help:"Show live state of declared services"`
	Releases *param.Releases `arg:"subcommand:releases" help:"List published releases of a service"`
	Prune    *param.Prune    `arg:"subcommand:prune" help:"Delete untagged and stale releases of a service"`
	Config   *param.Config   `arg:"subcommand:config" help:"Print configuration"`
	Init     *param.Init     `arg:"subcommand:init" help:"Scaffold a new service"`
	Curl     *param.Curl     `arg:"subcommand:curl" help:"Call a deployed service, signing when private"`
}

func (Root) Description() string {
	return "launch deploys declared container services onto AWS Lambda"
}

// Offline commands run before any AWS or manifest discovery.
func (c Root) Offline() bool {
	return c.Init != nil
}

func (c Root) HandleOffline(ctx context.Context) {
	switch {
	case c.Init != nil:
		method.InitService(ctx, c.Init)
	}
}

func (c Root) Handle(ctx context.Context, api sdk.API, m declare.Manifest) {
	services := m.Select(c.Only...)

	switch {
	case c.Create != nil:
		method.Create(ctx, api, m, services, c.Create)

	case c.Deploy != nil:
		method.Deploy(ctx, api, m, services, c.Deploy)

	case c.Destroy != nil:
		method.Destroy(ctx, api, m, services, c.Destroy)

	case c.Plan != nil:
		method.Plan(ctx, api, m, services, c.Plan)

	case c.Status != nil:
		method.Status(ctx, api, m, services, c.Status)

	case c.Releases != nil:
		method.Releases(ctx, api, m, c.Releases)

	case c.Prune != nil:
		method.Prune(ctx, api, m, c.Prune)

	case c.Config != nil:
		method.PrintConfig(ctx, api, m, c.Config)

	case c.Curl != nil:
		method.Curl(ctx, api, m, c.Curl)

	default:
		arg.MustParse(&c).WriteHelp(os.Stdout)
	}
}
