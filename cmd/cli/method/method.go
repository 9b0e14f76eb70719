package method

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linecard/launch/cmd/cli/param"
	"github.com/linecard/launch/cmd/cli/view"
	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/convention/deployment"
	"github.com/linecard/launch/pkg/convention/plan"
	"github.com/linecard/launch/pkg/declare"
	"github.com/linecard/launch/pkg/sdk"
	"github.com/linecard/launch/pkg/state"

	"github.com/rs/zerolog/log"
)

func InitService(ctx context.Context, p *param.Init) {
	if err := declare.ValidateName(p.Name); err != nil {
		log.Fatal().Err(err).Msg("invalid service name")
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve working directory")
	}

	cfg := config.Config{Project: filepath.Base(cwd), Environment: "development"}

	if err := cfg.Scaffold(p.Template, p.Name, filepath.Join(cwd, p.Name)); err != nil {
		log.Fatal().Err(err).Msg("failed to scaffold service")
	}

	fmt.Printf("scaffolded %s, declare it in %s:\n\n  - name: %s\n    dockerfile: %s/Dockerfile\n", p.Name, declare.DefaultManifest, p.Name, p.Name)
}

func Plan(ctx context.Context, api sdk.API, m declare.Manifest, services []declare.Service, p *param.Plan) {
	changes, err := api.Plan.Plan(ctx, m, services)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to plan")
	}

	fmt.Println(view.Plan(changes))

	if plan.Converged(changes) {
		fmt.Println("nothing to do")
	}
}

func Create(ctx context.Context, api sdk.API, m declare.Manifest, services []declare.Service, p *param.Create) {
	changes, err := api.Plan.Plan(ctx, m, services)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to plan")
	}

	fmt.Println(view.Plan(changes))

	if plan.Provisioned(changes) {
		fmt.Println("nothing to provision")
		return
	}

	provisioned, err := api.Infra.Apply(ctx, m, changes)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to provision")
	}

	for _, resource := range provisioned {
		fmt.Printf("%s %s\n", resource.Name, resource.Status)
	}
}

func Deploy(ctx context.Context, api sdk.API, m declare.Manifest, services []declare.Service, p *param.Deploy) {
	for _, s := range services {
		image, err := api.Release.Build(ctx, m, s)
		if err != nil {
			log.Fatal().Err(err).Str("service", s.Name).Msg("failed to build release")
		}

		release, err := api.Release.Publish(ctx, image, p.Dirty)
		if err != nil {
			log.Fatal().Err(err).Str("service", s.Name).Msg("failed to publish release")
		}

		deployed, err := api.Deployment.Deploy(ctx, release)
		if err != nil {
			log.Fatal().Err(err).Str("service", s.Name).Msg("failed to deploy release")
		}

		url := deployed.Url

		routed, err := api.Httproxy.Mount(ctx, deployed)
		if err != nil {
			log.Fatal().Err(err).Str("service", s.Name).Msg("failed to mount gateway route")
		}

		if routed != "" {
			url = routed
		}

		if err := api.Bus.Deployed(ctx, deployed, url); err != nil {
			log.Warn().Err(err).Str("service", s.Name).Msg("failed to emit deploy event")
		}

		fmt.Printf("%s %s\n", s.Name, url)
	}
}

func Destroy(ctx context.Context, api sdk.API, m declare.Manifest, services []declare.Service, p *param.Destroy) {
	var names []string
	for _, s := range services {
		names = append(names, s.Name)
	}

	if len(p.Names) > 0 {
		var err error
		if names, err = api.Plan.Destroyable(m, p.Names); err != nil {
			log.Fatal().Err(err).Msg("unknown service")
		}
	}

	for _, name := range names {
		var functionArn string

		deployed, err := api.Deployment.Find(ctx, name)
		if err != nil {
			log.Fatal().Err(err).Str("service", name).Msg("failed to find deployment")
		}

		if deployed != nil {
			functionArn = deployed.FunctionArn
		}

		if err := api.Httproxy.Unmount(ctx, name, functionArn); err != nil {
			log.Fatal().Err(err).Str("service", name).Msg("failed to unmount gateway route")
		}

		if err := api.Deployment.Destroy(ctx, name, p.Purge); err != nil {
			log.Fatal().Err(err).Str("service", name).Msg("failed to destroy deployment")
		}

		if err := api.Bus.Destroyed(ctx, name); err != nil {
			log.Warn().Err(err).Str("service", name).Msg("failed to emit destroy event")
		}

		fmt.Printf("%s destroyed\n", name)
	}
}

func Status(ctx context.Context, api sdk.API, m declare.Manifest, services []declare.Service, p *param.Status) {
	var rows []view.StatusRow

	for _, s := range services {
		deployed, err := api.Deployment.Find(ctx, s.Name)
		if err != nil {
			log.Fatal().Err(err).Str("service", s.Name).Msg("failed to find deployment")
		}

		record, err := api.State.Get(api.Config.Project, api.Config.Environment, s.Name)
		if err != nil {
			log.Fatal().Err(err).Str("service", s.Name).Msg("failed to read state")
		}

		rows = append(rows, StatusRow(s.Name, deployed, record))
	}

	fmt.Println(view.Status(rows))
}

// StatusRow prefers the live function and falls back to the recorded status when there is none.
func StatusRow(service string, d *deployment.Deployment, record *state.Resource) view.StatusRow {
	row := view.StatusRow{Service: service, State: "absent"}

	if d != nil {
		row.State = string(d.State)
		row.Url = d.Url
		row.Sha = d.Sha()
	}

	if record != nil {
		row.DeployedAt = record.DeployedAt
		if d == nil {
			row.State = string(record.Status)
		}
	}

	return row
}

func Releases(ctx context.Context, api sdk.API, m declare.Manifest, p *param.Releases) {
	if _, err := m.Lookup(p.Service); err != nil {
		log.Fatal().Err(err).Msg("unknown service")
	}

	summaries, err := api.Release.List(ctx, p.Service)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list releases")
	}

	fmt.Println(view.Releases(summaries))
}

func Prune(ctx context.Context, api sdk.API, m declare.Manifest, p *param.Prune) {
	if _, err := m.Lookup(p.Service); err != nil {
		log.Fatal().Err(err).Msg("unknown service")
	}

	inUse, err := api.State.Digests(api.Config.Project, p.Service)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read deployed releases")
	}

	// the function is the authority for this environment, whatever the state store last saw.
	deployed, err := api.Deployment.Find(ctx, p.Service)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to find deployment")
	}

	if deployed != nil {
		if _, digest, ok := strings.Cut(deployed.ImageUri, "@"); ok {
			inUse = append(inUse, digest)
		}
	}

	keep, drop, err := api.Release.PrunePlan(ctx, p.Service, time.Now(), inUse)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to plan prune")
	}

	for _, digest := range drop {
		fmt.Printf("prune %s\n", digest)
	}

	fmt.Printf("%d kept, %d to prune\n", len(keep), len(drop))

	if p.DryRun || len(drop) == 0 {
		return
	}

	if err := api.Release.Prune(ctx, p.Service, drop); err != nil {
		log.Fatal().Err(err).Msg("failed to prune releases")
	}
}

func Curl(ctx context.Context, api sdk.API, m declare.Manifest, p *param.Curl) {
	s, err := m.Lookup(p.Service)
	if err != nil {
		log.Fatal().Err(err).Msg("unknown service")
	}

	deployed, err := api.Deployment.Find(ctx, s.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to find deployment")
	}

	if deployed == nil || deployed.Url == "" {
		log.Fatal().Str("service", s.Name).Msg("service is not deployed")
	}

	base := deployed.Url
	if p.Gateway {
		if base, err = api.Httproxy.Url(ctx, s.Name); err != nil || base == "" {
			log.Fatal().Err(err).Msg("no gateway route for service")
		}
	}

	response, err := api.Curl.Do(ctx, s.Name, base, p.Method, p.Path, []byte(p.Data), deployed.Private)
	if err != nil {
		log.Fatal().Err(err).Msg("request failed")
	}
	defer response.Body.Close()

	log.Info().Int("status", response.StatusCode).Msg("response")

	if _, err := io.Copy(os.Stdout, response.Body); err != nil {
		log.Fatal().Err(err).Msg("failed to read response")
	}
}

func PrintConfig(ctx context.Context, api sdk.API, m declare.Manifest, p *param.Config) {
	out, err := view.Json(struct {
		Config   config.Config
		Manifest declare.Manifest
	}{api.Config, m})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to print configuration")
	}

	fmt.Println(out)
}
