package param

type GlobalOpts struct {
	Manifest    string   `arg:"-f,--manifest,env:LAUNCH_MANIFEST" help:"path to the manifest" default:"launch.yaml"`
	Environment string   `arg:"-e,--environment,env:LAUNCH_ENVIRONMENT" help:"environment overrides to apply" default:"development"`
	Only        []string `arg:"-o,--only,separate" help:"glob patterns selecting services"`
	BusName     string   `arg:"--bus,env:LAUNCH_BUS_NAME" help:"eventbridge bus receiving lifecycle events"`
	ApiGateway  string   `arg:"--api-gateway,env:AWS_API_GATEWAY_ID" help:"api gateway to mount routes on"`
}

type Create struct{}

type Deploy struct {
	Dirty bool `arg:"--dirty" help:"publish even with uncommitted changes"`
}

type Destroy struct {
	Names []string `arg:"positional" help:"services to destroy, declared or only recorded; defaults to the selection"`
	Purge bool     `arg:"--purge" help:"also delete the image repository"`
}

type Plan struct{}

type Status struct{}

type Releases struct {
	Service string `arg:"positional,required" help:"service name"`
}

type Prune struct {
	Service string `arg:"positional,required" help:"service name"`
	DryRun  bool   `arg:"-n,--dry-run" help:"only print what would be deleted"`
}

type Config struct{}

type Init struct {
	Template string `arg:"positional,required" help:"scaffold to render"`
	Name     string `arg:"positional,required" help:"name of the new service"`
}

type Curl struct {
	Service string `arg:"positional,required" help:"service name"`
	Path    string `arg:"positional" help:"path under the service url" default:"/"`
	Method  string `arg:"-X,--request" help:"http method" default:"GET"`
	Data    string `arg:"-d,--data" help:"request body"`
	Gateway bool   `arg:"-g,--gateway" help:"call through the api gateway route"`
}
