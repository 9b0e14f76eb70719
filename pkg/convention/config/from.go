package config

import (
	"github.com/linecard/launch/internal/umwelt"
)

// FromHere derives the configuration for project from the discovered surroundings.
func FromHere(here umwelt.Here, project string) (c Config) {
	c.Project = project
	c.Environment = here.Settings.Environment
	c.Manifest = here.Settings.Manifest

	c.Caller.Arn = here.Caller.Arn

	c.Account.Id = here.Caller.Account
	c.Account.Region = here.Caller.Region

	c.Registry.Id = here.Registry.Id
	c.Registry.Region = here.Registry.Region
	c.Registry.Url = c.Registry.Id + ".dkr.ecr." + c.Registry.Region + ".amazonaws.com"

	if here.Git.Origin != nil {
		c.Git.Origin = here.Git.Origin.String()
	}
	c.Git.Branch = here.Git.Branch
	c.Git.Sha = here.Git.Sha
	c.Git.Root = here.Git.Root
	c.Git.Dirty = here.Git.Dirty

	c.Httproxy.ApiId = here.ApiGateway.Id
	c.Bus.Name = here.Settings.BusName
	c.State.Path = here.Settings.StatePath
	c.TrackBranch = here.Settings.TrackBranch

	return
}
