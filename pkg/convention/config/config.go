package config

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/linecard/launch/internal/util"
	"github.com/linecard/launch/pkg/declare"
	"github.com/pkg/errors"
)

// MaxResourceName is the shortest name limit among the resources named after a service
// (Lambda functions, IAM roles and policies).
const MaxResourceName = 64

type Caller struct {
	Arn string
}

type Account struct {
	Id     string
	Region string
}

type Git struct {
	Origin string
	Branch string
	Sha    string
	Root   string
	Dirty  bool
}

type Registry struct {
	Id     string
	Region string
	Url    string
}

type Httproxy struct {
	ApiId string
}

type Bus struct {
	Name string
}

type State struct {
	Path string
}

type TemplateData struct {
	AccountId         string
	Region            string
	RegistryRegion    string
	RegistryAccountId string
	Project           string
	Environment       string
	Service           string
	ResourceName      string
}

type Config struct {
	Project     string
	Environment string
	Manifest    string
	Caller      Caller
	Account     Account
	Git         Git
	Registry    Registry
	Httproxy    Httproxy
	Bus         Bus
	State       State

	// TrackBranch is the branch whose pushes the handler deploys to this environment.
	TrackBranch string
}

// ResourceName names the function, role and policy of a service. Names that would exceed
// MaxResourceName are shortened and suffixed with a digest of the full name.
func (c Config) ResourceName(service string) string {
	name := c.Project + "-" + util.DeSlasher(c.Environment) + "-" + service
	if len(name) <= MaxResourceName {
		return name
	}

	sum := sha256.Sum256([]byte(name))
	suffix := hex.EncodeToString(sum[:])[:8]
	return strings.TrimSuffix(name[:MaxResourceName-len(suffix)-1], "-") + "-" + suffix
}

// RepositoryName is shared by all environments of the project.
func (c Config) RepositoryName(service string) string {
	return c.Project + "/" + service
}

func (c Config) RepositoryUrl(service string) string {
	return c.Registry.Url + "/" + c.RepositoryName(service)
}

func (c Config) ImageTag(service, tag string) string {
	return c.RepositoryUrl(service) + ":" + tag
}

func (c Config) ImageUri(service, digest string) string {
	return c.RepositoryUrl(service) + "@" + digest
}

func (c Config) RoleArn(service string) string {
	return util.RoleArnFromName(c.Account.Id, c.ResourceName(service))
}

func (c Config) PolicyArn(service string) string {
	return util.PolicyArnFromName(c.Account.Id, c.ResourceName(service))
}

// RoutePrefix is where a service is mounted on the shared API gateway.
func (c Config) RoutePrefix(service string) string {
	return "/" + c.Project + "/" + util.DeSlasher(c.Environment) + "/" + service
}

func (c Config) TemplateData(service string) TemplateData {
	return TemplateData{
		AccountId:         c.Account.Id,
		Region:            c.Account.Region,
		RegistryRegion:    c.Registry.Region,
		RegistryAccountId: c.Registry.Id,
		Project:           c.Project,
		Environment:       c.Environment,
		Service:           service,
		ResourceName:      c.ResourceName(service),
	}
}

// Tag keys stamped on every live resource launch manages.
const (
	TagProject     = "launch:project"
	TagEnvironment = "launch:environment"
	TagService     = "launch:service"
	TagKind        = "launch:kind"
	TagSpec        = "launch:spec"
	TagSha         = "launch:sha"
	TagBranch      = "launch:branch"
)

// Tags identifies a declared service on the provider. The git sha is only added for releases.
func (c Config) Tags(s declare.Service) map[string]string {
	return map[string]string{
		TagProject:     c.Project,
		TagEnvironment: c.Environment,
		TagService:     s.Name,
		TagKind:        string(s.Kind),
		TagSpec:        s.Hash(),
	}
}

// RepositoryTags label the service's ECR repository. Every environment of the project pushes
// to the same repository, so nothing environment-specific goes on it.
func (c Config) RepositoryTags(service string) map[string]string {
	return map[string]string{
		TagProject: c.Project,
		TagService: service,
	}
}

func (c Config) ReleaseTags(s declare.Service) map[string]string {
	tags := c.Tags(s)
	if c.Git.Sha != "" {
		tags[TagSha] = c.Git.Sha
	}
	return tags
}

var (
	ErrNotProvisioned = errors.New("not provisioned, run launch create first")
	ErrDirty          = errors.New("refusing to publish dirty git state, commit or pass --dirty")
)
