package state

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusProvisioned Status = "provisioned"
	StatusDeployed    Status = "deployed"
	StatusDestroyed   Status = "destroyed"
)

// Resource is what launch last did to one declared service.
type Resource struct {
	gorm.Model
	Project     string `gorm:"uniqueIndex:idx_resource_key"`
	Environment string `gorm:"uniqueIndex:idx_resource_key"`
	Name        string `gorm:"uniqueIndex:idx_resource_key"`
	Kind        string
	FunctionArn string
	RoleArn     string
	Repository  string
	Url         string
	SpecHash    string
	ImageDigest string
	GitSha      string
	Status      Status
	DeployedAt  *time.Time
}

// Event is one step of a run. Events are append only.
type Event struct {
	ID          uint   `gorm:"primarykey"`
	RunId       string `gorm:"index"`
	Project     string `gorm:"index:idx_event_resource"`
	Environment string `gorm:"index:idx_event_resource"`
	Resource    string `gorm:"index:idx_event_resource"`
	Action      string
	Outcome     string
	Message     string
	CreatedAt   time.Time
}
