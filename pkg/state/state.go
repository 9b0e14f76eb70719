package state

import (
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

type Store struct {
	db    *gorm.DB
	RunId string
}

// Open creates the database file and its directory when missing and migrates the schema.
// Every store gets a fresh run id that tags the events it records.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "creating state directory %s", dir)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening state %s", path)
	}

	if err := db.AutoMigrate(&Resource{}, &Event{}); err != nil {
		return nil, errors.Wrap(err, "migrating state")
	}

	log.Debug().Str("path", path).Msg("state opened")

	return &Store{db: db, RunId: uuid.NewString()}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Upsert writes r keyed by project, environment and name. Empty fields of r do not clear
// previously recorded values.
func (s *Store) Upsert(r Resource) (Resource, error) {
	existing, err := s.Get(r.Project, r.Environment, r.Name)
	if err != nil {
		return Resource{}, err
	}

	if existing == nil {
		result := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project"}, {Name: "environment"}, {Name: "name"}},
			UpdateAll: true,
		}).Create(&r)
		if result.Error != nil {
			return Resource{}, errors.Wrapf(result.Error, "recording %s", r.Name)
		}
		return r, nil
	}

	if err := s.db.Model(existing).Updates(r).Error; err != nil {
		return Resource{}, errors.Wrapf(err, "recording %s", r.Name)
	}

	updated, err := s.Get(r.Project, r.Environment, r.Name)
	if err != nil {
		return Resource{}, err
	}

	return *updated, nil
}

// Get returns nil without error when nothing is recorded for the key.
func (s *Store) Get(project, environment, name string) (*Resource, error) {
	var r Resource

	result := s.db.Where(&Resource{Project: project, Environment: environment, Name: name}).Limit(1).Find(&r)
	if result.Error != nil {
		return nil, errors.Wrapf(result.Error, "reading %s", name)
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &r, nil
}

// List returns every resource recorded for the project and environment, including destroyed ones.
func (s *Store) List(project, environment string) ([]Resource, error) {
	var resources []Resource

	err := s.db.
		Where(&Resource{Project: project, Environment: environment}).
		Order("name").
		Find(&resources).Error

	return resources, errors.Wrap(err, "listing resources")
}

// Live is List without destroyed resources.
func (s *Store) Live(project, environment string) ([]Resource, error) {
	var resources []Resource

	err := s.db.
		Where(&Resource{Project: project, Environment: environment}).
		Where("status <> ?", StatusDestroyed).
		Order("name").
		Find(&resources).Error

	return resources, errors.Wrap(err, "listing live resources")
}

// Environments lists the environments of the project where the named service is not destroyed.
func (s *Store) Environments(project, name string) ([]string, error) {
	var environments []string

	err := s.db.Model(&Resource{}).
		Where(&Resource{Project: project, Name: name}).
		Where("status <> ?", StatusDestroyed).
		Order("environment").
		Pluck("environment", &environments).Error

	return environments, errors.Wrap(err, "listing environments")
}

// Digests lists the image digests the named service runs in any live environment of the project.
func (s *Store) Digests(project, name string) ([]string, error) {
	var digests []string

	err := s.db.Model(&Resource{}).
		Where(&Resource{Project: project, Name: name}).
		Where("status <> ? AND image_digest <> ''", StatusDestroyed).
		Distinct().
		Pluck("image_digest", &digests).Error

	return digests, errors.Wrap(err, "listing deployed digests")
}

func (s *Store) MarkDeployed(project, environment, name, digest, url string, at time.Time) error {
	_, err := s.Upsert(Resource{
		Project:     project,
		Environment: environment,
		Name:        name,
		ImageDigest: digest,
		Url:         url,
		Status:      StatusDeployed,
		DeployedAt:  &at,
	})
	return err
}

// MarkDestroyed keeps the row so the history of the key survives, but clears what no longer exists.
func (s *Store) MarkDestroyed(project, environment, name string) error {
	result := s.db.Model(&Resource{}).
		Where(&Resource{Project: project, Environment: environment, Name: name}).
		Updates(map[string]any{
			"status":       StatusDestroyed,
			"function_arn": "",
			"url":          "",
			"image_digest": "",
			"deployed_at":  nil,
		})

	return errors.Wrapf(result.Error, "destroying %s", name)
}

// Record appends an event for this run.
func (s *Store) Record(project, environment, resource, action string, err error) error {
	e := Event{
		RunId:       s.RunId,
		Project:     project,
		Environment: environment,
		Resource:    resource,
		Action:      action,
		Outcome:     OutcomeSucceeded,
	}

	if err != nil {
		e.Outcome = OutcomeFailed
		e.Message = err.Error()
	}

	return errors.Wrap(s.db.Create(&e).Error, "recording event")
}

// Events returns the most recent events for a resource, newest first. limit <= 0 returns all.
func (s *Store) Events(project, environment, resource string, limit int) ([]Event, error) {
	var events []Event

	query := s.db.
		Where(&Event{Project: project, Environment: environment, Resource: resource}).
		Order("id desc")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&events).Error
	return events, errors.Wrap(err, "listing events")
}
