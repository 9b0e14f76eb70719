package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/linecard/launch/pkg/declare"
)

const LabelSchema = "1.0"

type LabelKeyContract struct {
	Schema      string
	Project     string
	Service     string
	Declaration string
	Branch      string
	Sha         string
}

var LabelKeys = LabelKeyContract{
	Schema:      "org.linecard.launch.schema",
	Project:     "org.linecard.launch.project",
	Service:     "org.linecard.launch.service",
	Declaration: "org.linecard.launch.declaration",
	Branch:      "org.linecard.launch.git.branch",
	Sha:         "org.linecard.launch.git.sha",
}

// StringLabel is a base64 encoded image label.
type StringLabel struct {
	Key      string
	Content  string
	Required bool
}

func (s StringLabel) Encode() (string, error) {
	if s.Required && s.Content == "" {
		return "", fmt.Errorf("label %s requirement failed", s.Key)
	}

	return base64.StdEncoding.EncodeToString([]byte(s.Content)), nil
}

func (s StringLabel) Decode(labels map[string]string) (string, error) {
	value, exists := labels[s.Key]
	if !exists {
		if s.Required {
			return "", fmt.Errorf("label %s required but not found", s.Key)
		}
		return "", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("label %s: %w", s.Key, err)
	}

	return string(decoded), nil
}

// ReleaseLabels is what a published image says about itself.
type ReleaseLabels struct {
	Schema  string
	Project string
	Branch  string
	Sha     string
	Service declare.Service
}

func (c Config) labelSet(s declare.Service) ([]StringLabel, error) {
	declaration, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	return []StringLabel{
		{Key: LabelKeys.Schema, Content: LabelSchema, Required: true},
		{Key: LabelKeys.Project, Content: c.Project, Required: true},
		{Key: LabelKeys.Service, Content: s.Name, Required: true},
		{Key: LabelKeys.Declaration, Content: string(declaration), Required: true},
		{Key: LabelKeys.Branch, Content: c.Git.Branch},
		{Key: LabelKeys.Sha, Content: c.Git.Sha, Required: true},
	}, nil
}

// Labels encodes the declaration and git state for docker build.
func (c Config) Labels(s declare.Service) (map[string]string, error) {
	set, err := c.labelSet(s)
	if err != nil {
		return nil, err
	}

	labels := map[string]string{}
	for _, label := range set {
		encoded, err := label.Encode()
		if err != nil {
			return nil, err
		}
		labels[label.Key] = encoded
	}

	return labels, nil
}

func DecodeLabels(labels map[string]string) (r ReleaseLabels, err error) {
	var declaration string

	fields := []struct {
		label StringLabel
		into  *string
	}{
		{StringLabel{Key: LabelKeys.Schema, Required: true}, &r.Schema},
		{StringLabel{Key: LabelKeys.Project, Required: true}, &r.Project},
		{StringLabel{Key: LabelKeys.Declaration, Required: true}, &declaration},
		{StringLabel{Key: LabelKeys.Branch}, &r.Branch},
		{StringLabel{Key: LabelKeys.Sha, Required: true}, &r.Sha},
	}

	for _, field := range fields {
		if *field.into, err = field.label.Decode(labels); err != nil {
			return ReleaseLabels{}, err
		}
	}

	if r.Schema != LabelSchema {
		return ReleaseLabels{}, fmt.Errorf("unsupported label schema %s", r.Schema)
	}

	if err := json.Unmarshal([]byte(declaration), &r.Service); err != nil {
		return ReleaseLabels{}, fmt.Errorf("decoding declaration label: %w", err)
	}

	return r, nil
}
