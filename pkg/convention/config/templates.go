package config

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/linecard/launch/pkg/declare"
	"github.com/pkg/errors"
)

//go:embed embedded
var embedded embed.FS

const (
	TrustPolicyPath   = "embedded/roles/lambda.json.tmpl"
	DefaultPolicyPath = "embedded/policies/default.json.tmpl"
)

func ReadEmbedded(path string) (string, error) {
	content, err := fs.ReadFile(embedded, path)
	if err != nil {
		return "", err
	}

	return string(content), nil
}

// Template renders document with the service's template data.
func (c Config) Template(document, service string) (string, error) {
	tmpl, err := template.New("document").Option("missingkey=error").Parse(document)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, c.TemplateData(service)); err != nil {
		return "", err
	}

	return b.String(), nil
}

// compactJson validates and compacts a rendered policy document.
func compactJson(name, document string) (string, error) {
	if !json.Valid([]byte(document)) {
		return "", fmt.Errorf("invalid JSON in %s", name)
	}

	compacted := new(bytes.Buffer)
	if err := json.Compact(compacted, []byte(document)); err != nil {
		return "", err
	}

	return compacted.String(), nil
}

func (c Config) TrustPolicy(service string) (string, error) {
	document, err := ReadEmbedded(TrustPolicyPath)
	if err != nil {
		return "", err
	}

	rendered, err := c.Template(document, service)
	if err != nil {
		return "", err
	}

	return compactJson(TrustPolicyPath, rendered)
}

// PolicyDocument renders the service's policy template, or the default logging policy
// when the declaration names none.
func (c Config) PolicyDocument(m declare.Manifest, s declare.Service) (string, error) {
	name := DefaultPolicyPath
	document, err := ReadEmbedded(DefaultPolicyPath)

	if s.Policy != "" {
		name = m.Path(s.Policy)

		var raw []byte
		raw, err = os.ReadFile(name)
		document = string(raw)
	}

	if err != nil {
		return "", errors.Wrapf(err, "reading policy for %s", s.Name)
	}

	rendered, err := c.Template(document, s.Name)
	if err != nil {
		return "", errors.Wrapf(err, "rendering %s", name)
	}

	return compactJson(name, rendered)
}
