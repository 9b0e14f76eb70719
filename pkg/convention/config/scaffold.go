package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const scaffoldPath = "embedded/scaffold"

func Scaffolds() ([]string, error) {
	entries, err := embedded.ReadDir(scaffoldPath)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// Scaffold renders the named template into dir. Existing files are never overwritten.
func (c Config) Scaffold(templateName, service, dir string) error {
	templatePath := scaffoldPath + "/" + templateName

	if _, err := embedded.ReadDir(templatePath); err != nil {
		names, _ := Scaffolds()
		return fmt.Errorf("scaffold %s does not exist. valid options: %s", templateName, strings.Join(names, ", "))
	}

	data := c.TemplateData(service)

	return fs.WalkDir(embedded, templatePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath := strings.TrimPrefix(strings.TrimPrefix(path, templatePath), "/")
		target := filepath.Join(dir, strings.TrimSuffix(relPath, ".tmpl"))

		if d.IsDir() {
			return os.MkdirAll(target, os.ModePerm)
		}

		content, err := fs.ReadFile(embedded, path)
		if err != nil {
			return err
		}

		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return err
		}

		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return err
		}
		defer out.Close()

		return tmpl.Execute(out, data)
	})
}
