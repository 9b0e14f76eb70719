package mocks

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/linecard/launch/internal/gitlib"
	mockfixture "github.com/linecard/launch/pkg/mock/fixture"

	"github.com/rs/zerolog/log"
)

// MockProject lays out a launch project under root: one directory per service with a
// Dockerfile, a policy template for the first service, and a launch.yaml declaring them all.
func MockProject(root, orgName, project, branchName string, services ...string) (gitMock gitlib.DotGit, manifestPath string) {
	var manifest strings.Builder

	projectDir := filepath.Join(root, project)
	fmt.Fprintf(&manifest, "version: 1.0.0\nproject: %s\nservices:\n", project)

	for i, service := range services {
		dockerfile := filepath.Join(projectDir, service, "Dockerfile")
		if err := mockfixture.Copy("Dockerfile", dockerfile); err != nil {
			log.Fatal().Err(err).Msg("failed to copy Dockerfile")
		}

		fmt.Fprintf(&manifest, "  - name: %s\n    dockerfile: %s/Dockerfile\n", service, service)

		if i == 0 {
			policy := filepath.Join(projectDir, service, "policy.json.tmpl")
			if err := mockfixture.Copy("policy.json.tmpl", policy); err != nil {
				log.Fatal().Err(err).Msg("failed to copy policy.json.tmpl")
			}
			fmt.Fprintf(&manifest, "    policy: %s/policy.json.tmpl\n", service)
		}
	}

	manifestPath = filepath.Join(projectDir, "launch.yaml")
	if err := os.WriteFile(manifestPath, []byte(manifest.String()), 0o644); err != nil {
		log.Fatal().Err(err).Msg("failed to write launch.yaml")
	}

	return mockGit(orgName, projectDir, branchName), manifestPath
}

func mockGit(org, path, branch string) gitlib.DotGit {
	origin, err := url.Parse("https://github.com/" + org + "/" + filepath.Base(path) + ".git")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse origin URL")
	}

	sha, err := shaPath(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to determine SHA")
	}

	return gitlib.DotGit{
		Branch: branch,
		Sha:    sha,
		Root:   path,
		Origin: origin,
		Dirty:  false,
	}
}

// shaPath hashes file names and contents, standing in for a commit sha.
func shaPath(path string) (string, error) {
	hasher := sha1.New()

	err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}

		if _, err = hasher.Write([]byte(rel)); err != nil {
			return err
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(hasher, f)
		return err
	})

	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
