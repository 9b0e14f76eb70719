// Package gitlib reads the commit, branch and origin of the repository a manifest lives in.
package gitlib

import (
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
)

var ErrNoRepository = errors.New("this does not appear to be a git repository")

type DotGit struct {
	Branch string
	Sha    string
	Root   string
	Origin *url.URL
	Dirty  bool
}

func FromCwd() (DotGit, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return DotGit{}, err
	}

	return FromPath(cwd)
}

// FromPath describes the repository containing dir, searching upwards.
// A repository without an origin remote is fine; Origin is then nil.
func FromPath(dir string) (DotGit, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return DotGit{}, errors.Wrap(ErrNoRepository, dir)
	}
	if err != nil {
		return DotGit{}, errors.Wrapf(err, "opening repository at %s", dir)
	}

	head, err := repo.Head()
	if err != nil {
		return DotGit{}, errors.Wrap(err, "resolving HEAD")
	}

	wt, err := repo.Worktree()
	if err != nil {
		return DotGit{}, err
	}

	status, err := wt.Status()
	if err != nil {
		return DotGit{}, errors.Wrap(err, "reading worktree status")
	}

	found := DotGit{
		Branch: head.Name().Short(),
		Sha:    head.Hash().String(),
		Root:   wt.Filesystem.Root(),
		Dirty:  !status.IsClean(),
	}

	remote, err := repo.Remote(git.DefaultRemoteName)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return found, nil
	}
	if err != nil {
		return DotGit{}, err
	}

	urls := remote.Config().URLs
	if len(urls) != 1 {
		return DotGit{}, errors.Errorf("origin has %d urls, want exactly one", len(urls))
	}

	if found.Origin, err = ParseRemote(urls[0]); err != nil {
		return DotGit{}, errors.Wrapf(err, "parsing origin %s", urls[0])
	}

	return found, nil
}

// ParseRemote accepts https remotes and scp-style ssh remotes (git@host:org/repo.git),
// reporting both as https URLs.
func ParseRemote(raw string) (*url.URL, error) {
	if rest, ok := strings.CutPrefix(raw, "git@"); ok {
		raw = "https://" + strings.Replace(rest, ":", "/", 1)
	}

	return url.Parse(raw)
}
