package gitlib

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("Dockerfile")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "launch", Email: "launch@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, repo, hash.String()
}

func TestFromPath(t *testing.T) {
	dir, repo, sha := initRepo(t)

	nested := filepath.Join(dir, "services", "web")
	require.NoError(t, os.MkdirAll(nested, os.ModePerm))

	found, err := FromPath(nested)
	require.NoError(t, err)
	assert.Equal(t, sha, found.Sha)
	assert.Equal(t, "master", found.Branch)
	assert.False(t, found.Dirty)
	assert.Nil(t, found.Origin)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM alpine\n"), 0o644))
	found, err = FromPath(dir)
	require.NoError(t, err)
	assert.True(t, found.Dirty)

	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:linecard/remix.git"}})
	require.NoError(t, err)
	found, err = FromPath(dir)
	require.NoError(t, err)
	require.NotNil(t, found.Origin)
	assert.Equal(t, "github.com", found.Origin.Host)
	assert.Equal(t, "/linecard/remix.git", found.Origin.Path)
}

func TestFromPathOutsideRepository(t *testing.T) {
	_, err := FromPath(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoRepository), "got %v", err)
}

func TestParseRemote(t *testing.T) {
	tests := []struct {
		raw  string
		host string
		path string
	}{
		{"https://github.com/linecard/remix.git", "github.com", "/linecard/remix.git"},
		{"git@github.com:linecard/remix.git", "github.com", "/linecard/remix.git"},
		{"git@gitlab.example.com:group/sub/remix", "gitlab.example.com", "/group/sub/remix"},
	}

	for _, tc := range tests {
		u, err := ParseRemote(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, "https", u.Scheme, tc.raw)
		assert.Equal(t, tc.host, u.Host, tc.raw)
		assert.Equal(t, tc.path, u.Path, tc.raw)
	}
}
