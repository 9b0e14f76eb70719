package declare

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestHTTPService(t *testing.T) {
	got := HTTPService("svc-a", Dockerfile("./Dockerfile"))

	assert.Equal(t, KindHTTPService, got.Kind)
	assert.Equal(t, "svc-a", got.Name)
	assert.Equal(t, "./Dockerfile", got.Dockerfile)
	assert.Equal(t, ".", got.BuildContext())
	assert.Equal(t, DefaultMemory, got.Memory)
	assert.Equal(t, DefaultTimeout, got.Timeout)
	assert.Equal(t, DefaultEphemeralStorage, got.EphemeralStorage)
	assert.False(t, got.Private)

	withOpts := HTTPService("svc-b",
		Dockerfile("api/Dockerfile"),
		Memory(512),
		Timeout(30),
		Private(),
		Env("MODE", "production"),
	)

	assert.Equal(t, "api", withOpts.BuildContext())
	assert.Equal(t, int32(512), withOpts.Memory)
	assert.Equal(t, int32(30), withOpts.Timeout)
	assert.True(t, withOpts.Private)
	assert.Equal(t, map[string]string{"MODE": "production"}, withOpts.Env)
}

func TestHash(t *testing.T) {
	a := HTTPService("svc-a", Env("B", "2"), Env("A", "1"))
	b := HTTPService("svc-a", Env("A", "1"), Env("B", "2"))
	c := HTTPService("svc-a", Env("A", "1"), Env("B", "3"))

	assert.Equal(t, a.Hash(), b.Hash(), "map ordering must not change the digest")
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.Len(t, a.Hash(), 16)

	// defaults are part of the digest, so a bare declaration and an explicit one agree.
	assert.Equal(t, Service{Name: "svc-a"}.Hash(), HTTPService("svc-a", Memory(DefaultMemory)).Hash())
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"svc-a", true},
		{"a", true},
		{"launchflow-remix-app", true},
		{"a1-b2", true},
		{"", false},
		{"Svc", false},
		{"1svc", false},
		{"svc-", false},
		{"svc_a", false},
		{"svc.a", false},
		{"abcdefghijklmnopqrstuvwxyzabcdefghijklmno", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateName(tc.name)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidName), "expected ErrInvalidName, got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		files    []string
		test     func(*testing.T, Manifest, error)
	}{
		{
			name: "single declaration with relative dockerfile",
			manifest: `
version: 1.0.0
project: remix
services:
  - name: svc-a
    dockerfile: ./Dockerfile
`,
			files: []string{"Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				require.NoError(t, err)
				require.Len(t, m.Services, 1)
				assert.Equal(t, "remix", m.Project)
				assert.Equal(t, KindHTTPService, m.Services[0].Kind)
				assert.Equal(t, "svc-a", m.Services[0].Name)
				assert.Equal(t, filepath.Join(m.Dir, "Dockerfile"), m.DockerfilePath(m.Services[0]))
				assert.Equal(t, m.Dir, m.ContextPath(m.Services[0]))
			},
		},
		{
			name: "version and project default",
			manifest: `
services:
  - name: svc-a
`,
			files: []string{"Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				require.NoError(t, err)
				assert.Equal(t, DefaultVersion, m.Version)
				assert.Equal(t, "remix-app", m.Project)
			},
		},
		{
			name: "multiple declarations keep order",
			manifest: `
project: remix
services:
  - name: web
    dockerfile: web/Dockerfile
  - name: api
    dockerfile: api/Dockerfile
    context: .
`,
			files: []string{"web/Dockerfile", "api/Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"web", "api"}, m.Names())
				assert.Equal(t, filepath.Join(m.Dir, "web"), m.ContextPath(m.Services[0]))
				assert.Equal(t, m.Dir, m.ContextPath(m.Services[1]))
			},
		},
		{
			name: "missing dockerfile is not found",
			manifest: `
project: remix
services:
  - name: svc-a
    dockerfile: missing/Dockerfile
`,
			test: func(t *testing.T, m Manifest, err error) {
				assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
				assert.Contains(t, err.Error(), "not found")
			},
		},
		{
			name: "duplicate names rejected",
			manifest: `
project: remix
services:
  - name: svc-a
  - name: svc-a
`,
			files: []string{"Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				assert.True(t, errors.Is(err, ErrDuplicateName), "got %v", err)
			},
		},
		{
			name: "unknown kind rejected",
			manifest: `
project: remix
services:
  - name: svc-a
    kind: database
`,
			files: []string{"Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				assert.True(t, errors.Is(err, ErrUnknownKind), "got %v", err)
			},
		},
		{
			name: "unknown field rejected",
			manifest: `
project: remix
services:
  - name: svc-a
    dockerfil: Dockerfile
`,
			files: []string{"Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				assert.Error(t, err)
			},
		},
		{
			name: "unsupported version rejected",
			manifest: `
version: 2.1.0
project: remix
services:
  - name: svc-a
`,
			files: []string{"Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				assert.True(t, errors.Is(err, ErrUnsupportedVersion), "got %v", err)
			},
		},
		{
			name:     "empty manifest rejected",
			manifest: "project: remix\n",
			test: func(t *testing.T, m Manifest, err error) {
				assert.True(t, errors.Is(err, ErrEmpty), "got %v", err)
			},
		},
		{
			name: "out of bounds memory rejected",
			manifest: `
project: remix
services:
  - name: svc-a
    memory: 64
`,
			files: []string{"Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				assert.True(t, errors.Is(err, ErrOutOfBounds), "got %v", err)
			},
		},
		{
			name: "override of undeclared service rejected",
			manifest: `
project: remix
services:
  - name: svc-a
environments:
  production:
    svc-b:
      memory: 512
`,
			files: []string{"Dockerfile"},
			test: func(t *testing.T, m Manifest, err error) {
				assert.True(t, errors.Is(err, ErrNotDeclared), "got %v", err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "remix-app")
			for _, f := range tc.files {
				writeFile(t, filepath.Join(dir, f), "FROM scratch\n")
			}

			path := filepath.Join(dir, DefaultManifest)
			writeFile(t, path, tc.manifest)

			m, err := Load(path)
			tc.test(t, m, err)
		})
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultManifest))
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestLoadIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Dockerfile"), "FROM scratch\n")
	writeFile(t, filepath.Join(dir, DefaultManifest), "project: remix\nservices:\n  - name: svc-a\n")

	first, err := Load(filepath.Join(dir, DefaultManifest))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := Load(filepath.Join(dir, DefaultManifest))
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, first.Services[0].Hash(), again.Services[0].Hash())
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Dockerfile"), "FROM scratch\n")

	m, err := New(dir, "remix", HTTPService("svc-a", Dockerfile("./Dockerfile")))
	require.NoError(t, err)
	assert.Equal(t, []string{"svc-a"}, m.Names())

	_, err = New(dir, "remix", HTTPService("svc-a", Dockerfile("nope/Dockerfile")))
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	_, err = New(dir, "Remix", HTTPService("svc-a"))
	assert.True(t, errors.Is(err, ErrInvalidName), "got %v", err)
}
