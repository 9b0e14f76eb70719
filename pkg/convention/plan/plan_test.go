package plan

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/declare"
	mockservice "github.com/linecard/launch/pkg/mock/service"
	"github.com/linecard/launch/pkg/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Project:     "remix",
		Environment: "development",
		Account:     config.Account{Id: "123456789012", Region: "us-west-2"},
		Registry: config.Registry{
			Id:     "123456789013",
			Region: "us-west-2",
			Url:    "123456789013.dkr.ecr.us-west-2.amazonaws.com",
		},
	}
}

func testManifest(t *testing.T, services ...declare.Service) declare.Manifest {
	return declare.Manifest{Version: declare.DefaultVersion, Project: "remix", Services: services, Dir: t.TempDir()}
}

func TestDiff(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	svc := declare.HTTPService("svc-a")
	tags := cfg.Tags(svc)
	resource := cfg.ResourceName("svc-a")

	taggedRepo := func() any {
		repo := mockservice.MockRepository(cfg, "svc-a")
		repo.Tags = cfg.RepositoryTags("svc-a")
		return repo
	}

	tests := []struct {
		name      string
		setup     func(r *mockservice.MockRegistryService, f *mockservice.MockFunctionService, s *state.Store)
		expected  Action
		reasons   []string
		drift     []string
		provision bool
	}{
		{
			name: "nothing provisioned",
			setup: func(r *mockservice.MockRegistryService, f *mockservice.MockFunctionService, s *state.Store) {
				r.On("InspectRepository", mock.Anything, cfg.Registry.Id, "remix/svc-a").Return(nil, nil)
				f.On("InspectRole", mock.Anything, resource).Return(nil, nil)
				f.On("Inspect", mock.Anything, resource).Return(nil, nil)
			},
			expected:  Create,
			reasons:   []string{"repository missing", "role missing"},
			provision: true,
		},
		{
			name: "provisioned but never deployed",
			setup: func(r *mockservice.MockRegistryService, f *mockservice.MockFunctionService, s *state.Store) {
				r.On("InspectRepository", mock.Anything, cfg.Registry.Id, "remix/svc-a").Return(taggedRepo(), nil)
				f.On("InspectRole", mock.Anything, resource).Return(mockservice.MockRole(cfg, "svc-a", tags), nil)
				f.On("Inspect", mock.Anything, resource).Return(nil, nil)
			},
			expected: Update,
			drift:    []string{"function not deployed"},
		},
		{
			name: "declaration changed since provisioning",
			setup: func(r *mockservice.MockRegistryService, f *mockservice.MockFunctionService, s *state.Store) {
				stale := cfg.Tags(declare.HTTPService("svc-a", declare.Memory(1024)))
				r.On("InspectRepository", mock.Anything, cfg.Registry.Id, "remix/svc-a").Return(taggedRepo(), nil)
				f.On("InspectRole", mock.Anything, resource).Return(mockservice.MockRole(cfg, "svc-a", stale), nil)
				f.On("Inspect", mock.Anything, resource).Return(mockservice.MockFunction(cfg, "svc-a", "sha256:abc", tags), nil)
			},
			expected:  Update,
			reasons:   []string{"role spec"},
			provision: true,
		},
		{
			name: "repository last tagged by another environment",
			setup: func(r *mockservice.MockRegistryService, f *mockservice.MockFunctionService, s *state.Store) {
				production := cfg
				production.Environment = "production"

				repo := mockservice.MockRepository(cfg, "svc-a")
				repo.Tags = production.Tags(declare.HTTPService("svc-a", declare.Memory(512)))
				r.On("InspectRepository", mock.Anything, cfg.Registry.Id, "remix/svc-a").Return(repo, nil)
				f.On("InspectRole", mock.Anything, resource).Return(mockservice.MockRole(cfg, "svc-a", tags), nil)
				f.On("Inspect", mock.Anything, resource).Return(mockservice.MockFunction(cfg, "svc-a", "sha256:abc", tags), nil)
			},
			expected: Noop,
		},
		{
			name: "function runs another image than recorded",
			setup: func(r *mockservice.MockRegistryService, f *mockservice.MockFunctionService, s *state.Store) {
				r.On("InspectRepository", mock.Anything, cfg.Registry.Id, "remix/svc-a").Return(taggedRepo(), nil)
				f.On("InspectRole", mock.Anything, resource).Return(mockservice.MockRole(cfg, "svc-a", tags), nil)
				f.On("Inspect", mock.Anything, resource).Return(mockservice.MockFunction(cfg, "svc-a", "sha256:old", tags), nil)
				_, err := s.Upsert(state.Resource{Project: "remix", Environment: "development", Name: "svc-a", ImageDigest: "sha256:new"})
				require.NoError(t, err)
			},
			expected: Update,
			drift:    []string{"function image"},
		},
		{
			name: "converged",
			setup: func(r *mockservice.MockRegistryService, f *mockservice.MockFunctionService, s *state.Store) {
				r.On("InspectRepository", mock.Anything, cfg.Registry.Id, "remix/svc-a").Return(taggedRepo(), nil)
				f.On("InspectRole", mock.Anything, resource).Return(mockservice.MockRole(cfg, "svc-a", tags), nil)
				f.On("Inspect", mock.Anything, resource).Return(mockservice.MockFunction(cfg, "svc-a", "sha256:abc", tags), nil)
				_, err := s.Upsert(state.Resource{Project: "remix", Environment: "development", Name: "svc-a", ImageDigest: "sha256:abc"})
				require.NoError(t, err)
			},
			expected: Noop,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &mockservice.MockRegistryService{}
			f := &mockservice.MockFunctionService{}
			s, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
			require.NoError(t, err)
			defer s.Close()

			tc.setup(r, f, s)

			c := FromServices(cfg, r, f, s)
			change, err := c.Diff(ctx, svc)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, change.Action)
			assert.Equal(t, tc.reasons, change.Reasons)
			assert.Equal(t, tc.drift, change.Drift)
			assert.Equal(t, tc.provision, change.Provision())
			assert.Equal(t, "svc-a", change.Name)

			r.AssertExpectations(t)
			f.AssertExpectations(t)
		})
	}
}

func TestPlanIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	svc := declare.HTTPService("svc-a")
	tags := cfg.Tags(svc)
	resource := cfg.ResourceName("svc-a")

	repo := mockservice.MockRepository(cfg, "svc-a")
	repo.Tags = cfg.RepositoryTags("svc-a")

	r := &mockservice.MockRegistryService{}
	f := &mockservice.MockFunctionService{}
	r.On("InspectRepository", mock.Anything, cfg.Registry.Id, "remix/svc-a").Return(repo, nil)
	f.On("InspectRole", mock.Anything, resource).Return(mockservice.MockRole(cfg, "svc-a", tags), nil)
	f.On("Inspect", mock.Anything, resource).Return(mockservice.MockFunction(cfg, "svc-a", "sha256:abc", tags), nil)

	s, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Upsert(state.Resource{Project: "remix", Environment: "development", Name: "svc-a", ImageDigest: "sha256:abc", Status: state.StatusDeployed})
	require.NoError(t, err)

	m := testManifest(t, svc)
	c := FromServices(cfg, r, f, s)

	for i := 0; i < 3; i++ {
		changes, err := c.Plan(ctx, m, m.Services)
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.True(t, Converged(changes))
	}
}

func TestOrphans(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	s, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer s.Close()

	for _, name := range []string{"svc-a", "svc-gone", "svc-destroyed"} {
		_, err := s.Upsert(state.Resource{Project: "remix", Environment: "development", Name: name, Status: state.StatusDeployed})
		require.NoError(t, err)
	}
	require.NoError(t, s.MarkDestroyed("remix", "development", "svc-destroyed"))

	_, err = s.Upsert(state.Resource{Project: "remix", Environment: "production", Name: "svc-elsewhere", Status: state.StatusDeployed})
	require.NoError(t, err)

	c := FromServices(cfg, &mockservice.MockRegistryService{}, &mockservice.MockFunctionService{}, s)

	orphans, err := c.Orphans(ctx, testManifest(t, declare.HTTPService("svc-a")))
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "svc-gone", orphans[0].Name)
	assert.Equal(t, Orphan, orphans[0].Action)
	assert.NotNil(t, orphans[0].Live.Record)
}

func TestPlanSelectionSkipsOrphans(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	resource := cfg.ResourceName("svc-a")

	s, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Upsert(state.Resource{Project: "remix", Environment: "development", Name: "svc-gone", Status: state.StatusDeployed})
	require.NoError(t, err)

	r := &mockservice.MockRegistryService{}
	f := &mockservice.MockFunctionService{}
	r.On("InspectRepository", mock.Anything, cfg.Registry.Id, "remix/svc-a").Return(nil, nil)
	f.On("InspectRole", mock.Anything, resource).Return(nil, nil)
	f.On("Inspect", mock.Anything, resource).Return(nil, nil)

	m := testManifest(t, declare.HTTPService("svc-a"), declare.HTTPService("svc-b"))
	c := FromServices(cfg, r, f, s)

	changes, err := c.Plan(ctx, m, m.Select("svc-a"))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, Create, changes[0].Action)
	assert.False(t, Converged(changes))
}

func TestDestroyable(t *testing.T) {
	cfg := testConfig()

	s, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Upsert(state.Resource{Project: "remix", Environment: "development", Name: "svc-gone", Status: state.StatusDeployed})
	require.NoError(t, err)
	_, err = s.Upsert(state.Resource{Project: "remix", Environment: "production", Name: "svc-elsewhere", Status: state.StatusDeployed})
	require.NoError(t, err)

	m := testManifest(t, declare.HTTPService("svc-a"))
	c := FromServices(cfg, &mockservice.MockRegistryService{}, &mockservice.MockFunctionService{}, s)

	tests := []struct {
		name  string
		names []string
		err   string
	}{
		{"declared", []string{"svc-a"}, ""},
		{"recorded but undeclared", []string{"svc-gone"}, ""},
		{"both", []string{"svc-a", "svc-gone"}, ""},
		{"recorded in another environment", []string{"svc-elsewhere"}, "svc-elsewhere is not recorded in development"},
		{"unknown", []string{"svc-a", "svc-nope"}, "svc-nope is not recorded in development"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			names, err := c.Destroyable(m, tc.names)
			if tc.err != "" {
				assert.ErrorContains(t, err, tc.err)
				assert.ErrorIs(t, err, declare.ErrNotDeclared)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.names, names)
		})
	}
}
