package view

import (
	"testing"
	"time"

	"github.com/linecard/launch/pkg/convention/plan"
	"github.com/linecard/launch/pkg/convention/release"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	out := Plan([]plan.Change{
		{Name: "svc-a", Action: plan.Create, Reasons: []string{"repository missing", "role missing"}},
		{Name: "svc-b", Action: plan.Noop},
		{Name: "svc-c", Action: plan.Update, Drift: []string{"function not deployed"}},
	})

	assert.Contains(t, out, "svc-a")
	assert.Contains(t, out, "repository missing, role missing")
	assert.Contains(t, out, "function not deployed")
	assert.Contains(t, out, "deploy")
	assert.Contains(t, out, "noop")
}

func TestAgo(t *testing.T) {
	assert.Equal(t, "never", Ago(nil))

	at := time.Now().Add(-2 * time.Hour)
	assert.NotEqual(t, "never", Ago(&at))
}

func TestStatusShortensSha(t *testing.T) {
	out := Status([]StatusRow{{Service: "svc-a", State: "Active", Sha: "8f4e1b2c3d4e5f60718293a4b5c6d7e8f9012345"}})

	assert.Contains(t, out, "8f4e1b2c")
	assert.NotContains(t, out, "8f4e1b2c3d")
}

func TestReleasesAndJson(t *testing.T) {
	out := Releases([]release.Summary{{Branch: "main", Sha: "abc", Digest: "sha256:1", Age: "1 day ago"}})
	assert.Contains(t, out, "sha256:1")

	j, err := Json(map[string]string{"project": "remix"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"project":"remix"}`, j)
}
