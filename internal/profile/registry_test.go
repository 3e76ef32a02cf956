package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleProfiles = `
profiles:
  wingo_30s:
    fragment: /wingo_30s
    markers: ["Pred. Results", "Plans"]
    clicks: ["Pred. Results", "Plans"]
    settle_millis: 800
    default: true
  wingo_1m:
    fragment: /wingo_1m
    markers: ["Plans"]
`

func TestRegistryLookup(t *testing.T) {
	r, err := NewRegistry(writeProfiles(t, sampleProfiles))
	require.NoError(t, err)

	p := r.Lookup("wingo_1m")
	assert.Equal(t, "wingo_1m", p.Name)
	assert.Equal(t, "/wingo_1m", p.Fragment)
	assert.Equal(t, []string{"Plans"}, p.Markers)

	// 未命中退回 default 条目。
	p = r.Lookup("missing")
	assert.Equal(t, "wingo_30s", p.Name)

	p = r.Lookup("")
	assert.Equal(t, "wingo_30s", p.Name)
}

func TestRegistryRejectsUnknownFields(t *testing.T) {
	_, err := NewRegistry(writeProfiles(t, "profiles:\n  p:\n    unknown_field: 1\n"))
	assert.Error(t, err)
}

func TestRegistryMissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	_, err = NewRegistry("")
	assert.Error(t, err)
}

func TestStaticRegistryFallsBackToBuiltIn(t *testing.T) {
	r := NewStatic()
	p := r.Lookup("anything")
	assert.Equal(t, "wingo_30s", p.Name)
	assert.Equal(t, "/wingo_30s", p.Fragment)
	assert.NotEmpty(t, p.Markers)
	assert.NotEmpty(t, p.Clicks)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	r, err := NewRegistry(writeProfiles(t, sampleProfiles))
	require.NoError(t, err)
	snap := r.Snapshot()
	require.NotEmpty(t, snap.Profiles)
	p := snap.Profiles["wingo_30s"]
	require.NotEmpty(t, p.Markers)
	p.Markers[0] = "mutated"
	assert.Equal(t, "Pred. Results", r.Lookup("wingo_30s").Markers[0])
}
