package health

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowvirt/burrow/pkg/lvm"
)

type staticCheck struct {
	name    string
	healthy bool
}

func (c staticCheck) Name() string { return c.name }

func (c staticCheck) Check(ctx context.Context) Result {
	return Result{Healthy: c.healthy}
}

func TestRunAll(t *testing.T) {
	reg := NewRegistry()
	reg.Register(staticCheck{name: "a", healthy: true})
	reg.Register(staticCheck{name: "b", healthy: true})

	results, healthy := reg.RunAll(context.Background())
	assert.True(t, healthy)
	assert.Len(t, results, 2)

	reg.Register(staticCheck{name: "c", healthy: false})
	results, healthy = reg.RunAll(context.Background())
	assert.False(t, healthy)
	assert.False(t, results["c"].Healthy)
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	reg.Register(staticCheck{name: "a", healthy: true})

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, 200, rec.Code)

	var body struct {
		Healthy bool              `json:"healthy"`
		Checks  map[string]Result `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Healthy)
	assert.Contains(t, body.Checks, "a")
}

func TestHandlerUnhealthy(t *testing.T) {
	reg := NewRegistry()
	reg.Register(staticCheck{name: "a", healthy: false})

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, 503, rec.Code)
}

func TestDeviceDirCheck(t *testing.T) {
	check := &DeviceDirCheck{Dir: t.TempDir()}
	assert.True(t, check.Check(context.Background()).Healthy)

	check = &DeviceDirCheck{Dir: filepath.Join(t.TempDir(), "missing")}
	assert.False(t, check.Check(context.Background()).Healthy)
}

func TestDataDirCheck(t *testing.T) {
	check := &DataDirCheck{Dir: t.TempDir()}
	assert.True(t, check.Check(context.Background()).Healthy)

	check = &DataDirCheck{Dir: filepath.Join(t.TempDir(), "missing")}
	assert.False(t, check.Check(context.Background()).Healthy)

	// A probe file must not be left behind.
	dir := t.TempDir()
	check = &DataDirCheck{Dir: dir}
	require.True(t, check.Check(context.Background()).Healthy)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type versionRunner struct {
	rc int
}

func (r versionRunner) Run(ctx context.Context, args []string, sudo bool) (*lvm.CommandResult, error) {
	return &lvm.CommandResult{ExitCode: r.rc, Stdout: []byte("LVM version: 2.03.11\n")}, nil
}

func TestLVMCheck(t *testing.T) {
	check := NewLVMCheck("", versionRunner{})
	assert.True(t, check.Check(context.Background()).Healthy)

	check = NewLVMCheck("", versionRunner{rc: 2})
	res := check.Check(context.Background())
	assert.False(t, res.Healthy)
	assert.Contains(t, res.Message, "rc=2")
}
