//go:build integration
// +build integration

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/backoffice-suite/backoffice/cmd"
	"github.com/backoffice-suite/backoffice/internal/storage/sqlite"
	"github.com/backoffice-suite/backoffice/internal/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Rows []struct {
		ID      string            `json:"id"`
		Columns map[string]string `json:"columns"`
	} `json:"rows"`
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.RootCmd.SetOut(&out)
	cmd.RootCmd.SetErr(&out)
	cmd.RootCmd.SetIn(bytes.NewReader(nil))
	cmd.RootCmd.SetArgs(args)
	require.NoError(t, cmd.RootCmd.Execute(), out.String())
	return out.String()
}

func decode(t *testing.T, out string) listing {
	t.Helper()
	var l listing
	require.NoError(t, json.Unmarshal([]byte(out), &l), out)
	return l
}

// TestStationsAgainstStub drives the CLI as a manager against a seeded
// stub API.
func TestStationsAgainstStub(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("BACKOFFICE_DOTENV_PATH", filepath.Join(tmp, "missing.env"))
	t.Setenv("BACKOFFICE_API_TOKEN", "integration-token")

	store, err := sqlite.Open("")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, stub.Seed(context.Background(), store))
	srv := httptest.NewServer(stub.NewServer(store, nil, stub.WithToken("integration-token")).Handler())
	defer srv.Close()
	t.Setenv("BACKOFFICE_API_BASE_URL", srv.URL+"/api")
	t.Setenv("BACKOFFICE_ADMIN_ROLE", "manager")

	all := decode(t, execute(t, "list", "stations", "--format", "json", "--page-size", "50"))
	assert.Len(t, all.Rows, 6)

	// Flags keep their values between executions of RootCmd, so the
	// filter below stays on for the rest of the test.
	ouaga := decode(t, execute(t, "list", "stations", "--filter", "city=Ouagadougou", "--format", "json"))
	assert.Len(t, ouaga.Rows, 3)

	execute(t, "create", "stations", "--set", "name=Total Pissy", "--set", "city=Ouagadougou", "--set", "capacity=12")
	found := decode(t, execute(t, "list", "stations", "--search", "pissy", "--format", "json"))
	require.Len(t, found.Rows, 1)
	assert.Equal(t, "Open", found.Rows[0].Columns["Status"])

	execute(t, "delete", "stations", found.Rows[0].ID, "--yes")
	gone := decode(t, execute(t, "list", "stations", "--search", "pissy", "--format", "json"))
	assert.Empty(t, gone.Rows)
}
