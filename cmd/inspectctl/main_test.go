package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "inspectctl-test-secret")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func readCSV(t *testing.T, s string) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewBufferString(s)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportInventory(t *testing.T) {
	setEnv(t)

	out, err := run(t, "export", "inventory", "tdm", "--level", "mainExchange=Zagazig East")
	require.NoError(t, err)
	records := readCSV(t, out)
	require.NotEmpty(t, records)
	assert.Len(t, records, 7) // header + 6 boxes

	out, err = run(t, "export", "inventory", "tdm", "--search", "3slsh")
	require.NoError(t, err)
	assert.Len(t, readCSV(t, out), 7)
}

func TestExportInventory_Errors(t *testing.T) {
	setEnv(t)

	_, err := run(t, "export", "inventory", "coax")
	assert.Error(t, err)

	_, err = run(t, "export", "inventory", "tdm", "--level", "colour=red")
	assert.ErrorContains(t, err, `no level "colour"`)

	_, err = run(t, "export", "inventory", "tdm", "--level", "sector=Nowhere")
	assert.ErrorContains(t, err, "matches the selection")
}

func TestExportReport_ToFile(t *testing.T) {
	setEnv(t)
	path := filepath.Join(t.TempDir(), "ftth.csv")

	out, err := run(t, "export", "report", "ftth", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, readCSV(t, string(data)), 45)

	_, err = run(t, "export", "report", "tdm", "--status", "Maybe")
	assert.ErrorContains(t, err, "invalid status")
}

func TestExportLogins(t *testing.T) {
	setEnv(t)

	out, err := run(t, "export", "logins")
	require.NoError(t, err)
	records := readCSV(t, out)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"Date", "Day", "User Name", "Role", "First Login Time", "Status"}, records[0])

	_, err = run(t, "export", "logins", "--start", "28/10/2023")
	assert.ErrorContains(t, err, "invalid date")
}

func TestCascadeFromLevels(t *testing.T) {
	def, err := inventory.Lookup("tdm")
	require.NoError(t, err)

	c, err := cascadeFromLevels(def, map[string]string{
		"region": "Sharqia Telephones Zone 1",
		"sector": "East Delta 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "East Delta 2", c.Value(inventory.FieldSector))
	assert.Equal(t, "Sharqia Telephones Zone 1", c.Value(inventory.FieldRegion))
}

func TestMigrate_RequiresDatabase(t *testing.T) {
	setEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "DATABASE_URL is required")
}
