package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leagueFixture = "../../internal/fixture/testdata/league.yaml"

type cli struct {
	t      *testing.T
	config string
	db     string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PADDOCK_LOG_PATH", filepath.Join(dir, "paddock.log"))
	return &cli{
		t:      t,
		config: filepath.Join(dir, "config.toml"),
		db:     filepath.Join(dir, "league.db"),
	}
}

// run executes paddock with args against the test database.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", c.config, "--db", c.db}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "paddock %s: %s", strings.Join(args, " "), out)
	return out
}

func TestSeedAndQuery(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("seed", "--file", leagueFixture)
	assert.Contains(t, out, "3 drivers, 2 series, 3 events")

	out = c.mustRun("events", "list", "--format", "json")
	var events []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 3)
	assert.Equal(t, "ev-laguna", events[0]["event_id"])

	out = c.mustRun("series", "list", "--status", "started")
	assert.Contains(t, out, "GT3 Sprint Cup")
	assert.NotContains(t, out, "Winter Endurance")

	out = c.mustRun("standings", "--series", "gt3")
	assert.Contains(t, out, "Ben Okafor")
	assert.Contains(t, out, "1:21.333")
}

func TestSeriesStatus(t *testing.T) {
	c := newCLI(t)
	c.mustRun("seed", "--file", leagueFixture)

	out := c.mustRun("series", "status", "closed", "--series", "gt3")
	assert.Contains(t, out, "Series gt3 is now closed")

	out = c.mustRun("series", "list", "--status", "closed")
	assert.Contains(t, out, "GT3 Sprint Cup")

	_, err := c.run("series", "status", "Started", "--series", "gt3")
	assert.ErrorContains(t, err, "invalid status")

	_, err = c.run("series", "list", "--status", "Closed")
	assert.ErrorContains(t, err, "unknown status")
}

func TestJoinAndLeave(t *testing.T) {
	c := newCLI(t)
	c.mustRun("seed", "--file", leagueFixture)

	out := c.mustRun("join", "--event", "ev-spa", "--driver", "drv-cal")
	assert.Contains(t, out, "Joined Spa Fun Race")

	_, err := c.run("join", "--event", "ev-spa", "--driver", "drv-cal")
	assert.ErrorContains(t, err, "already joined")

	_, err = c.run("join", "--event", "ev-laguna", "--driver", "drv-cal")
	assert.ErrorContains(t, err, "not open")

	out = c.mustRun("leave", "--event", "ev-spa", "--driver", "drv-cal")
	assert.Contains(t, out, "Left Spa Fun Race")
}

func TestJoinNeedsDriver(t *testing.T) {
	c := newCLI(t)
	c.mustRun("seed", "--file", leagueFixture)

	_, err := c.run("join", "--event", "ev-spa")
	assert.ErrorContains(t, err, "team.driver_id")
}

func TestEventsListRejectsBothFilters(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("events", "list", "--available", "--upcoming")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("config", "init", "--driver", "drv-ana", "--team", "Apex Racing")
	assert.Contains(t, out, c.config)

	data, err := os.ReadFile(c.config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "drv-ana")

	_, err = c.run("config", "init")
	assert.ErrorContains(t, err, "already exists")

	out = c.mustRun("config", "show")
	assert.Contains(t, out, "Apex Racing")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("version")
	assert.Contains(t, out, "paddock v"+Version)
}
