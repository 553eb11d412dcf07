// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig drops a config file and points TAGCTL_CFG_FILE at it.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("TAGCTL_CFG_FILE", path)
	_, err := Load()
	require.NoError(t, err)
	t.Cleanup(func() { Config = Type{} })
}

func TestGetString(t *testing.T) {
	writeConfig(t, "report: /tmp/tagctl-report.txt\nall:\n  profile: ops\n")

	v, err := GetString("report")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tagctl-report.txt", v)

	v, err = GetString("all.profile")
	require.NoError(t, err)
	assert.Equal(t, "ops", v)

	v, err = GetString("missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	_, err = GetString("missing")
	assert.Error(t, err)
}

func TestGetStringSlice(t *testing.T) {
	writeConfig(t, "regions:\n  - us-east-1\n  - eu-west-3\n")

	v, err := GetStringSlice("regions")
	require.NoError(t, err)
	assert.Equal(t, []string{"us-east-1", "eu-west-3"}, v)

	v, err = GetStringSlice("missing", []string{"sa-east-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sa-east-1"}, v)
}

func TestGetStringSliceNamespaced(t *testing.T) {
	writeConfig(t, "activate:\n  regions:\n    - us-west-2\n")
	Config.Namespace = "activate"

	v, err := GetStringSlice("regions")
	require.NoError(t, err)
	assert.Equal(t, []string{"us-west-2"}, v)
}

func TestGetInt(t *testing.T) {
	writeConfig(t, "padding: 2\n")

	v, err := GetInt("padding")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = GetInt("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("TAGCTL_CFG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
