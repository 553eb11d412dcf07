// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads tagctl.yaml from the user config directory (or the
// path named by TAGCTL_CFG_FILE) and exposes typed getters over the raw
// YAML tree. The `regions` key supplies the target-region list used when a
// command runs without an explicit region.
package config
