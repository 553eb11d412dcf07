// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command wires the CLI: one builder per subcommand, shared flags,
// and the sweep runner that fans a tagging mode out across the resolved
// regions.
package command
