// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains AWS config loading and the per-service client
// constructors used by the tagging sweeps and the report sink.
package aws
