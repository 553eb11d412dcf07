// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters implements the --filter expression language applied to
// show-mode inventory rows: comma-separated key=value terms with equality,
// prefix (^) and contains (~) operators, each negatable with !.
package filters
