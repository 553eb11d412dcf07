// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package billing activates harvested tag keys as Cost Allocation Tags via
// the Cost Explorer API.
package billing
