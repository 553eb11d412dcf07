// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/urfave/cli/v3"

	"github.com/tagctl/tagctl/internal/meta"
)

// allCommandBuilder constructs the cli.Command for "all", which propagates
// machine keys across every target region.
func allCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "all",
		Usage:     "propagate machine key tags in every target region",
		UsageText: "tagctl all [region] [options]",
		Flags: []cli.Flag{
			applyFlag,
			fixOrphansFlag,
			tagStorageFlag,
		},
		Spec: sweepSpec{
			description:   "propagating machine key tags",
			lineage:       true,
			storageOption: true,
		},
		Meta: meta,
	}).Build()
}

// setCommandBuilder constructs the cli.Command for "set", the single-region
// form of "all". The region argument is required.
func setCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "set",
		Usage:     "propagate machine key tags in one region",
		UsageText: "tagctl set <region> [options]",
		Flags: []cli.Flag{
			applyFlag,
			fixOrphansFlag,
			tagStorageFlag,
		},
		Spec: sweepSpec{
			description:   "propagating machine key tags",
			requireRegion: true,
			lineage:       true,
			storageOption: true,
		},
		Meta: meta,
	}).Build()
}

// dryRunCommandBuilder constructs the cli.Command for "dry-run". It is the
// same sweep as "all" with apply forced off, so it is safe to alias or cron.
func dryRunCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "dry-run",
		Usage:     "preview machine key tag propagation, never applying",
		UsageText: "tagctl dry-run [region] [options]",
		Flags: []cli.Flag{
			// Accepted and ignored, so "all ... --apply" can be replayed
			// under dry-run unchanged.
			applyFlag,
			fixOrphansFlag,
			tagStorageFlag,
		},
		Spec: sweepSpec{
			description:   "previewing machine key tags",
			forceDryRun:   true,
			lineage:       true,
			storageOption: true,
		},
		Meta: meta,
	}).Build()
}
