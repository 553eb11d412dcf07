// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/urfave/cli/v3"

	"github.com/tagctl/tagctl/internal/meta"
)

// The resource-scoped commands run a single slice of the full sweep. They
// share the region semantics of "all": a positional region narrows the run,
// no region fans out across every target region.

func ec2CommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "ec2",
		Usage:     "tag instances and their attached volumes and snapshots",
		UsageText: "tagctl ec2 [region] [options]",
		Flags: []cli.Flag{
			applyFlag,
		},
		Spec: sweepSpec{
			description: "tagging instance lineage",
			lineage:     true,
		},
		Meta: meta,
	}).Build()
}

func ebsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "ebs",
		Usage:     "tag all EBS volumes and snapshots",
		UsageText: "tagctl ebs [region] [options]",
		Flags: []cli.Flag{
			applyFlag,
		},
		Spec: sweepSpec{
			description:  "tagging EBS volumes and snapshots",
			allVolumes:   true,
			allSnapshots: true,
		},
		Meta: meta,
	}).Build()
}

func volumesCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "volumes",
		Usage:     "tag all EBS volumes",
		UsageText: "tagctl volumes [region] [options]",
		Flags: []cli.Flag{
			applyFlag,
		},
		Spec: sweepSpec{
			description: "tagging EBS volumes",
			allVolumes:  true,
		},
		Meta: meta,
	}).Build()
}

func snapshotsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "snapshots",
		Usage:     "tag all owned EBS snapshots",
		UsageText: "tagctl snapshots [region] [options]",
		Flags: []cli.Flag{
			applyFlag,
			fixOrphansFlag,
		},
		Spec: sweepSpec{
			description:  "tagging EBS snapshots",
			allSnapshots: true,
		},
		Meta: meta,
	}).Build()
}

func efsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "efs",
		Usage:     "tag EFS file systems and access points",
		UsageText: "tagctl efs [region] [options]",
		Flags: []cli.Flag{
			applyFlag,
		},
		Spec: sweepSpec{
			description: "tagging EFS file systems",
			efs:         true,
		},
		Meta: meta,
	}).Build()
}

func fsxCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "fsx",
		Usage:     "tag FSx file systems, volumes, SVMs, and backups",
		UsageText: "tagctl fsx [region] [options]",
		Flags: []cli.Flag{
			applyFlag,
		},
		Spec: sweepSpec{
			description: "tagging FSx file systems",
			fsx:         true,
		},
		Meta: meta,
	}).Build()
}
