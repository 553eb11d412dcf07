// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tagctl/tagctl/internal/meta"
)

// SweepCommandBuilder is a helper that constructs a cli.Command for the
// tagging subcommands (all, set, dry-run, ec2, ebs, volumes, snapshots,
// efs, fsx) using a consistent pattern. It accepts the command name, usage
// text, extra flags, the sweep spec, and meta. The builder automatically
// wires metadata and applies the global flags.
type SweepCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Spec      sweepSpec
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (scb *SweepCommandBuilder) Build() *cli.Command {
	spec := scb.Spec
	spec.name = scb.Name

	return &cli.Command{
		Name:      scb.Name,
		Usage:     scb.Usage,
		UsageText: scb.UsageText,
		ArgsUsage: "[region]",
		Metadata: map[string]any{
			"meta": scb.Meta,
		},
		Flags: append(scb.Flags, NewGlobalFlags(scb.Name)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSweep(ctx, cmd, spec)
		},
	}
}
