// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	awsutil "github.com/tagctl/tagctl/internal/aws"
	"github.com/tagctl/tagctl/internal/billing"
	"github.com/tagctl/tagctl/internal/meta"
	"github.com/tagctl/tagctl/internal/report"
	"github.com/tagctl/tagctl/internal/tagger"
)

// activateCommandAction scans the target regions for user-defined tag keys
// and registers them as cost allocation tags. Cost Explorer is a global
// API, so the scan fans out per region but activation happens once.
func activateCommandAction(ctx context.Context, cmd *cli.Command) error {
	region := cmd.Args().First()
	if err := RegionValidator(region); err != nil {
		return err
	}

	baseCfg, err := loadBaseConfig(ctx, cmd)
	if err != nil {
		return err
	}

	regions, err := tagger.ResolveRegions(ctx, awsutil.NewEC2(baseCfg), region)
	if err != nil {
		return err
	}

	logIdentity(ctx, baseCfg)

	var recorder *report.Recorder
	if cmd.String("report") != "" {
		recorder = report.NewRecorder()
	}

	activator := &billing.Activator{
		CE: awsutil.NewCostExplorer(baseCfg),
		NewScan: func(region string) (billing.TagScanAPI, error) {
			regionCfg := baseCfg.Copy()
			regionCfg.Region = region
			return awsutil.NewEC2(regionCfg), nil
		},
		DryRun:   !cmd.Bool("apply"),
		Recorder: recorder,
	}

	if err := activator.Run(ctx, regions); err != nil {
		return err
	}

	return writeReport(ctx, cmd, baseCfg, recorder)
}

// activateCommandBuilder constructs the cli.Command for "activate".
func activateCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "activate",
		Usage:     "register in-use tag keys as cost allocation tags",
		UsageText: "tagctl activate [region] [options]",
		ArgsUsage: "[region]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  append([]cli.Flag{applyFlag}, NewGlobalFlags("activate")...),
		Action: activateCommandAction,
	}
}
