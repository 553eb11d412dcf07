// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	awsutil "github.com/tagctl/tagctl/internal/aws"
	"github.com/tagctl/tagctl/internal/log"
	"github.com/tagctl/tagctl/internal/meta"
	"github.com/tagctl/tagctl/internal/output"
	"github.com/tagctl/tagctl/internal/tagger"
)

// showHeaders is the default column order for the "show" table output.
var showHeaders = []string{"region", "type", "id", "name", "state", "size"}

// showCommandAction inventories taggable resources in each target region
// and renders them through the shared output pipeline. Nothing is modified.
func showCommandAction(ctx context.Context, cmd *cli.Command) error {
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

	var rows []tagger.Resource
	for _, r := range regions {
		regionCfg := baseCfg.Copy()
		regionCfg.Region = r

		engine := &tagger.Engine{
			EC2:    awsutil.NewEC2(regionCfg),
			EFS:    awsutil.NewEFS(regionCfg),
			FSx:    awsutil.NewFSx(regionCfg),
			Region: r,
		}

		regionRows, err := engine.Inventory(ctx)
		if err != nil {
			log.Errorf("inventory failed: region=%s err=%v", r, err)
			continue
		}
		rows = append(rows, regionRows...)
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	output.SliceDiceSpit(*bytes.NewBuffer(data), showHeaders, cmd, nil)

	return nil
}

// showCommandBuilder constructs the cli.Command for "show", wiring metadata,
// flags, and the action handler.
func showCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "list taggable resources without modifying anything",
		UsageText: "tagctl show [region] [options]",
		ArgsUsage: "[region]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  append(append([]cli.Flag{applyFlag}, NewOutputFlags()...), NewGlobalFlags("show")...),
		Action: showCommandAction,
	}
}
