// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/urfave/cli/v3"

	awsutil "github.com/tagctl/tagctl/internal/aws"
	"github.com/tagctl/tagctl/internal/log"
	"github.com/tagctl/tagctl/internal/meta"
	"github.com/tagctl/tagctl/internal/report"
	"github.com/tagctl/tagctl/internal/tagger"
)

// sweepSpec describes what one sweep command processes. The builders fill
// one in and hand it to runSweep, which fans it out across regions.
type sweepSpec struct {
	name          string
	description   string
	forceDryRun   bool
	requireRegion bool
	lineage       bool
	allVolumes    bool
	allSnapshots  bool
	efs           bool
	fsx           bool
	storageOption bool
}

var divider = strings.Repeat("=", 80)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// runSweep is the shared action for every tagging command: resolve regions,
// build a per-region engine, run the selected sweeps, then write the report
// if one was requested.
func runSweep(ctx context.Context, cmd *cli.Command, spec sweepSpec) error {
	region := cmd.Args().First()
	if spec.requireRegion && region == "" {
		return fmt.Errorf("region is required for '%s'; example: tagctl %s us-east-1", spec.name, spec.name)
	}
	if err := RegionValidator(region); err != nil {
		return err
	}

	dryRun := spec.forceDryRun || !cmd.Bool("apply")

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

	mode := "DRY-RUN"
	if !dryRun {
		mode = "APPLY"
	}
	fmt.Printf("\n%s MODE | %s\n", mode, spec.description)
	fmt.Printf("Target regions: %s\n", strings.Join(regions, ", "))

	var total tagger.Stats
	for _, r := range regions {
		regionCfg := baseCfg.Copy()
		regionCfg.Region = r

		engine := &tagger.Engine{
			EC2:      awsutil.NewEC2(regionCfg),
			EFS:      awsutil.NewEFS(regionCfg),
			FSx:      awsutil.NewFSx(regionCfg),
			Region:   r,
			DryRun:   dryRun,
			Color:    cmd.Bool("color"),
			Recorder: recorder,
		}

		fmt.Printf("\n%s\nREGION: %s | Mode: %s\n%s\n", divider, strings.ToUpper(r), mode, divider)

		// Region-level errors are reported and the sweep moves on; one
		// unreachable region must not abort the rest.
		if cmd.Bool("fix-orphans") {
			if _, err := engine.RepairOrphans(ctx); err != nil {
				log.Errorf("orphan repair failed: region=%s err=%v", r, err)
			}
		} else {
			runRegionSweeps(ctx, cmd, engine, spec)
		}

		total.Planned += engine.Stats.Planned
		total.Applied += engine.Stats.Applied
		total.Failed += engine.Stats.Failed
	}

	fmt.Printf("\n%s\n", divider)
	fmt.Printf("TAG PROPAGATION COMPLETED: %d planned, %d applied, %d failed\n", total.Planned, total.Applied, total.Failed)
	if dryRun && total.Planned > 0 {
		fmt.Println("Dry-run: no changes made. Use --apply to activate.")
	}
	fmt.Println(divider)

	return writeReport(ctx, cmd, baseCfg, recorder)
}

func runRegionSweeps(ctx context.Context, cmd *cli.Command, engine *tagger.Engine, spec sweepSpec) {
	r := engine.Region

	if spec.lineage {
		opts := tagger.InstanceSweepOptions{Instances: true, Volumes: true, Snapshots: true}
		if err := engine.SweepInstances(ctx, opts); err != nil {
			log.Errorf("instance sweep failed: region=%s err=%v", r, err)
		}
	}
	if spec.allVolumes {
		if err := engine.SweepVolumes(ctx); err != nil {
			log.Errorf("volume sweep failed: region=%s err=%v", r, err)
		}
	}
	if spec.allSnapshots {
		if err := engine.SweepSnapshots(ctx); err != nil {
			log.Errorf("snapshot sweep failed: region=%s err=%v", r, err)
		}
	}

	storage := spec.storageOption && cmd.Bool("tag-storage")
	if spec.efs || storage {
		if err := engine.SweepEFS(ctx); err != nil {
			log.Errorf("EFS sweep failed: region=%s err=%v", r, err)
		}
	}
	if spec.fsx || storage {
		if err := engine.SweepFSx(ctx); err != nil {
			log.Errorf("FSx sweep failed: region=%s err=%v", r, err)
		}
	}
}

// loadBaseConfig loads AWS config honoring --profile. The bootstrap region
// only matters for region discovery and STS; per-region clients override it.
func loadBaseConfig(ctx context.Context, cmd *cli.Command) (awsv2.Config, error) {
	var opts []awsutil.Option
	if profile := cmd.String("profile"); profile != "" {
		opts = append(opts, awsutil.WithProfile(profile))
	}

	cfg, err := awsutil.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return cfg, nil
}

// logIdentity logs which principal the sweep runs as. Failure here is not
// fatal; the first describe call will surface real credential problems.
func logIdentity(ctx context.Context, cfg awsv2.Config) {
	out, err := awsutil.NewSTS(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		log.Debugf("caller identity unavailable: err=%v", err)
		return
	}
	log.Infof("running as account=%s arn=%s", awsv2.ToString(out.Account), awsv2.ToString(out.Arn))
}

// writeReport delivers the recorded plan/apply lines to the --report target.
func writeReport(ctx context.Context, cmd *cli.Command, cfg awsv2.Config, recorder *report.Recorder) error {
	target := cmd.String("report")
	if target == "" || recorder == nil {
		return nil
	}
	return report.Write(ctx, target, recorder.Bytes(), func() (report.S3API, error) {
		return awsutil.NewS3(cfg), nil
	})
}
