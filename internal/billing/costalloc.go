// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package billing

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/tagctl/tagctl/internal/log"
	"github.com/tagctl/tagctl/internal/report"
)

// UpdateCostAllocationTagsStatus accepts at most this many entries per call.
const activationBatchSize = 20

// CostExplorerAPI is the slice of the Cost Explorer client the activator
// needs.
type CostExplorerAPI interface {
	ListCostAllocationTags(ctx context.Context, params *costexplorer.ListCostAllocationTagsInput, optFns ...func(*costexplorer.Options)) (*costexplorer.ListCostAllocationTagsOutput, error)
	UpdateCostAllocationTagsStatus(ctx context.Context, params *costexplorer.UpdateCostAllocationTagsStatusInput, optFns ...func(*costexplorer.Options)) (*costexplorer.UpdateCostAllocationTagsStatusOutput, error)
}

// TagScanAPI is the slice of the EC2 client used to harvest tag keys from a
// region.
type TagScanAPI interface {
	DescribeTags(ctx context.Context, params *ec2.DescribeTagsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error)
}

// Activator activates eligible tag keys as Cost Allocation Tags: every key
// present on an instance, volume or snapshot in the target regions that is
// not already active and is not AWS-reserved.
type Activator struct {
	CE       CostExplorerAPI
	NewScan  func(region string) (TagScanAPI, error)
	DryRun   bool
	Writer   io.Writer
	Recorder *report.Recorder
}

func (a *Activator) out() io.Writer {
	if a.Writer == nil {
		return os.Stdout
	}
	return a.Writer
}

// Run performs the activation sweep over the given regions.
func (a *Activator) Run(ctx context.Context, regions []string) error {
	active, err := a.activeKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cost allocation tags: %w", err)
	}
	fmt.Fprintf(a.out(), "[BILLING] %d cost allocation tags already registered\n", len(active))

	all := make(map[string]struct{})
	for _, region := range regions {
		fmt.Fprintf(a.out(), "[BILLING] Scanning tag keys in %s\n", region)
		keys, err := a.scanRegion(ctx, region)
		if err != nil {
			log.Warnf("tag scan failed: region=%s err=%v", region, err)
			continue
		}
		for k := range keys {
			all[k] = struct{}{}
		}
	}

	var eligible []string
	for k := range all {
		if _, ok := active[k]; !ok {
			eligible = append(eligible, k)
		}
	}
	sort.Strings(eligible)

	fmt.Fprintf(a.out(), "[BILLING] %d unique tag keys found, %d eligible for activation\n", len(all), len(eligible))
	if len(eligible) == 0 {
		fmt.Fprintln(a.out(), "[BILLING] No new cost allocation tags to activate")
		return nil
	}

	action := "PLAN"
	if !a.DryRun {
		action = "APPLY"
	}
	for _, key := range eligible {
		fmt.Fprintf(a.out(), "    [%s] CostAllocationTag %s\n", action, key)
		a.Recorder.Recordf("billing %s CostAllocationTag %s", action, key)
	}

	if a.DryRun {
		fmt.Fprintln(a.out(), "[BILLING] Dry-run: no changes made; use --apply to activate")
		return nil
	}

	if err := a.activate(ctx, eligible); err != nil {
		return err
	}
	fmt.Fprintf(a.out(), "[BILLING] %d cost allocation tags activated; Cost Explorer reflects new tags within 24-48 hours\n", len(eligible))
	return nil
}

// activeKeys lists the tag keys already registered as cost allocation tags,
// whatever their status.
func (a *Activator) activeKeys(ctx context.Context) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	p := costexplorer.NewListCostAllocationTagsPaginator(a.CE, &costexplorer.ListCostAllocationTagsInput{
		Status: cetypes.CostAllocationTagStatusActive,
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, tag := range page.CostAllocationTags {
			keys[awsv2.ToString(tag.TagKey)] = struct{}{}
		}
	}
	return keys, nil
}

// scanRegion harvests the user tag keys on instances, volumes and snapshots
// in one region. AWS-reserved keys (aws: prefix) are excluded; they cannot
// be activated by the account.
func (a *Activator) scanRegion(ctx context.Context, region string) (map[string]struct{}, error) {
	client, err := a.NewScan(region)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	p := ec2.NewDescribeTagsPaginator(client, &ec2.DescribeTagsInput{
		Filters: []ec2types.Filter{{
			Name:   awsv2.String("resource-type"),
			Values: []string{"instance", "volume", "snapshot"},
		}},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, tag := range page.Tags {
			key := awsv2.ToString(tag.Key)
			if strings.HasPrefix(key, "aws:") {
				continue
			}
			keys[key] = struct{}{}
		}
	}
	return keys, nil
}

// activate flips the eligible keys to Active, batching at the API limit.
func (a *Activator) activate(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += activationBatchSize {
		end := min(start+activationBatchSize, len(keys))

		entries := make([]cetypes.CostAllocationTagStatusEntry, 0, end-start)
		for _, key := range keys[start:end] {
			entries = append(entries, cetypes.CostAllocationTagStatusEntry{
				TagKey: awsv2.String(key),
				Status: cetypes.CostAllocationTagStatusActive,
			})
		}

		out, err := a.CE.UpdateCostAllocationTagsStatus(ctx, &costexplorer.UpdateCostAllocationTagsStatusInput{
			CostAllocationTagsStatus: entries,
		})
		if err != nil {
			return fmt.Errorf("failed to activate cost allocation tags: %w", err)
		}
		for _, failure := range out.Errors {
			log.Warnf("activation rejected: key=%s code=%s message=%s",
				awsv2.ToString(failure.TagKey), awsv2.ToString(failure.Code), awsv2.ToString(failure.Message))
		}
	}
	return nil
}
