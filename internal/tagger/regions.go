// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tagger

import (
	"context"
	"fmt"
	"sort"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tagctl/tagctl/internal/config"
	"github.com/tagctl/tagctl/internal/log"
)

// DefaultTargetRegions is the built-in sweep scope, used when the config
// file carries no `regions` list.
var DefaultTargetRegions = []string{
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
	"ap-south-1",
	"ap-northeast-3",
	"ap-northeast-2",
	"ap-southeast-1",
	"ap-southeast-2",
	"ap-northeast-1",
	"ca-central-1",
	"eu-central-1",
	"eu-west-1",
	"eu-west-2",
	"eu-west-3",
	"eu-north-1",
	"sa-east-1",
}

// TargetRegions returns the configured region list, falling back to the
// built-in default. An explicitly empty `regions:` list in the config means
// "discover", and ResolveRegions will ask ec2:DescribeRegions.
func TargetRegions() []string {
	regions, err := config.GetStringSlice("regions")
	if err != nil {
		return DefaultTargetRegions
	}
	return regions
}

// ResolveRegions resolves the regions a command should process, sorted.
// An explicit override names a single region; otherwise the configured
// target list applies, with ec2:DescribeRegions as the last resort.
func ResolveRegions(ctx context.Context, api RegionsAPI, override string) ([]string, error) {
	if override != "" {
		return []string{override}, nil
	}

	regions := TargetRegions()
	if len(regions) == 0 {
		out, err := api.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
		if err != nil {
			return nil, fmt.Errorf("failed to list regions: %w", err)
		}
		for _, r := range out.Regions {
			regions = append(regions, awsv2.ToString(r.RegionName))
		}
	}

	sorted := make([]string, len(regions))
	copy(sorted, regions)
	sort.Strings(sorted)
	log.Debugf("regions resolved: n=%d", len(sorted))
	return sorted, nil
}
