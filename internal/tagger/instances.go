// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tagger

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/tagctl/tagctl/internal/log"
)

// InstanceSweepOptions toggles which parts of the lineage are tagged during
// an instance sweep.
type InstanceSweepOptions struct {
	Instances bool
	Volumes   bool
	Snapshots bool
}

// SweepInstances walks every running or stopped instance in the region and
// propagates the machine key onto the instance, its attached volumes, the
// snapshots of those volumes, and AMI-lineage snapshots that reference the
// instance in their description.
func (e *Engine) SweepInstances(ctx context.Context, opts InstanceSweepOptions) error {
	p := ec2.NewDescribeInstancesPaginator(e.EC2, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{{
			Name:   awsv2.String("instance-state-name"),
			Values: []string{"running", "stopped"},
		}},
	})

	count := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to describe instances in %s: %w", e.Region, err)
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				// The state filter should exclude these, but instances can
				// transition between pages.
				if instance.State != nil && instance.State.Name == ec2types.InstanceStateNameTerminated {
					continue
				}
				e.processInstance(ctx, instance, opts)
				count++
			}
		}
	}

	fmt.Fprintf(e.out(), "[SUMMARY] %s: %d instances processed\n", e.Region, count)
	return nil
}

func (e *Engine) processInstance(ctx context.Context, instance ec2types.Instance, opts InstanceSweepOptions) {
	id := awsv2.ToString(instance.InstanceId)
	tags := tagMapEC2(instance.Tags)
	key := MachineKey(tags, id)
	name := NameValue(tags, id)

	display := id
	if name != id {
		display = fmt.Sprintf("%s (%s)", name, id)
	}
	fmt.Fprintf(e.out(), "\n[PROCESSING] %s using tag key '%s'\n", display, key)

	if opts.Instances {
		e.applyEC2Tags(ctx, id, MergeTags(tags, name, key), "EC2 Instance")
	}

	if !opts.Volumes && !opts.Snapshots {
		return
	}

	var volumeIDs []string
	for _, mapping := range instance.BlockDeviceMappings {
		if mapping.Ebs == nil || mapping.Ebs.VolumeId == nil {
			continue
		}
		volumeIDs = append(volumeIDs, *mapping.Ebs.VolumeId)
	}

	if opts.Volumes && len(volumeIDs) > 0 {
		e.tagAttachedVolumes(ctx, volumeIDs, name, key)
	}

	if opts.Snapshots {
		if len(volumeIDs) > 0 {
			e.tagVolumeSnapshots(ctx, volumeIDs, name, key)
		}
		e.tagLineageSnapshots(ctx, id, name, key)
	}
}

// tagAttachedVolumes merges the Name/key tags onto the instance's EBS
// volumes.
func (e *Engine) tagAttachedVolumes(ctx context.Context, volumeIDs []string, name, key string) {
	out, err := e.EC2.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{VolumeIds: volumeIDs})
	if err != nil {
		log.Warnf("describe volumes failed: region=%s err=%v", e.Region, err)
		return
	}
	for _, volume := range out.Volumes {
		current := tagMapEC2(volume.Tags)
		e.applyEC2Tags(ctx, awsv2.ToString(volume.VolumeId), MergeTags(current, name, key), "Volume")
	}
}

// tagVolumeSnapshots merges the Name/key tags onto every self-owned snapshot
// taken from the given volumes.
func (e *Engine) tagVolumeSnapshots(ctx context.Context, volumeIDs []string, name, key string) {
	p := ec2.NewDescribeSnapshotsPaginator(e.EC2, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
		Filters: []ec2types.Filter{{
			Name:   awsv2.String("volume-id"),
			Values: volumeIDs,
		}},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("describe snapshots failed: region=%s err=%v", e.Region, err)
			return
		}
		for _, snapshot := range page.Snapshots {
			current := tagMapEC2(snapshot.Tags)
			e.applyEC2Tags(ctx, awsv2.ToString(snapshot.SnapshotId), MergeTags(current, name, key), "Snapshot")
		}
	}
}

// tagLineageSnapshots finds self-owned snapshots created by CreateImage for
// the instance. The server-side description filter is a wildcard match, so
// the instance ID is re-verified by substring before tagging.
func (e *Engine) tagLineageSnapshots(ctx context.Context, instanceID, name, key string) {
	p := ec2.NewDescribeSnapshotsPaginator(e.EC2, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
		Filters: []ec2types.Filter{{
			Name:   awsv2.String("description"),
			Values: []string{"*" + instanceID + "*"},
		}},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("describe lineage snapshots failed: region=%s err=%v", e.Region, err)
			return
		}
		for _, snapshot := range page.Snapshots {
			if !containsInstanceID(awsv2.ToString(snapshot.Description), instanceID) {
				continue
			}
			current := tagMapEC2(snapshot.Tags)
			e.applyEC2Tags(ctx, awsv2.ToString(snapshot.SnapshotId), MergeTags(current, name, key), "Snapshot (AMI)")
		}
	}
}
