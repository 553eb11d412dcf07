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

// SweepVolumes walks every EBS volume in the region, not just those attached
// to instances. The name source is the attached instance's Name tag (else
// its ID), falling back to the volume's own Name tag. Unattached, unnamed
// volumes are skipped.
func (e *Engine) SweepVolumes(ctx context.Context) error {
	fmt.Fprintf(e.out(), "\n[VOLUMES] Processing all EBS volumes in %s\n", e.Region)

	p := ec2.NewDescribeVolumesPaginator(e.EC2, &ec2.DescribeVolumesInput{})
	count := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to describe volumes in %s: %w", e.Region, err)
		}
		for _, volume := range page.Volumes {
			count++
			e.processVolume(ctx, volume)
		}
	}

	fmt.Fprintf(e.out(), "[SUMMARY] %s: %d volumes processed\n", e.Region, count)
	return nil
}

func (e *Engine) processVolume(ctx context.Context, volume ec2types.Volume) {
	id := awsv2.ToString(volume.VolumeId)
	current := tagMapEC2(volume.Tags)

	name, key := e.volumeNameKey(ctx, volume, current)
	if name == "" {
		return
	}

	tags := MergeTags(current, name, key)
	if len(tags) == 0 {
		return
	}

	display := id
	if name != id {
		display = fmt.Sprintf("%s (%s)", name, id)
	}
	fmt.Fprintf(e.out(), "\n[VOLUME] %s\n", display)
	e.applyEC2Tags(ctx, id, tags, "Volume")
}

// volumeNameKey resolves the name value and machine key for a volume.
// An empty name means the volume could not be attributed and is skipped.
func (e *Engine) volumeNameKey(ctx context.Context, volume ec2types.Volume, current map[string]string) (string, string) {
	for _, attachment := range volume.Attachments {
		instanceID := awsv2.ToString(attachment.InstanceId)
		if instanceID == "" {
			continue
		}
		tags, err := e.instanceTags(ctx, instanceID)
		if err != nil {
			log.Debugf("instance lookup failed: id=%s err=%v", instanceID, err)
			continue
		}
		return NameValue(tags, instanceID), MachineKey(tags, instanceID)
	}

	if key := MachineKey(current, ""); key != "" {
		return current["Name"], key
	}
	return "", ""
}

// instanceTags fetches the tag map of a single instance.
func (e *Engine) instanceTags(ctx context.Context, instanceID string) (map[string]string, error) {
	out, err := e.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, err
	}
	for _, reservation := range out.Reservations {
		for _, instance := range reservation.Instances {
			return tagMapEC2(instance.Tags), nil
		}
	}
	return nil, fmt.Errorf("instance %s not found", instanceID)
}
