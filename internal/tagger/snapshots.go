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

// SweepSnapshots walks every self-owned EBS snapshot in the region. The name
// source chain: source volume's Name tag, then the volume's attached
// instance, then an AMI referenced in the description, then the snapshot's
// own Name tag. Unresolvable snapshots are skipped.
func (e *Engine) SweepSnapshots(ctx context.Context) error {
	fmt.Fprintf(e.out(), "\n[SNAPSHOTS] Processing all EBS snapshots in %s\n", e.Region)

	p := ec2.NewDescribeSnapshotsPaginator(e.EC2, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
	})
	count := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to describe snapshots in %s: %w", e.Region, err)
		}
		for _, snapshot := range page.Snapshots {
			count++
			e.processSnapshot(ctx, snapshot)
		}
	}

	fmt.Fprintf(e.out(), "[SUMMARY] %s: %d snapshots processed\n", e.Region, count)
	return nil
}

func (e *Engine) processSnapshot(ctx context.Context, snapshot ec2types.Snapshot) {
	id := awsv2.ToString(snapshot.SnapshotId)
	current := tagMapEC2(snapshot.Tags)

	name, key := e.snapshotNameKey(ctx, snapshot, current)
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
	fmt.Fprintf(e.out(), "\n[SNAPSHOT] %s\n", display)
	e.applyEC2Tags(ctx, id, tags, "Snapshot")
}

// snapshotNameKey resolves the name value and machine key for a snapshot.
// An empty name means the snapshot could not be attributed and is skipped.
func (e *Engine) snapshotNameKey(ctx context.Context, snapshot ec2types.Snapshot, current map[string]string) (string, string) {
	// Source volume, then its attached instance.
	if volumeID := awsv2.ToString(snapshot.VolumeId); volumeID != "" {
		if name, key, ok := e.volumeLineageNameKey(ctx, volumeID); ok {
			return name, key
		}
	}

	// AMI mentioned in the description.
	if name, key, ok := e.imageNameKey(ctx, FindImageIDs(awsv2.ToString(snapshot.Description))); ok {
		return name, key
	}

	// The snapshot's own Name tag.
	if key := MachineKey(current, ""); key != "" {
		return current["Name"], key
	}

	return "", ""
}

// volumeLineageNameKey resolves a snapshot's name through its source volume:
// the volume's Name tag wins, else the attached instance's Name tag or ID.
func (e *Engine) volumeLineageNameKey(ctx context.Context, volumeID string) (string, string, bool) {
	out, err := e.EC2.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{
		VolumeIds: []string{volumeID},
	})
	if err != nil {
		// Deleted volumes are routine for aged snapshots.
		log.Debugf("volume lookup failed: id=%s err=%v", volumeID, err)
		return "", "", false
	}

	for _, volume := range out.Volumes {
		tags := tagMapEC2(volume.Tags)
		if key := MachineKey(tags, ""); key != "" {
			return tags["Name"], key, true
		}
		for _, attachment := range volume.Attachments {
			instanceID := awsv2.ToString(attachment.InstanceId)
			if instanceID == "" {
				continue
			}
			instTags, err := e.instanceTags(ctx, instanceID)
			if err != nil {
				log.Debugf("instance lookup failed: id=%s err=%v", instanceID, err)
				continue
			}
			return NameValue(instTags, instanceID), MachineKey(instTags, instanceID), true
		}
	}
	return "", "", false
}

// imageNameKey resolves a name from the first describable AMI in ids. The
// AMI's Name tag wins, else its Name field. The key is sanitized for
// tag-key safety.
func (e *Engine) imageNameKey(ctx context.Context, ids []string) (string, string, bool) {
	for _, imageID := range ids {
		out, err := e.EC2.DescribeImages(ctx, &ec2.DescribeImagesInput{
			ImageIds: []string{imageID},
		})
		if err != nil || len(out.Images) == 0 {
			// Deregistered AMIs are routine; try the next candidate.
			log.Debugf("image lookup failed: id=%s err=%v", imageID, err)
			continue
		}
		image := out.Images[0]
		name := tagMapEC2(image.Tags)["Name"]
		if name == "" {
			name = awsv2.ToString(image.Name)
		}
		if name == "" {
			continue
		}
		return name, SanitizeAMIKey(name), true
	}
	return "", "", false
}
