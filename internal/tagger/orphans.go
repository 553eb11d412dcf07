// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tagger

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tagctl/tagctl/internal/log"
)

// RepairOrphans finds self-owned AMI-derived snapshots that carry no Name
// tag, names them after the AMI their description references, and adds the
// sanitized AMI key marker to both the snapshot and the AMI itself. Returns
// the number of snapshots repaired.
func (e *Engine) RepairOrphans(ctx context.Context) (int, error) {
	fmt.Fprintf(e.out(), "\n[ORPHANS] Fixing orphaned AMI snapshots without a Name tag in %s\n", e.Region)

	p := ec2.NewDescribeSnapshotsPaginator(e.EC2, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
	})

	fixed := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fixed, fmt.Errorf("failed to describe snapshots in %s: %w", e.Region, err)
		}
		for _, snapshot := range page.Snapshots {
			imageIDs := FindImageIDs(awsv2.ToString(snapshot.Description))
			if len(imageIDs) == 0 {
				continue
			}

			current := tagMapEC2(snapshot.Tags)
			if _, ok := current["Name"]; ok {
				continue
			}

			imageID, name, key, imageTags := e.resolveOrphanImage(ctx, imageIDs)
			if name == "" {
				continue
			}

			snapshotID := awsv2.ToString(snapshot.SnapshotId)
			fmt.Fprintf(e.out(), "\n[ORPHAN] %s named after AMI '%s'\n", snapshotID, name)

			tags := []Tag{{Key: "Name", Value: name}}
			if _, ok := current[key]; !ok {
				tags = append(tags, Tag{Key: key})
			}
			e.applyEC2Tags(ctx, snapshotID, tags, "Snapshot (Orphan)")

			// The AMI gets the key marker too so the lineage is queryable
			// from either end.
			e.applyEC2Tags(ctx, imageID, KeyMarker(imageTags, key), "Image")

			fixed++
		}
	}

	fmt.Fprintf(e.out(), "[SUMMARY] %s: %d orphaned AMI snapshots fixed\n", e.Region, fixed)
	return fixed, nil
}

// resolveOrphanImage returns the first describable AMI from ids along with
// its display name, sanitized key, and current tags. Name precedence: the
// AMI's Name tag, its Name field, then the AMI ID itself.
func (e *Engine) resolveOrphanImage(ctx context.Context, ids []string) (string, string, string, map[string]string) {
	for _, imageID := range ids {
		out, err := e.EC2.DescribeImages(ctx, &ec2.DescribeImagesInput{
			ImageIds: []string{imageID},
		})
		if err != nil || len(out.Images) == 0 {
			log.Debugf("image lookup failed: id=%s err=%v", imageID, err)
			continue
		}
		image := out.Images[0]
		tags := tagMapEC2(image.Tags)

		name := tags["Name"]
		if name == "" {
			name = awsv2.ToString(image.Name)
		}
		if name == "" {
			name = imageID
		}
		return imageID, name, SanitizeAMIKey(name), tags
	}
	return "", "", "", nil
}
