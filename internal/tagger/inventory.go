// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tagger

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	"github.com/dustin/go-humanize"

	"github.com/tagctl/tagctl/internal/log"
)

// Resource is one row of the read-only show inventory.
type Resource struct {
	Region string `json:"region"`
	Type   string `json:"type"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	State  string `json:"state"`
	Size   string `json:"size"`
}

// Inventory collects the region's instances, volumes, self-owned snapshots,
// EFS and FSx file systems without modifying anything. Services the caller
// cannot reach are logged and skipped so a partial inventory still renders.
func (e *Engine) Inventory(ctx context.Context) ([]Resource, error) {
	var rows []Resource

	instances, err := e.inventoryInstances(ctx)
	if err != nil {
		return nil, err
	}
	rows = append(rows, instances...)

	rows = append(rows, e.inventoryVolumes(ctx)...)
	rows = append(rows, e.inventorySnapshots(ctx)...)
	rows = append(rows, e.inventoryEFS(ctx)...)
	rows = append(rows, e.inventoryFSx(ctx)...)

	return rows, nil
}

func (e *Engine) inventoryInstances(ctx context.Context) ([]Resource, error) {
	var rows []Resource
	p := ec2.NewDescribeInstancesPaginator(e.EC2, &ec2.DescribeInstancesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances in %s: %w", e.Region, err)
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				state := ""
				if instance.State != nil {
					state = string(instance.State.Name)
				}
				rows = append(rows, Resource{
					Region: e.Region,
					Type:   "Instance",
					ID:     awsv2.ToString(instance.InstanceId),
					Name:   tagMapEC2(instance.Tags)["Name"],
					State:  state,
					Size:   string(instance.InstanceType),
				})
			}
		}
	}
	return rows, nil
}

func (e *Engine) inventoryVolumes(ctx context.Context) []Resource {
	var rows []Resource
	p := ec2.NewDescribeVolumesPaginator(e.EC2, &ec2.DescribeVolumesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("volume inventory failed: region=%s err=%v", e.Region, err)
			return rows
		}
		for _, volume := range page.Volumes {
			rows = append(rows, Resource{
				Region: e.Region,
				Type:   "Volume",
				ID:     awsv2.ToString(volume.VolumeId),
				Name:   tagMapEC2(volume.Tags)["Name"],
				State:  string(volume.State),
				Size:   gibibytes(volume.Size),
			})
		}
	}
	return rows
}

func (e *Engine) inventorySnapshots(ctx context.Context) []Resource {
	var rows []Resource
	p := ec2.NewDescribeSnapshotsPaginator(e.EC2, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("snapshot inventory failed: region=%s err=%v", e.Region, err)
			return rows
		}
		for _, snapshot := range page.Snapshots {
			rows = append(rows, Resource{
				Region: e.Region,
				Type:   "Snapshot",
				ID:     awsv2.ToString(snapshot.SnapshotId),
				Name:   tagMapEC2(snapshot.Tags)["Name"],
				State:  string(snapshot.State),
				Size:   gibibytes(snapshot.VolumeSize),
			})
		}
	}
	return rows
}

func (e *Engine) inventoryEFS(ctx context.Context) []Resource {
	var rows []Resource
	p := efs.NewDescribeFileSystemsPaginator(e.EFS, &efs.DescribeFileSystemsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("EFS inventory failed: region=%s err=%v", e.Region, err)
			return rows
		}
		for _, fs := range page.FileSystems {
			size := ""
			if fs.SizeInBytes != nil {
				size = humanize.IBytes(uint64(fs.SizeInBytes.Value))
			}
			rows = append(rows, Resource{
				Region: e.Region,
				Type:   "EFS",
				ID:     awsv2.ToString(fs.FileSystemId),
				Name:   nameTagFold(tagMapEFS(fs.Tags)),
				State:  string(fs.LifeCycleState),
				Size:   size,
			})
		}
	}
	return rows
}

func (e *Engine) inventoryFSx(ctx context.Context) []Resource {
	var rows []Resource
	p := fsx.NewDescribeFileSystemsPaginator(e.FSx, &fsx.DescribeFileSystemsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("FSx inventory failed: region=%s err=%v", e.Region, err)
			return rows
		}
		for _, fs := range page.FileSystems {
			rows = append(rows, Resource{
				Region: e.Region,
				Type:   fmt.Sprintf("FSx %s", fs.FileSystemType),
				ID:     awsv2.ToString(fs.FileSystemId),
				Name:   nameTagFold(tagMapFSx(fs.Tags)),
				State:  string(fs.Lifecycle),
				Size:   gibibytes(fs.StorageCapacity),
			})
		}
	}
	return rows
}

// gibibytes renders an AWS GiB count (EBS sizes, FSx capacity) for humans.
func gibibytes(n *int32) string {
	if n == nil {
		return ""
	}
	return humanize.IBytes(uint64(*n) * humanize.GiByte)
}
