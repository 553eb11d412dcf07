// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tagger

import (
	"context"
	"fmt"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	fsxtypes "github.com/aws/aws-sdk-go-v2/service/fsx/types"

	"github.com/tagctl/tagctl/internal/log"
)

// SweepEFS tags every EFS file system and its access points in the region.
// The file system gets Name plus the normalized key; access points get the
// key marker only. Mount targets are not taggable and are skipped.
func (e *Engine) SweepEFS(ctx context.Context) error {
	fmt.Fprintf(e.out(), "\n[EFS] Processing EFS file systems in %s\n", e.Region)

	p := efs.NewDescribeFileSystemsPaginator(e.EFS, &efs.DescribeFileSystemsInput{})
	count := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			if isAccessDenied(err) {
				log.Warnf("EFS access denied in %s; grant elasticfilesystem:DescribeFileSystems, DescribeAccessPoints and TagResource", e.Region)
				return nil
			}
			return fmt.Errorf("failed to describe EFS file systems in %s: %w", e.Region, err)
		}
		for _, fs := range page.FileSystems {
			count++
			fsID := awsv2.ToString(fs.FileSystemId)
			current := tagMapEFS(fs.Tags)

			name := nameTagFold(current)
			if name == "" {
				name = fsID
			}
			key := NormalizeStorageKey(name)

			fmt.Fprintf(e.out(), "\n[EFS] %s (%s) using tag key '%s'\n", name, fsID, key)
			e.applyEFSTags(ctx, fsID, MergeTags(current, name, key), "EFS FileSystem")
			e.tagAccessPoints(ctx, fsID, key)
		}
	}

	if count == 0 {
		fmt.Fprintf(e.out(), "[EFS] No EFS file systems found in %s\n", e.Region)
	}
	return nil
}

// tagAccessPoints adds the key marker to every access point of a file system.
func (e *Engine) tagAccessPoints(ctx context.Context, fileSystemID, key string) {
	p := efs.NewDescribeAccessPointsPaginator(e.EFS, &efs.DescribeAccessPointsInput{
		FileSystemId: awsv2.String(fileSystemID),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("describe access points failed: fs=%s err=%v", fileSystemID, err)
			return
		}
		for _, ap := range page.AccessPoints {
			current := tagMapEFS(ap.Tags)
			e.applyEFSTags(ctx, awsv2.ToString(ap.AccessPointId), KeyMarker(current, key), "EFS AccessPoint")
		}
	}
}

// SweepFSx tags every FSx file system in the region along with its backups,
// its FSx volumes (ONTAP, Windows, OpenZFS), and its SVMs (ONTAP). The file
// system gets Name plus the normalized key; the rest get the key marker.
func (e *Engine) SweepFSx(ctx context.Context) error {
	fmt.Fprintf(e.out(), "\n[FSx] Processing FSx file systems in %s\n", e.Region)

	p := fsx.NewDescribeFileSystemsPaginator(e.FSx, &fsx.DescribeFileSystemsInput{})
	count := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			if isAccessDenied(err) {
				log.Warnf("FSx access denied in %s; grant fsx:Describe* and fsx:TagResource", e.Region)
				return nil
			}
			return fmt.Errorf("failed to describe FSx file systems in %s: %w", e.Region, err)
		}
		for _, fs := range page.FileSystems {
			count++
			e.processFSxFileSystem(ctx, fs)
		}
	}

	if count == 0 {
		fmt.Fprintf(e.out(), "[FSx] No FSx file systems found in %s\n", e.Region)
	}
	return nil
}

func (e *Engine) processFSxFileSystem(ctx context.Context, fs fsxtypes.FileSystem) {
	fsID := awsv2.ToString(fs.FileSystemId)
	fsType := string(fs.FileSystemType)
	arn := awsv2.ToString(fs.ResourceARN)
	current := tagMapFSx(fs.Tags)

	name := nameTagFold(current)
	if name == "" {
		name = fsID
	}
	key := NormalizeStorageKey(name)

	fmt.Fprintf(e.out(), "\n[FSx %s] %s (%s) using tag key '%s'\n", fsType, name, fsID, key)
	e.applyFSxTags(ctx, arn, MergeTags(current, name, key), fmt.Sprintf("FSx %s FileSystem", fsType))

	e.tagFSxBackups(ctx, fsID, key)

	switch fs.FileSystemType {
	case fsxtypes.FileSystemTypeOntap, fsxtypes.FileSystemTypeWindows, fsxtypes.FileSystemTypeOpenzfs:
		e.tagFSxVolumes(ctx, fsID, key)
	}
	if fs.FileSystemType == fsxtypes.FileSystemTypeOntap {
		e.tagFSxSVMs(ctx, fsID, key)
	}
}

func (e *Engine) tagFSxBackups(ctx context.Context, fileSystemID, key string) {
	p := fsx.NewDescribeBackupsPaginator(e.FSx, &fsx.DescribeBackupsInput{
		Filters: []fsxtypes.Filter{{
			Name:   fsxtypes.FilterNameFileSystemId,
			Values: []string{fileSystemID},
		}},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("describe FSx backups failed: fs=%s err=%v", fileSystemID, err)
			return
		}
		for _, backup := range page.Backups {
			current := tagMapFSx(backup.Tags)
			e.applyFSxTags(ctx, awsv2.ToString(backup.ResourceARN), KeyMarker(current, key), "FSx Backup")
		}
	}
}

func (e *Engine) tagFSxVolumes(ctx context.Context, fileSystemID, key string) {
	p := fsx.NewDescribeVolumesPaginator(e.FSx, &fsx.DescribeVolumesInput{
		Filters: []fsxtypes.VolumeFilter{{
			Name:   fsxtypes.VolumeFilterNameFileSystemId,
			Values: []string{fileSystemID},
		}},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("describe FSx volumes failed: fs=%s err=%v", fileSystemID, err)
			return
		}
		for _, volume := range page.Volumes {
			current := tagMapFSx(volume.Tags)
			e.applyFSxTags(ctx, awsv2.ToString(volume.ResourceARN), KeyMarker(current, key), "FSx Volume")
		}
	}
}

func (e *Engine) tagFSxSVMs(ctx context.Context, fileSystemID, key string) {
	p := fsx.NewDescribeStorageVirtualMachinesPaginator(e.FSx, &fsx.DescribeStorageVirtualMachinesInput{
		Filters: []fsxtypes.StorageVirtualMachineFilter{{
			Name:   fsxtypes.StorageVirtualMachineFilterNameFileSystemId,
			Values: []string{fileSystemID},
		}},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Warnf("describe FSx SVMs failed: fs=%s err=%v", fileSystemID, err)
			return
		}
		for _, svm := range page.StorageVirtualMachines {
			current := tagMapFSx(svm.Tags)
			e.applyFSxTags(ctx, awsv2.ToString(svm.ResourceARN), KeyMarker(current, key), "FSx SVM")
		}
	}
}

// nameTagFold finds a Name tag value by case-insensitive key match, the way
// storage resources are commonly tagged by hand.
func nameTagFold(tags map[string]string) string {
	if v := tags["Name"]; v != "" {
		return v
	}
	for k, v := range tags {
		if strings.EqualFold(k, "name") && v != "" {
			return v
		}
	}
	return ""
}
