// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tagger

import (
	"context"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	efstypes "github.com/aws/aws-sdk-go-v2/service/efs/types"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	fsxtypes "github.com/aws/aws-sdk-go-v2/service/fsx/types"
)

// fakeEC2 is an in-memory EC2API/RegionsAPI. Tag writes are captured in
// tagged, keyed by resource ID.
type fakeEC2 struct {
	reservations []ec2types.Reservation
	volumes      []ec2types.Volume
	snapshots    []ec2types.Snapshot
	images       []ec2types.Image
	regions      []ec2types.Region
	createErr    error
	tagged       map[string][]ec2types.Tag
}

func newFakeEC2() *fakeEC2 {
	return &fakeEC2{tagged: map[string][]ec2types.Tag{}}
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if len(in.InstanceIds) == 0 {
		return &ec2.DescribeInstancesOutput{Reservations: f.reservations}, nil
	}
	var out []ec2types.Reservation
	for _, r := range f.reservations {
		var matched []ec2types.Instance
		for _, i := range r.Instances {
			for _, id := range in.InstanceIds {
				if awsv2.ToString(i.InstanceId) == id {
					matched = append(matched, i)
				}
			}
		}
		if len(matched) > 0 {
			out = append(out, ec2types.Reservation{Instances: matched})
		}
	}
	return &ec2.DescribeInstancesOutput{Reservations: out}, nil
}

func (f *fakeEC2) DescribeVolumes(_ context.Context, in *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	if len(in.VolumeIds) == 0 {
		return &ec2.DescribeVolumesOutput{Volumes: f.volumes}, nil
	}
	var out []ec2types.Volume
	for _, v := range f.volumes {
		for _, id := range in.VolumeIds {
			if awsv2.ToString(v.VolumeId) == id {
				out = append(out, v)
			}
		}
	}
	return &ec2.DescribeVolumesOutput{Volumes: out}, nil
}

func (f *fakeEC2) DescribeSnapshots(_ context.Context, in *ec2.DescribeSnapshotsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	var out []ec2types.Snapshot
	for _, s := range f.snapshots {
		if snapshotMatches(s, in.Filters) {
			out = append(out, s)
		}
	}
	return &ec2.DescribeSnapshotsOutput{Snapshots: out}, nil
}

func snapshotMatches(s ec2types.Snapshot, filters []ec2types.Filter) bool {
	for _, f := range filters {
		matched := false
		for _, v := range f.Values {
			switch awsv2.ToString(f.Name) {
			case "volume-id":
				matched = matched || awsv2.ToString(s.VolumeId) == v
			case "description":
				matched = matched || strings.Contains(awsv2.ToString(s.Description), strings.Trim(v, "*"))
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (f *fakeEC2) DescribeImages(_ context.Context, in *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	var out []ec2types.Image
	for _, i := range f.images {
		for _, id := range in.ImageIds {
			if awsv2.ToString(i.ImageId) == id {
				out = append(out, i)
			}
		}
	}
	return &ec2.DescribeImagesOutput{Images: out}, nil
}

func (f *fakeEC2) DescribeRegions(_ context.Context, _ *ec2.DescribeRegionsInput, _ ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	return &ec2.DescribeRegionsOutput{Regions: f.regions}, nil
}

func (f *fakeEC2) CreateTags(_ context.Context, in *ec2.CreateTagsInput, _ ...func(*ec2.Options)) (*ec2.CreateTagsOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, id := range in.Resources {
		f.tagged[id] = append(f.tagged[id], in.Tags...)
	}
	return &ec2.CreateTagsOutput{}, nil
}

// fakeEFS is an in-memory EFSAPI.
type fakeEFS struct {
	fileSystems  []efstypes.FileSystemDescription
	accessPoints []efstypes.AccessPointDescription
	tagged       map[string][]efstypes.Tag
}

func newFakeEFS() *fakeEFS {
	return &fakeEFS{tagged: map[string][]efstypes.Tag{}}
}

func (f *fakeEFS) DescribeFileSystems(_ context.Context, _ *efs.DescribeFileSystemsInput, _ ...func(*efs.Options)) (*efs.DescribeFileSystemsOutput, error) {
	return &efs.DescribeFileSystemsOutput{FileSystems: f.fileSystems}, nil
}

func (f *fakeEFS) DescribeAccessPoints(_ context.Context, in *efs.DescribeAccessPointsInput, _ ...func(*efs.Options)) (*efs.DescribeAccessPointsOutput, error) {
	var out []efstypes.AccessPointDescription
	for _, ap := range f.accessPoints {
		if awsv2.ToString(ap.FileSystemId) == awsv2.ToString(in.FileSystemId) {
			out = append(out, ap)
		}
	}
	return &efs.DescribeAccessPointsOutput{AccessPoints: out}, nil
}

func (f *fakeEFS) TagResource(_ context.Context, in *efs.TagResourceInput, _ ...func(*efs.Options)) (*efs.TagResourceOutput, error) {
	id := awsv2.ToString(in.ResourceId)
	f.tagged[id] = append(f.tagged[id], in.Tags...)
	return &efs.TagResourceOutput{}, nil
}

// fakeFSx is an in-memory FSxAPI.
type fakeFSx struct {
	fileSystems []fsxtypes.FileSystem
	backups     []fsxtypes.Backup
	volumes     []fsxtypes.Volume
	svms        []fsxtypes.StorageVirtualMachine
	tagged      map[string][]fsxtypes.Tag
}

func newFakeFSx() *fakeFSx {
	return &fakeFSx{tagged: map[string][]fsxtypes.Tag{}}
}

func (f *fakeFSx) DescribeFileSystems(_ context.Context, _ *fsx.DescribeFileSystemsInput, _ ...func(*fsx.Options)) (*fsx.DescribeFileSystemsOutput, error) {
	return &fsx.DescribeFileSystemsOutput{FileSystems: f.fileSystems}, nil
}

func (f *fakeFSx) DescribeBackups(_ context.Context, _ *fsx.DescribeBackupsInput, _ ...func(*fsx.Options)) (*fsx.DescribeBackupsOutput, error) {
	return &fsx.DescribeBackupsOutput{Backups: f.backups}, nil
}

func (f *fakeFSx) DescribeVolumes(_ context.Context, _ *fsx.DescribeVolumesInput, _ ...func(*fsx.Options)) (*fsx.DescribeVolumesOutput, error) {
	return &fsx.DescribeVolumesOutput{Volumes: f.volumes}, nil
}

func (f *fakeFSx) DescribeStorageVirtualMachines(_ context.Context, _ *fsx.DescribeStorageVirtualMachinesInput, _ ...func(*fsx.Options)) (*fsx.DescribeStorageVirtualMachinesOutput, error) {
	return &fsx.DescribeStorageVirtualMachinesOutput{StorageVirtualMachines: f.svms}, nil
}

func (f *fakeFSx) TagResource(_ context.Context, in *fsx.TagResourceInput, _ ...func(*fsx.Options)) (*fsx.TagResourceOutput, error) {
	arn := awsv2.ToString(in.ResourceARN)
	f.tagged[arn] = append(f.tagged[arn], in.Tags...)
	return &fsx.TagResourceOutput{}, nil
}

// tagKeys flattens captured EC2 tags to their keys for assertions.
func tagKeys(tags []ec2types.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = awsv2.ToString(t.Key)
	}
	return out
}
