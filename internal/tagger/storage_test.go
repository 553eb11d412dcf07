// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tagger

import (
	"bytes"
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	efstypes "github.com/aws/aws-sdk-go-v2/service/efs/types"
	fsxtypes "github.com/aws/aws-sdk-go-v2/service/fsx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepEFS_TagsFileSystemAndAccessPoints(t *testing.T) {
	efsFake := newFakeEFS()
	efsFake.fileSystems = []efstypes.FileSystemDescription{{
		FileSystemId: awsv2.String("fs-111"),
		Tags:         []efstypes.Tag{{Key: awsv2.String("Name"), Value: awsv2.String("prod data")}},
	}}
	efsFake.accessPoints = []efstypes.AccessPointDescription{{
		AccessPointId: awsv2.String("fsap-111"),
		FileSystemId:  awsv2.String("fs-111"),
	}}

	var buf bytes.Buffer
	e := &Engine{EFS: efsFake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepEFS(context.Background()))

	// Name exists already, only the normalized key lands on the FS.
	require.Len(t, efsFake.tagged["fs-111"], 1)
	assert.Equal(t, "prod-data", awsv2.ToString(efsFake.tagged["fs-111"][0].Key))

	// Access points get the key marker only.
	require.Len(t, efsFake.tagged["fsap-111"], 1)
	assert.Equal(t, "prod-data", awsv2.ToString(efsFake.tagged["fsap-111"][0].Key))

	assert.Contains(t, buf.String(), "[EFS] prod data (fs-111) using tag key 'prod-data'")
}

func TestSweepEFS_UnnamedFileSystemUsesID(t *testing.T) {
	efsFake := newFakeEFS()
	efsFake.fileSystems = []efstypes.FileSystemDescription{{
		FileSystemId: awsv2.String("fs-222"),
	}}

	var buf bytes.Buffer
	e := &Engine{EFS: efsFake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepEFS(context.Background()))

	keys := make([]string, 0, 2)
	for _, tag := range efsFake.tagged["fs-222"] {
		keys = append(keys, awsv2.ToString(tag.Key))
	}
	assert.Equal(t, []string{"Name", "fs-222"}, keys)
}

func TestSweepEFS_LowercaseNameTagFound(t *testing.T) {
	efsFake := newFakeEFS()
	efsFake.fileSystems = []efstypes.FileSystemDescription{{
		FileSystemId: awsv2.String("fs-333"),
		Tags:         []efstypes.Tag{{Key: awsv2.String("name"), Value: awsv2.String("shared")}},
	}}

	var buf bytes.Buffer
	e := &Engine{EFS: efsFake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepEFS(context.Background()))

	assert.Contains(t, buf.String(), "using tag key 'shared'")
}

func TestSweepFSx_OntapTagsEverything(t *testing.T) {
	fsxFake := newFakeFSx()
	fsxFake.fileSystems = []fsxtypes.FileSystem{{
		FileSystemId:   awsv2.String("fs-111"),
		FileSystemType: fsxtypes.FileSystemTypeOntap,
		ResourceARN:    awsv2.String("arn:aws:fsx:us-east-1:111122223333:file-system/fs-111"),
		Tags:           []fsxtypes.Tag{{Key: awsv2.String("Name"), Value: awsv2.String("ontap prod")}},
	}}
	fsxFake.backups = []fsxtypes.Backup{{
		ResourceARN: awsv2.String("arn:aws:fsx:us-east-1:111122223333:backup/backup-111"),
	}}
	fsxFake.volumes = []fsxtypes.Volume{{
		ResourceARN: awsv2.String("arn:aws:fsx:us-east-1:111122223333:volume/fsvol-111"),
	}}
	fsxFake.svms = []fsxtypes.StorageVirtualMachine{{
		ResourceARN: awsv2.String("arn:aws:fsx:us-east-1:111122223333:storage-virtual-machine/svm-111"),
	}}

	var buf bytes.Buffer
	e := &Engine{FSx: fsxFake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepFSx(context.Background()))

	assert.Len(t, fsxFake.tagged, 4)
	for _, tags := range fsxFake.tagged {
		require.Len(t, tags, 1)
		assert.Equal(t, "ontap-prod", awsv2.ToString(tags[0].Key))
	}
	assert.Contains(t, buf.String(), "[FSx ONTAP] ontap prod (fs-111) using tag key 'ontap-prod'")
}

func TestSweepFSx_LustreSkipsVolumesAndSVMs(t *testing.T) {
	fsxFake := newFakeFSx()
	fsxFake.fileSystems = []fsxtypes.FileSystem{{
		FileSystemId:   awsv2.String("fs-222"),
		FileSystemType: fsxtypes.FileSystemTypeLustre,
		ResourceARN:    awsv2.String("arn:aws:fsx:us-east-1:111122223333:file-system/fs-222"),
	}}
	// These would be tagged if the type allowed it.
	fsxFake.volumes = []fsxtypes.Volume{{
		ResourceARN: awsv2.String("arn:aws:fsx:us-east-1:111122223333:volume/fsvol-222"),
	}}
	fsxFake.svms = []fsxtypes.StorageVirtualMachine{{
		ResourceARN: awsv2.String("arn:aws:fsx:us-east-1:111122223333:storage-virtual-machine/svm-222"),
	}}

	var buf bytes.Buffer
	e := &Engine{FSx: fsxFake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepFSx(context.Background()))

	assert.NotContains(t, fsxFake.tagged, "arn:aws:fsx:us-east-1:111122223333:volume/fsvol-222")
	assert.NotContains(t, fsxFake.tagged, "arn:aws:fsx:us-east-1:111122223333:storage-virtual-machine/svm-222")
	// Unnamed FS falls back to its ID for Name and key.
	fsTags := fsxFake.tagged["arn:aws:fsx:us-east-1:111122223333:file-system/fs-222"]
	require.Len(t, fsTags, 2)
	assert.Equal(t, "Name", awsv2.ToString(fsTags[0].Key))
	assert.Equal(t, "fs-222", awsv2.ToString(fsTags[0].Value))
}
