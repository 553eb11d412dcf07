// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tagger

import (
	"bytes"
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepSnapshots_ResolvesThroughVolume(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.volumes = []ec2types.Volume{{
		VolumeId: awsv2.String("vol-111"),
		Tags:     []ec2types.Tag{{Key: awsv2.String("Name"), Value: awsv2.String("db data")}},
	}}
	ec2Fake.snapshots = []ec2types.Snapshot{{
		SnapshotId: awsv2.String("snap-111"),
		VolumeId:   awsv2.String("vol-111"),
	}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepSnapshots(context.Background()))

	assert.Equal(t, []string{"Name", "db-data"}, tagKeys(ec2Fake.tagged["snap-111"]))
	assert.Contains(t, buf.String(), "[SUMMARY] us-east-1: 1 snapshots processed")
}

func TestSweepSnapshots_ResolvesThroughVolumeAttachment(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.reservations = []ec2types.Reservation{{
		Instances: []ec2types.Instance{runningInstance("i-111", "app server")},
	}}
	// The volume itself is unnamed but attached.
	ec2Fake.volumes = []ec2types.Volume{{
		VolumeId: awsv2.String("vol-111"),
		Attachments: []ec2types.VolumeAttachment{{
			InstanceId: awsv2.String("i-111"),
		}},
	}}
	ec2Fake.snapshots = []ec2types.Snapshot{{
		SnapshotId: awsv2.String("snap-222"),
		VolumeId:   awsv2.String("vol-111"),
	}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepSnapshots(context.Background()))

	assert.Equal(t, []string{"Name", "app-server"}, tagKeys(ec2Fake.tagged["snap-222"]))
}

func TestSweepSnapshots_ResolvesThroughAMI(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.images = []ec2types.Image{{
		ImageId: awsv2.String("ami-0123456789abcdef0"),
		Name:    awsv2.String("golden image v1.2"),
	}}
	// Source volume is gone; the description still names the AMI.
	ec2Fake.snapshots = []ec2types.Snapshot{{
		SnapshotId:  awsv2.String("snap-333"),
		VolumeId:    awsv2.String("vol-gone"),
		Description: awsv2.String("Created by CreateImage(i-old) for ami-0123456789abcdef0"),
	}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepSnapshots(context.Background()))

	assert.Equal(t, []string{"Name", "golden-image-v1-2"}, tagKeys(ec2Fake.tagged["snap-333"]))
}

func TestSweepSnapshots_OwnNameTagIsLastResort(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.snapshots = []ec2types.Snapshot{{
		SnapshotId: awsv2.String("snap-444"),
		Tags:       []ec2types.Tag{{Key: awsv2.String("Name"), Value: awsv2.String("manual backup")}},
	}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepSnapshots(context.Background()))

	assert.Equal(t, []string{"manual-backup"}, tagKeys(ec2Fake.tagged["snap-444"]))
}

func TestSweepSnapshots_UnresolvableSkipped(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.snapshots = []ec2types.Snapshot{{
		SnapshotId:  awsv2.String("snap-555"),
		Description: awsv2.String("manual snapshot"),
	}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepSnapshots(context.Background()))

	assert.Empty(t, ec2Fake.tagged)
}
