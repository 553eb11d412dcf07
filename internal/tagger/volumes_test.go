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

func TestSweepVolumes_AttachedVolumeUsesInstanceName(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.reservations = []ec2types.Reservation{{
		Instances: []ec2types.Instance{runningInstance("i-111", "db primary")},
	}}
	ec2Fake.volumes = []ec2types.Volume{{
		VolumeId: awsv2.String("vol-111"),
		Attachments: []ec2types.VolumeAttachment{{
			InstanceId: awsv2.String("i-111"),
		}},
	}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepVolumes(context.Background()))

	assert.Equal(t, []string{"Name", "db-primary"}, tagKeys(ec2Fake.tagged["vol-111"]))
	assert.Contains(t, buf.String(), "[SUMMARY] us-east-1: 1 volumes processed")
}

func TestSweepVolumes_UnattachedVolumeUsesOwnName(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.volumes = []ec2types.Volume{{
		VolumeId: awsv2.String("vol-222"),
		Tags:     []ec2types.Tag{{Key: awsv2.String("Name"), Value: awsv2.String("scratch disk")}},
	}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepVolumes(context.Background()))

	// Name exists already, only the key marker is added.
	assert.Equal(t, []string{"scratch-disk"}, tagKeys(ec2Fake.tagged["vol-222"]))
}

func TestSweepVolumes_UnattributableVolumeSkipped(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.volumes = []ec2types.Volume{{VolumeId: awsv2.String("vol-333")}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepVolumes(context.Background()))

	assert.Empty(t, ec2Fake.tagged)
	assert.Equal(t, Stats{}, e.Stats)
}

func TestSweepVolumes_DeletedInstanceFallsThrough(t *testing.T) {
	ec2Fake := newFakeEC2()
	// Attachment references an instance the fake does not know; the
	// volume's own Name tag is the fallback.
	ec2Fake.volumes = []ec2types.Volume{{
		VolumeId: awsv2.String("vol-444"),
		Tags:     []ec2types.Tag{{Key: awsv2.String("Name"), Value: awsv2.String("orphan vol")}},
		Attachments: []ec2types.VolumeAttachment{{
			InstanceId: awsv2.String("i-gone"),
		}},
	}}

	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	require.NoError(t, e.SweepVolumes(context.Background()))

	assert.Equal(t, []string{"orphan-vol"}, tagKeys(ec2Fake.tagged["vol-444"]))
}
