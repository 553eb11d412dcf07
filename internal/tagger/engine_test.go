// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tagger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tagctl/tagctl/internal/report"
)

func TestMergeTags_AddsNameAndKey(t *testing.T) {
	tags := MergeTags(map[string]string{}, "web", "web")
	assert.Equal(t, []Tag{{Key: "Name", Value: "web"}, {Key: "web"}}, tags)
}

func TestMergeTags_NeverOverwritesName(t *testing.T) {
	tags := MergeTags(map[string]string{"Name": "keep-me"}, "web", "web")
	assert.Equal(t, []Tag{{Key: "web"}}, tags)
}

func TestMergeTags_NothingToAdd(t *testing.T) {
	tags := MergeTags(map[string]string{"Name": "web", "web": ""}, "web", "web")
	assert.Empty(t, tags)
}

func TestKeyMarker(t *testing.T) {
	assert.Equal(t, []Tag{{Key: "web"}}, KeyMarker(map[string]string{}, "web"))
	assert.Nil(t, KeyMarker(map[string]string{"web": ""}, "web"))
}

func TestApplyEC2Tags_DryRunPlansOnly(t *testing.T) {
	ec2Fake := newFakeEC2()
	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", DryRun: true, Writer: &buf}

	e.applyEC2Tags(context.Background(), "i-111", []Tag{{Key: "Name", Value: "web"}}, "EC2 Instance")

	assert.Equal(t, 1, e.Stats.Planned)
	assert.Equal(t, 0, e.Stats.Applied)
	assert.Empty(t, ec2Fake.tagged)
	assert.Contains(t, buf.String(), "[PLAN] EC2 Instance i-111: Name = web")
}

func TestApplyEC2Tags_ApplyWrites(t *testing.T) {
	ec2Fake := newFakeEC2()
	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	e.applyEC2Tags(context.Background(), "i-111", []Tag{{Key: "web"}}, "EC2 Instance")

	assert.Equal(t, 1, e.Stats.Applied)
	assert.Equal(t, []string{"web"}, tagKeys(ec2Fake.tagged["i-111"]))
	assert.Contains(t, buf.String(), "[APPLY] EC2 Instance i-111: web = (empty)")
}

func TestApplyEC2Tags_FailureCountsAndContinues(t *testing.T) {
	ec2Fake := newFakeEC2()
	ec2Fake.createErr = errors.New("throttled")
	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	e.applyEC2Tags(context.Background(), "i-111", []Tag{{Key: "web"}}, "EC2 Instance")

	assert.Equal(t, 1, e.Stats.Failed)
	assert.Equal(t, 0, e.Stats.Applied)
	assert.Contains(t, buf.String(), "[ERROR] EC2 Instance i-111")
}

func TestApplyEC2Tags_NoTagsNoCall(t *testing.T) {
	ec2Fake := newFakeEC2()
	var buf bytes.Buffer
	e := &Engine{EC2: ec2Fake, Region: "us-east-1", Writer: &buf}

	e.applyEC2Tags(context.Background(), "i-111", nil, "EC2 Instance")

	assert.Equal(t, Stats{}, e.Stats)
	assert.Empty(t, buf.String())
}

func TestEmit_RecordsIntoRecorder(t *testing.T) {
	var buf bytes.Buffer
	rec := report.NewRecorder()
	e := &Engine{Region: "eu-west-1", Writer: &buf, Recorder: rec}

	e.emit("PLAN", "Volume", "vol-222", []Tag{{Key: "web"}})

	assert.Equal(t, 1, rec.Len())
	assert.Contains(t, string(rec.Bytes()), "eu-west-1 PLAN Volume vol-222 web=")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "fs-123", shortID("arn:aws:fsx:us-east-1:111122223333:file-system/fs-123"))
	assert.Equal(t, "i-111", shortID("i-111"))
}
