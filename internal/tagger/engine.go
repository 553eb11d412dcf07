// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tagger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	efstypes "github.com/aws/aws-sdk-go-v2/service/efs/types"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	fsxtypes "github.com/aws/aws-sdk-go-v2/service/fsx/types"
	"github.com/aws/smithy-go"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/tagctl/tagctl/internal/log"
	"github.com/tagctl/tagctl/internal/report"
)

// Tag is one key/value pair to be written. Marker tags carry an empty value.
type Tag struct {
	Key   string
	Value string
}

// Stats counts the tags planned, applied and failed during a sweep.
type Stats struct {
	Planned int
	Applied int
	Failed  int
}

// Engine drives the tagging sweeps for one region. All tag writes funnel
// through the plan/apply gate so dry-run and apply share every code path up
// to the final API call.
type Engine struct {
	EC2      EC2API
	EFS      EFSAPI
	FSx      FSxAPI
	Region   string
	DryRun   bool
	Color    bool
	Writer   io.Writer
	Recorder *report.Recorder
	Stats    Stats
}

var (
	planStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#b08800"))
	applyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2aa31f"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c03030"))
)

func (e *Engine) out() io.Writer {
	if e.Writer == nil {
		return os.Stdout
	}
	return e.Writer
}

// emit prints one line per tag in the original [PLAN]/[APPLY] format and
// mirrors each into the recorder.
func (e *Engine) emit(action, resourceType, id string, tags []Tag) {
	style := planStyle
	if action == "APPLY" {
		style = applyStyle
	}
	for _, t := range tags {
		value := t.Value
		if value == "" {
			value = "(empty)"
		}
		line := fmt.Sprintf("    [%s] %s %s: %s = %s", action, resourceType, shortID(id), t.Key, value)
		if e.Color {
			line = style.Render(line)
		}
		fmt.Fprintln(e.out(), line)
		e.Recorder.Recordf("%s %s %s %s %s=%s", e.Region, action, resourceType, shortID(id), t.Key, t.Value)
	}
}

// fail reports a per-resource tagging failure without aborting the sweep.
func (e *Engine) fail(resourceType, id string, err error) {
	e.Stats.Failed++
	line := fmt.Sprintf("    [ERROR] %s %s: %v", resourceType, shortID(id), err)
	if e.Color {
		line = errorStyle.Render(line)
	}
	fmt.Fprintln(e.out(), line)
	e.Recorder.Recordf("%s ERROR %s %s %v", e.Region, resourceType, shortID(id), err)
	log.Warnf("tag write failed: region=%s type=%s id=%s err=%v", e.Region, resourceType, id, err)
}

// applyEC2Tags plans or applies tags on an EC2-taggable resource (instance,
// volume, snapshot, image).
func (e *Engine) applyEC2Tags(ctx context.Context, id string, tags []Tag, resourceType string) {
	if len(tags) == 0 {
		return
	}
	if e.DryRun {
		e.emit("PLAN", resourceType, id, tags)
		e.Stats.Planned += len(tags)
		return
	}
	_, err := e.EC2.CreateTags(ctx, &ec2.CreateTagsInput{
		Resources: []string{id},
		Tags:      toEC2Tags(tags),
	})
	if err != nil {
		e.fail(resourceType, id, err)
		return
	}
	e.emit("APPLY", resourceType, id, tags)
	e.Stats.Applied += len(tags)
}

// applyEFSTags plans or applies tags on an EFS resource. EFS tags by
// ResourceId (fs-... or fsap-...).
func (e *Engine) applyEFSTags(ctx context.Context, resourceID string, tags []Tag, resourceType string) {
	if len(tags) == 0 {
		return
	}
	if e.DryRun {
		e.emit("PLAN", resourceType, resourceID, tags)
		e.Stats.Planned += len(tags)
		return
	}
	_, err := e.EFS.TagResource(ctx, &efs.TagResourceInput{
		ResourceId: awsv2.String(resourceID),
		Tags:       toEFSTags(tags),
	})
	if err != nil {
		e.fail(resourceType, resourceID, err)
		return
	}
	e.emit("APPLY", resourceType, resourceID, tags)
	e.Stats.Applied += len(tags)
}

// applyFSxTags plans or applies tags on an FSx resource. FSx tags by ARN.
func (e *Engine) applyFSxTags(ctx context.Context, arn string, tags []Tag, resourceType string) {
	if len(tags) == 0 {
		return
	}
	if e.DryRun {
		e.emit("PLAN", resourceType, arn, tags)
		e.Stats.Planned += len(tags)
		return
	}
	_, err := e.FSx.TagResource(ctx, &fsx.TagResourceInput{
		ResourceARN: awsv2.String(arn),
		Tags:        toFSxTags(tags),
	})
	if err != nil {
		e.fail(resourceType, arn, err)
		return
	}
	e.emit("APPLY", resourceType, arn, tags)
	e.Stats.Applied += len(tags)
}

// MergeTags computes the tags to add for a resource: a Name tag when the
// resource has none, and the machine-key marker when that key is absent.
// Existing tags are never overwritten.
func MergeTags(current map[string]string, name, key string) []Tag {
	var out []Tag
	if _, ok := current["Name"]; !ok {
		out = append(out, Tag{Key: "Name", Value: name})
	}
	if _, ok := current[key]; !ok {
		out = append(out, Tag{Key: key})
	}
	return out
}

// KeyMarker returns the machine-key marker tag when the key is absent from
// the current tags, and nothing otherwise. Used for secondary resources
// (access points, backups, FSx volumes, SVMs) which keep their own names.
func KeyMarker(current map[string]string, key string) []Tag {
	if _, ok := current[key]; ok {
		return nil
	}
	return []Tag{{Key: key}}
}

func toEC2Tags(tags []Tag) []ec2types.Tag {
	out := make([]ec2types.Tag, len(tags))
	for i, t := range tags {
		out[i] = ec2types.Tag{Key: awsv2.String(t.Key), Value: awsv2.String(t.Value)}
	}
	return out
}

func toEFSTags(tags []Tag) []efstypes.Tag {
	out := make([]efstypes.Tag, len(tags))
	for i, t := range tags {
		out[i] = efstypes.Tag{Key: awsv2.String(t.Key), Value: awsv2.String(t.Value)}
	}
	return out
}

func toFSxTags(tags []Tag) []fsxtypes.Tag {
	out := make([]fsxtypes.Tag, len(tags))
	for i, t := range tags {
		out[i] = fsxtypes.Tag{Key: awsv2.String(t.Key), Value: awsv2.String(t.Value)}
	}
	return out
}

func tagMapEC2(tags []ec2types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[awsv2.ToString(t.Key)] = awsv2.ToString(t.Value)
	}
	return out
}

func tagMapEFS(tags []efstypes.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[awsv2.ToString(t.Key)] = awsv2.ToString(t.Value)
	}
	return out
}

func tagMapFSx(tags []fsxtypes.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[awsv2.ToString(t.Key)] = awsv2.ToString(t.Value)
	}
	return out
}

// shortID trims an ARN down to its final path segment for display.
func shortID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 && strings.HasPrefix(id, "arn:") {
		return id[i+1:]
	}
	return id
}

// isAccessDenied reports whether err is an authorization failure from any of
// the swept services.
func isAccessDenied(err error) bool {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.ErrorCode() {
	case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
		return true
	}
	return false
}
