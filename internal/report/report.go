// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tagctl/tagctl/internal/log"
)

// S3API is the slice of the S3 client the sink needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Recorder accumulates the plan/apply record of a run. A nil *Recorder is a
// valid no-op so sweeps can record unconditionally.
type Recorder struct {
	start time.Time
	lines []string
}

// NewRecorder returns a Recorder stamped with the current time.
func NewRecorder() *Recorder {
	return &Recorder{start: time.Now()}
}

// Recordf appends one formatted line to the record.
func (r *Recorder) Recordf(format string, args ...interface{}) {
	if r == nil {
		return
	}
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// Len returns the number of recorded lines.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.lines)
}

// Bytes renders the record with a timestamp header.
func (r *Recorder) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# tagctl run %s\n", r.start.UTC().Format(time.RFC3339))
	for _, line := range r.lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Write delivers the record to target. An s3://bucket/key target is uploaded
// with PutObject via the client returned by newS3; anything else is treated
// as a local file path.
func Write(ctx context.Context, target string, data []byte, newS3 func() (S3API, error)) error {
	if bucket, key, ok := ParseS3URI(target); ok {
		client, err := newS3()
		if err != nil {
			return fmt.Errorf("failed to build s3 client: %w", err)
		}
		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: awsv2.String(bucket),
			Key:    awsv2.String(key),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			return fmt.Errorf("failed to upload report to %s: %w", target, err)
		}
		log.Debugf("report uploaded: target=%s bytes=%d", target, len(data))
		return nil
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", target, err)
	}
	log.Debugf("report written: target=%s bytes=%d", target, len(data))
	return nil
}

// ParseS3URI splits an s3://bucket/key URI. ok is false for anything that is
// not a well-formed S3 URI with both bucket and key.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
