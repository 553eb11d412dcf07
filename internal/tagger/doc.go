// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tagger implements the lineage tag sweeps: machine-key derivation
// from EC2 Name tags, the never-overwrite tag merge rule, and the per-region
// sweeps over instances, EBS volumes and snapshots, AMI-derived snapshots,
// EFS and FSx resources. All writes go through one plan/apply gate so that
// dry-run and apply modes share every code path up to the final API call.
package tagger
