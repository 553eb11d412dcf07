// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tagger

import (
	"regexp"
	"strings"
)

var (
	// storageKeyPattern matches runes that are not tag-key safe for the
	// EFS/FSx key derivation. Whitespace is kept here and collapsed after.
	storageKeyPattern = regexp.MustCompile(`[^a-zA-Z0-9\-\s]`)

	// amiKeyPattern matches runes that are not tag-key safe for AMI-derived
	// keys. AMI names allow parens, dots and spaces; all become dashes.
	amiKeyPattern = regexp.MustCompile(`[^a-zA-Z0-9\-]`)

	// amiIDPattern recognizes AMI IDs embedded in snapshot descriptions.
	amiIDPattern = regexp.MustCompile(`ami-[0-9a-f]{8,17}`)
)

// MachineKey derives the marker tag key for an instance from its Name tag:
// trimmed, inner whitespace runs collapsed, spaces replaced with dashes.
// A missing, empty or whitespace-only Name tag falls back to the instance ID.
func MachineKey(tags map[string]string, instanceID string) string {
	name := strings.Join(strings.Fields(tags["Name"]), " ")
	if name == "" {
		return instanceID
	}
	return strings.ReplaceAll(name, " ", "-")
}

// NameValue returns the value to use for a propagated Name tag: the
// instance's own Name tag when present and non-empty, else the instance ID.
func NameValue(tags map[string]string, instanceID string) string {
	if v := tags["Name"]; v != "" {
		return v
	}
	return instanceID
}

// NormalizeStorageKey makes an EFS/FSx display name tag-key safe: trim,
// replace anything outside [a-zA-Z0-9-] and whitespace with a dash, then
// replace spaces with dashes.
func NormalizeStorageKey(name string) string {
	name = strings.TrimSpace(name)
	name = storageKeyPattern.ReplaceAllString(name, "-")
	return strings.ReplaceAll(name, " ", "-")
}

// SanitizeAMIKey makes an AMI name tag-key safe by dashing every rune
// outside [a-zA-Z0-9-].
func SanitizeAMIKey(name string) string {
	return amiKeyPattern.ReplaceAllString(name, "-")
}

// FindImageIDs extracts all AMI IDs mentioned in a snapshot description.
func FindImageIDs(description string) []string {
	return amiIDPattern.FindAllString(description, -1)
}

// containsInstanceID re-verifies a server-side wildcard description match.
func containsInstanceID(description, instanceID string) bool {
	return strings.Contains(description, instanceID)
}
