// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tagctl/tagctl/internal/log"
)

// filterRegex parses a filter expression into key, operator, and target
// components. Operators are one of = ^ ~, optionally prefixed with '!'.
// Examples: "type=Volume", "name^web", "state!~term".
var filterRegex = regexp.MustCompile(`^([^!=^~]*)(!?[=^~])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Value   string
}

// Parse splits a comma-separated --filter spec into Filters. Malformed
// expressions are dropped with a warning.
func Parse(spec string) []Filter {
	var out []Filter
	for _, expr := range strings.Split(spec, ",") {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}
		m := filterRegex.FindStringSubmatch(expr)
		if m == nil || m[1] == "" || m[2] == "" {
			log.Warnf("ignoring malformed filter: %s", expr)
			continue
		}
		f := Filter{Key: m[1], Operand: m[2], Value: m[3]}
		if strings.HasPrefix(f.Operand, "!") {
			f.Negate = true
			f.Operand = f.Operand[1:]
		}
		out = append(out, f)
	}
	return out
}

// FilterDataset materializes a gjson array into row maps, keeping only the
// rows that match every filter in spec. An empty spec keeps everything.
func FilterDataset(dataset gjson.Result, spec string) []map[string]interface{} {
	fs := Parse(spec)

	var rows []map[string]interface{}
	for _, item := range dataset.Array() {
		row := make(map[string]interface{})
		for key, value := range item.Map() {
			row[key] = value.Value()
		}

		keep := true
		for _, f := range fs {
			if !f.matches(item) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, row)
		}
	}
	return rows
}

// matches evaluates one filter against one row. Comparison is
// case-insensitive; this is a human-facing query surface.
func (f Filter) matches(row gjson.Result) bool {
	have := strings.ToLower(row.Get(f.Key).String())
	want := strings.ToLower(f.Value)

	var ok bool
	switch f.Operand {
	case "=":
		ok = have == want
	case "^":
		ok = strings.HasPrefix(have, want)
	case "~":
		ok = strings.Contains(have, want)
	}
	if f.Negate {
		return !ok
	}
	return ok
}
