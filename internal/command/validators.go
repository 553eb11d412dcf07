// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"regexp"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// regionPattern accepts standard and partition-prefixed region names
// (us-east-1, eu-west-3, us-gov-west-1, cn-north-1).
var regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)

// RegionValidator rejects positional arguments that are not plausible AWS
// region names, which catches misplaced flags and typos early.
func RegionValidator(region string) error {
	if region == "" {
		return nil
	}
	if !regionPattern.MatchString(region) {
		return fmt.Errorf("%q does not look like an AWS region", region)
	}
	return nil
}
