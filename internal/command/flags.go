// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tagctl/tagctl/internal/config"
)

var (
	applyFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "apply",
		Usage:       "apply real changes; without it everything is a dry-run",
		HideDefault: true,
	}

	fixOrphansFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "fix-orphans",
		Usage:       "only fix orphaned AMI snapshots, no lineage tagging",
		HideDefault: true,
	}

	tagStorageFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tag-storage",
		Usage:       "also tag EFS and all FSx types in each region",
		HideDefault: true,
	}
)

// NewGlobalFlags returns the flags common to every sweep command. The
// optional param is the command name used as the config-file namespace.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		NewProfileFlag(params...),
		NewReportFlag(params...),
	}

	return
}

// NewOutputFlags returns the rendering flags used by read-only commands.
func NewOutputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}
}

// NewProfileFlag constructs the "profile" flag, optionally namespaced to a
// command in the config file.
func NewProfileFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "AWS shared config profile. Defaults to the environment chain",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TAGCTL_PROFILE"),
		),
	}

	if len(params) == 1 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], flag)
	}

	return
}

// NewReportFlag constructs the "report" flag. The value is a local path or
// an s3://bucket/key URI the plan/apply record is written to.
func NewReportFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "report",
		Usage: "write the plan/apply record to a file or s3:// URI",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TAGCTL_REPORT"),
		),
	}

	if len(params) == 1 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config
// file sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, flag *cli.StringFlag) *cli.StringFlag {
	path := config.Config.Source
	if path == "" {
		return flag
	}

	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
