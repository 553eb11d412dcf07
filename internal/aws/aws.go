// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cev2 "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ec2v2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	efsv2 "github.com/aws/aws-sdk-go-v2/service/efs"
	fsxv2 "github.com/aws/aws-sdk-go-v2/service/fsx"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	stsv2 "github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/tagctl/tagctl/internal/log"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile, region, and retryer without changing callers.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s", o.profile, o.region)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}
	log.Debugf("loadOpts built: len=%d", len(loadOpts))

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	log.Debugf("config loaded")
	return cfg, nil
}

// NewEC2 constructs a v2 EC2 client from the provided config. Additional
// service options can be supplied via optFns.
func NewEC2(cfg awsv2.Config, optFns ...func(*ec2v2.Options)) *ec2v2.Client {
	client := ec2v2.NewFromConfig(cfg, optFns...)
	log.Debugf("ec2 client created: region=%s", cfg.Region)
	return client
}

// NewEFS constructs a v2 EFS client from the provided config.
func NewEFS(cfg awsv2.Config, optFns ...func(*efsv2.Options)) *efsv2.Client {
	client := efsv2.NewFromConfig(cfg, optFns...)
	log.Debugf("efs client created: region=%s", cfg.Region)
	return client
}

// NewFSx constructs a v2 FSx client from the provided config.
func NewFSx(cfg awsv2.Config, optFns ...func(*fsxv2.Options)) *fsxv2.Client {
	client := fsxv2.NewFromConfig(cfg, optFns...)
	log.Debugf("fsx client created: region=%s", cfg.Region)
	return client
}

// NewCostExplorer constructs a v2 Cost Explorer client from the provided
// config. Cost Explorer is a global service; the region in cfg is ignored by
// the API but kept for signing.
func NewCostExplorer(cfg awsv2.Config, optFns ...func(*cev2.Options)) *cev2.Client {
	client := cev2.NewFromConfig(cfg, optFns...)
	log.Debugf("costexplorer client created")
	return client
}

// NewSTS constructs a v2 STS client from the provided config.
func NewSTS(cfg awsv2.Config, optFns ...func(*stsv2.Options)) *stsv2.Client {
	client := stsv2.NewFromConfig(cfg, optFns...)
	log.Debugf("sts client created")
	return client
}

// NewS3 constructs a v2 S3 client from the provided config. Used by the
// report sink when the report target is an s3:// URI.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created")
	return client
}

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}
