package main

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/hupe1980/slotmatch"
	"github.com/hupe1980/slotmatch/blobstore"
	"github.com/hupe1980/slotmatch/blobstore/minio"
	"github.com/hupe1980/slotmatch/blobstore/s3"
)

func openStore(ctx context.Context, cfg StoreConfig) (blobstore.Store, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "local":
		if cfg.Path == "" {
			return nil, &slotmatch.ConfigurationError{Option: "store path", Value: cfg.Path}
		}
		return blobstore.NewLocalStore(cfg.Path), nil

	case "s3":
		if cfg.Bucket == "" {
			return nil, &slotmatch.ConfigurationError{Option: "store bucket", Value: cfg.Bucket}
		}
		opts := []s3.Option{s3.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}
		store, err := s3.New(ctx, cfg.Bucket, opts...)
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		if cfg.CommitTable == "" {
			return store, nil
		}

		var loadOpts []func(*config.LoadOptions) error
		if cfg.Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: %w", err)
		}
		baseURI := "s3://" + path.Join(cfg.Bucket, cfg.Prefix)
		return s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), cfg.CommitTable, baseURI), nil

	case "minio":
		if cfg.Bucket == "" || cfg.Endpoint == "" {
			return nil, &slotmatch.ConfigurationError{Option: "minio endpoint/bucket", Value: cfg.Endpoint + "/" + cfg.Bucket}
		}
		client, err := minio.Dial(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Secure)
		if err != nil {
			return nil, fmt.Errorf("minio store: %w", err)
		}
		return minio.NewStore(client, cfg.Bucket, cfg.Prefix), nil

	default:
		return nil, &slotmatch.ConfigurationError{Option: "store kind", Value: cfg.Kind}
	}
}
