package repository

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	s3config "github.com/Hegee0307/metadata-removal-api/internal/config"
)

// ObjectRepository reads image objects from an S3-compatible store.
// It never writes: cleaned images are returned to the caller, not
// persisted.
type ObjectRepository interface {
	FetchObject(ctx context.Context, bucket, key string) ([]byte, error)
}

type objectRepository struct {
	client *s3.Client
	cfg    *s3config.S3Config
	log    *zap.Logger
}

func NewObjectRepository(cfg *s3config.S3Config, log *zap.Logger) (ObjectRepository, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				Source:            aws.EndpointSourceCustom,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithEndpointResolverWithOptions(customResolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &objectRepository{
		client: client,
		cfg:    cfg,
		log:    log,
	}, nil
}

func (r *objectRepository) FetchObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if bucket == "" {
		bucket = r.cfg.BucketName
	}

	output, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		r.log.Error("Failed to fetch object from S3",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err))
		return nil, err
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		r.log.Error("Failed to read object body",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err))
		return nil, err
	}

	r.log.Info("Object fetched from S3",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(data)))

	return data, nil
}
