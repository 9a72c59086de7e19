package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/comitanigiacomo/musule-planner/internal/config"
	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

// S3API is the subset of the S3 client the repository uses.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3PlanRepository keeps each plan as the object "<prefix><week>.json".
type S3PlanRepository struct {
	client S3API
	bucket string
	prefix string
}

// NewS3PlanRepository builds a client for AWS or any S3-compatible endpoint
// such as MinIO.
func NewS3PlanRepository(ctx context.Context, cfg config.S3Config) (*S3PlanRepository, error) {
	opts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	log.Printf("[STORAGE] S3 plan store: endpoint=%q bucket=%s prefix=%q", cfg.Endpoint, cfg.BucketName, cfg.Prefix)

	return NewS3PlanRepositoryWithClient(client, cfg.BucketName, cfg.Prefix), nil
}

func NewS3PlanRepositoryWithClient(client S3API, bucket, prefix string) *S3PlanRepository {
	return &S3PlanRepository{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (r *S3PlanRepository) key(weekID string) (string, error) {
	if err := week.Validate(weekID); err != nil {
		return "", err
	}
	return r.prefix + weekID + planExt, nil
}

func isMissingObject(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

func (r *S3PlanRepository) Get(ctx context.Context, weekID string) (*domain.WeeklyPlan, error) {
	key, err := r.key(weekID)
	if err != nil {
		return nil, err
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if isMissingObject(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	var plan domain.WeeklyPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return &plan, nil
}

func (r *S3PlanRepository) Put(ctx context.Context, plan *domain.WeeklyPlan) error {
	key, err := r.key(plan.Week)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan %s: %w", plan.Week, err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

func (r *S3PlanRepository) Delete(ctx context.Context, weekID string) error {
	key, err := r.key(weekID)
	if err != nil {
		return err
	}

	_, err = r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isMissingObject(err) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

func (r *S3PlanRepository) ListWeeks(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.prefix),
	})

	weeks := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", r.bucket, r.prefix, err)
		}

		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), r.prefix)
			if !strings.HasSuffix(name, planExt) {
				continue
			}

			id := strings.TrimSuffix(name, planExt)
			if week.Validate(id) != nil {
				continue
			}
			weeks = append(weeks, id)
		}
	}
	sort.Strings(weeks)

	return weeks, nil
}
