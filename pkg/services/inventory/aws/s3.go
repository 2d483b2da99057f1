package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

func (s *source) collectS3(ctx context.Context) ([]map[string]string, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := s.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 buckets: %w", err)
	}

	var rows []map[string]string
	for _, bucket := range resp.Buckets {
		name := aws.ToString(bucket.Name)

		locResp, err := s.s3.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
			Bucket: bucket.Name,
		})
		if err != nil {
			logger.Warn().Err(err).Str("bucket", name).Msg("bucket location unavailable, skipped")
			continue
		}
		region := string(locResp.LocationConstraint)
		if region == "" {
			region = DefaultRegion
		}

		tags := make(map[string]string)
		tagResp, err := s.s3.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
			Bucket: bucket.Name,
		})
		if err == nil {
			for _, tag := range tagResp.TagSet {
				tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
			}
		}
		// untagged buckets answer GetBucketTagging with NoSuchTagSet;
		// that is just an empty tag map, not a scan failure

		storageGB, err := s.bucketStorageGB(ctx, bucket.Name)
		if err != nil {
			logger.Warn().Err(err).Str("bucket", name).Msg("bucket size unavailable, cost set to 0")
			storageGB = 0
		}

		rows = append(rows, buildRow(
			name,
			"S3",
			region,
			storageGB*getS3StorageRate(),
			tags,
		))
	}
	return rows, nil
}

func (s *source) bucketStorageGB(ctx context.Context, bucket *string) (float64, error) {
	var totalSize int64
	var continuationToken *string

	for {
		objResp, err := s.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            bucket,
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return 0, err
		}

		for _, obj := range objResp.Contents {
			totalSize += aws.ToInt64(obj.Size)
		}

		if !aws.ToBool(objResp.IsTruncated) {
			break
		}
		continuationToken = objResp.NextContinuationToken
	}

	return float64(totalSize) / (1024 * 1024 * 1024), nil
}
