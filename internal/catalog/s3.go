package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/riseshia/athenadef/internal/logger"
)

// s3API is the slice of the S3 client the cleaner uses.
type s3API interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// resultCleaner removes Athena query-result objects from S3 after the rows
// have been consumed, so the output location does not accumulate one CSV and
// metadata file per executed query.
type resultCleaner struct {
	client s3API
}

// cleanup deletes the result object and its metadata sidecar, best effort.
func (c *resultCleaner) cleanup(ctx context.Context, s3URL string) {
	bucket, key, err := parseS3URL(s3URL)
	if err != nil {
		logger.Get().Debug("skipping result cleanup", "url", s3URL, "error", err)
		return
	}

	for _, k := range []string{key, key + ".metadata"} {
		_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(k),
		})
		if err != nil {
			logger.Get().Debug("failed to delete query result object", "bucket", bucket, "key", k, "error", err)
		}
	}
}

// parseS3URL splits s3://bucket/key into bucket and key.
func parseS3URL(s3URL string) (bucket, key string, err error) {
	trimmed, ok := strings.CutPrefix(s3URL, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %s", s3URL)
	}
	bucket, key, ok = strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url: %s", s3URL)
	}
	return bucket, key, nil
}
