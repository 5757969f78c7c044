package store

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

type S3Uploader struct {
	Client *s3.Client
	Bucket string
	Prefix string
}

func (u *S3Uploader) Upload(ctx context.Context, params UploadParams) error {
	key := path.Join(u.Prefix, params.Name)
	log.Debug().Str("bucket", u.Bucket).Str("key", key).Str("content_type", params.ContentType).
		Msg("uploading image to s3")

	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(params.ContentType),
		Body:        bytes.NewReader(params.Data),
		Metadata:    params.Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", u.Bucket, key, err)
	}
	return nil
}
