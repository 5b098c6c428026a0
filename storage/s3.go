package storage

import (
	"bytes"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const deleteBatchSize = 1000

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // leave empty for AWS
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
	PresignTTL      time.Duration
}

type S3Store struct {
	bucket     string
	presignTTL time.Duration
	client     *s3.S3
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	awsConfig := aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	sess, err := session.NewSession(&awsConfig)
	if err != nil {
		return nil, err
	}
	return &S3Store{
		bucket:     cfg.Bucket,
		presignTTL: cfg.PresignTTL,
		client:     s3.New(sess),
	}, nil
}

func (s *S3Store) Put(key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *S3Store) Get(key string) ([]byte, error) {
	resp, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (s *S3Store) DeleteMany(keys []string) error {
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		batch := make([]*s3.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			batch = append(batch, &s3.ObjectIdentifier{Key: aws.String(key)})
		}
		_, err := s.client.DeleteObjects(&s3.DeleteObjectsInput{
			Bucket: &s.bucket,
			Delete: &s3.Delete{
				Objects: batch,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *S3Store) PresignPut(key, contentType string, size int64) (string, error) {
	req, _ := s.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	return req.Presign(s.presignTTL)
}

func (s *S3Store) List(prefix, continuationToken string) (ListResult, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  &s.bucket,
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int64(1000),
	}
	if continuationToken != "" {
		input.ContinuationToken = aws.String(continuationToken)
	}
	resp, err := s.client.ListObjectsV2(input)
	if err != nil {
		return ListResult{}, err
	}
	result := ListResult{Objects: make([]Object, 0, len(resp.Contents))}
	for _, obj := range resp.Contents {
		if obj.Key == nil {
			continue
		}
		o := Object{Key: *obj.Key}
		if obj.LastModified != nil {
			o.LastModified = *obj.LastModified
		}
		result.Objects = append(result.Objects, o)
	}
	if resp.NextContinuationToken != nil {
		result.NextToken = *resp.NextContinuationToken
	}
	return result, nil
}
