package scheduler

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/janiskelemen/file-depot/internal/api"
	"github.com/janiskelemen/file-depot/internal/storage"
)

// Uploader is the part of the S3 client the backup needs.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Uploader builds an S3 client from c. Without static keys the default
// AWS credential chain applies.
func NewS3Uploader(ctx context.Context, c api.S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.ForcePathStyle
	}), nil
}

// BackupJob binds RunBackup to its dependencies.
func BackupJob(c api.S3Config, st storage.Service, up Uploader) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := RunBackup(ctx, c, st, up)
		return err
	}
}

// RunBackup zips every stored file and uploads the archive to the
// configured bucket. It returns the object key.
func RunBackup(ctx context.Context, c api.S3Config, st storage.Service, up Uploader) (string, error) {
	names, err := st.LoadAll(ctx)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	count := 0
	for name := range names {
		res, err := st.LoadAsResource(ctx, name)
		if errors.Is(err, storage.ErrFileNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		if err := zipAddFile(zw, res); err != nil {
			return "", fmt.Errorf("archive %s: %w", name, err)
		}
		count++
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	ts := time.Now().UTC().Format("20060102-150405")
	key := strings.TrimPrefix(c.Prefix, "/") + "files-" + ts + ".zip"
	_, err = up.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("application/zip"),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("backup upload failed")
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	log.Info().Str("key", key).Int("files", count).Int("bytes", buf.Len()).Msg("backup uploaded")
	return key, nil
}

func zipAddFile(zw *zip.Writer, res *storage.Resource) error {
	f, err := res.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(fi)
	if err != nil {
		return err
	}
	hdr.Name = res.Name
	hdr.Method = zip.Deflate
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
