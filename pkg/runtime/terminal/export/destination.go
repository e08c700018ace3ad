package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

const s3Scheme = "s3://"

// Destination is where a rendered report ends up: stdout, a local file or an S3 object.
type Destination struct {
	Bucket string
	Key    string
	Path   string
}

// ParseDestination interprets the --output flag value. An empty value means stdout.
func ParseDestination(output string) (Destination, error) {
	if !strings.HasPrefix(output, s3Scheme) {
		return Destination{Path: output}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(output, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Destination{}, fmt.Errorf("invalid s3 destination %q, expected s3://bucket/key", output)
	}
	return Destination{Bucket: bucket, Key: key}, nil
}

func (d Destination) IsS3() bool {
	return d.Bucket != ""
}

func (d Destination) String() string {
	if d.IsS3() {
		return s3Scheme + d.Bucket + "/" + d.Key
	}
	if d.Path == "" {
		return "stdout"
	}
	return d.Path
}

// Write delivers body to the destination. newUploader is only called for S3 targets.
func (d Destination) Write(
	ctx context.Context,
	body []byte,
	stdout io.Writer,
	newUploader func(ctx context.Context) (Uploader, error),
) error {
	switch {
	case d.IsS3():
		if newUploader == nil {
			return fmt.Errorf("no uploader configured for %s", d)
		}
		uploader, err := newUploader(ctx)
		if err != nil {
			return err
		}
		return uploader.Upload(ctx, d.Bucket, d.Key, body)
	case d.Path != "":
		if err := os.WriteFile(d.Path, body, 0o644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", d.Path, err)
		}
		return nil
	default:
		_, err := stdout.Write(body)
		return err
	}
}
