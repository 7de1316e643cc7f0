package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// Reports writes deduplication run reports to the archive bucket as JSON
// objects, one per run, keyed by run time and run ID.
type Reports struct {
	client Client
	bucket string
	region string
}

// NewReports creates a report writer over the given client.
func NewReports(client Client, cfg Config) *Reports {
	return &Reports{client: client, bucket: cfg.Bucket, region: cfg.Region}
}

func reportKey(runID string, at time.Time) string {
	return fmt.Sprintf("reports/%s/%s.json", at.UTC().Format("2006-01-02"), runID)
}

// ensureBucket creates the bucket if it does not exist yet.
func (r *Reports) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", r.bucket, err)
	}
	if exists {
		return nil
	}
	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}
	return nil
}

// Save archives one run report. The report is marshalled as indented JSON
// so archived runs stay readable without tooling.
func (r *Reports) Save(ctx context.Context, runID string, report any) (string, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report %s: %w", runID, err)
	}

	key := reportKey(runID, time.Now())
	_, err = r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to archive report %s: %w", runID, err)
	}
	return key, nil
}

// Load reads one archived report by object key into out.
func (r *Reports) Load(ctx context.Context, key string, out any) error {
	obj, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to read report %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return fmt.Errorf("failed to read report %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode report %s: %w", key, err)
	}
	return nil
}

// List returns the object keys of archived reports, newest day first.
func (r *Reports) List(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{
		Prefix:    "reports/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			keys = append(keys, obj.Key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}
