package archive_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"provider-dedupe/core/archive"
	"provider-dedupe/core/archive/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReportsSave(t *testing.T) {
	client := new(mocks.Client)
	cfg := archive.Config{Bucket: "dedupe-reports"}
	reports := archive.NewReports(client, cfg)

	client.On("BucketExists", mock.Anything, "dedupe-reports").Return(true, nil)
	client.On("PutObject", mock.Anything, "dedupe-reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	key, err := reports.Save(context.Background(), "run-123", map[string]any{"records_updated": 2})
	assert.NoError(t, err)
	assert.Contains(t, key, "reports/")
	assert.Contains(t, key, "run-123.json")
	client.AssertExpectations(t)
}

func TestReportsSaveCreatesBucket(t *testing.T) {
	client := new(mocks.Client)
	cfg := archive.Config{Bucket: "dedupe-reports", Region: "us-east-1"}
	reports := archive.NewReports(client, cfg)

	client.On("BucketExists", mock.Anything, "dedupe-reports").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "dedupe-reports", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
	client.On("PutObject", mock.Anything, "dedupe-reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	_, err := reports.Save(context.Background(), "run-456", map[string]any{"success": true})
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestReportsSaveBucketError(t *testing.T) {
	client := new(mocks.Client)
	reports := archive.NewReports(client, archive.Config{Bucket: "dedupe-reports"})

	client.On("BucketExists", mock.Anything, "dedupe-reports").Return(false, assert.AnError)

	_, err := reports.Save(context.Background(), "run-789", map[string]any{})
	assert.Error(t, err)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportsLoad(t *testing.T) {
	client := new(mocks.Client)
	reports := archive.NewReports(client, archive.Config{Bucket: "dedupe-reports"})

	body := io.NopCloser(strings.NewReader(`{"success": true, "records_updated": 3}`))
	client.On("GetObject", mock.Anything, "dedupe-reports", "reports/2026-08-29/run-123.json", mock.Anything).
		Return(body, nil)

	var out map[string]any
	err := reports.Load(context.Background(), "reports/2026-08-29/run-123.json", &out)
	assert.NoError(t, err)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(3), out["records_updated"])
}

func TestReportsList(t *testing.T) {
	client := new(mocks.Client)
	reports := archive.NewReports(client, archive.Config{Bucket: "dedupe-reports"})

	ch := make(chan minio.ObjectInfo, 3)
	ch <- minio.ObjectInfo{Key: "reports/2026-08-27/run-a.json"}
	ch <- minio.ObjectInfo{Key: "reports/2026-08-28/run-b.json"}
	ch <- minio.ObjectInfo{Key: "reports/2026-08-28/partial.tmp"}
	close(ch)
	client.On("ListObjects", mock.Anything, "dedupe-reports", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	keys, err := reports.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"reports/2026-08-28/run-b.json",
		"reports/2026-08-27/run-a.json",
	}, keys)
}
