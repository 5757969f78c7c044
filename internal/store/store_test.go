package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileUploader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	u := &FileUploader{Dir: dir}

	err := u.Upload(context.Background(), UploadParams{
		Name:        "generated.png",
		Data:        []byte("png-bytes"),
		ContentType: "image/png",
	})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "generated.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), got)
}

func TestS3Uploader(t *testing.T) {
	var gotMethod, gotPath, gotType, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotModel = r.Header.Get("X-Amz-Meta-Model")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	})
	u := &S3Uploader{Client: client, Bucket: "images", Prefix: "generated"}

	err := u.Upload(context.Background(), UploadParams{
		Name:        "abc.png",
		Data:        []byte("png-bytes"),
		ContentType: "image/png",
		Metadata:    map[string]string{"model": "org/model"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/images/generated/abc.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "org/model", gotModel)
}
