package images

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type fakeObjectClient struct {
	bucketExists bool
	madeBucket   string
	putKey       string
	putType      string
	putBody      string
	putErr       error
}

func (f *fakeObjectClient) PutObject(_ context.Context, _ string, objectName string, reader io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.putKey = objectName
	f.putType = opts.ContentType
	f.putBody = string(body)
	return minio.UploadInfo{Key: objectName}, nil
}

func (f *fakeObjectClient) BucketExists(context.Context, string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeObjectClient) MakeBucket(_ context.Context, bucketName string, _ minio.MakeBucketOptions) error {
	f.madeBucket = bucketName
	return nil
}

var (
	productID = uuid.MustParse("5a0c9f0e-1d1b-4c55-9b0e-0c6f2d3e4a5b")
	imageID   = uuid.MustParse("b6f7e2a1-3c4d-4e5f-8a9b-0c1d2e3f4a5b")
)

func TestUpload(t *testing.T) {
	t.Parallel()

	client := &fakeObjectClient{}
	store := newStore(client, "products", "https://cdn.electrostore.example/")
	store.newID = func() uuid.UUID { return imageID }

	url, err := store.Upload(context.Background(), productID, "image/PNG; charset=binary", 4, strings.NewReader("\x89PNG"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKey := "products/" + productID.String() + "/" + imageID.String() + ".png"
	if client.putKey != wantKey {
		t.Fatalf("key = %q, want %q", client.putKey, wantKey)
	}
	if client.putType != "image/png" {
		t.Fatalf("content type = %q", client.putType)
	}
	if url != "https://cdn.electrostore.example/"+wantKey {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestUpload_RejectsNonImage(t *testing.T) {
	t.Parallel()

	client := &fakeObjectClient{}
	store := newStore(client, "products", "https://cdn.electrostore.example")

	_, err := store.Upload(context.Background(), productID, "application/pdf", 1, strings.NewReader("x"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if client.putKey != "" {
		t.Fatalf("nothing should be uploaded, got %q", client.putKey)
	}
}

func TestUpload_PropagatesStorageError(t *testing.T) {
	t.Parallel()

	store := newStore(&fakeObjectClient{putErr: errors.New("access denied")}, "products", "https://cdn")
	if _, err := store.Upload(context.Background(), productID, "image/jpeg", 1, strings.NewReader("x")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnsureBucket(t *testing.T) {
	t.Parallel()

	missing := &fakeObjectClient{}
	if err := newStore(missing, "products", "").EnsureBucket(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing.madeBucket != "products" {
		t.Fatalf("expected bucket to be created")
	}

	present := &fakeObjectClient{bucketExists: true}
	if err := newStore(present, "products", "").EnsureBucket(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if present.madeBucket != "" {
		t.Fatalf("existing bucket should not be recreated")
	}
}

func TestImageExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        string
		ok          bool
	}{
		{contentType: "image/jpeg", want: ".jpg", ok: true},
		{contentType: " image/webp ", want: ".webp", ok: true},
		{contentType: "image/svg+xml", ok: false},
		{contentType: "", ok: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.contentType, func(t *testing.T) {
			t.Parallel()
			got, ok := ImageExtension(tc.contentType)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("ImageExtension(%q) = (%q, %v), want (%q, %v)", tc.contentType, got, ok, tc.want, tc.ok)
			}
		})
	}
}
