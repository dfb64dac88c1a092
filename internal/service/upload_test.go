package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ineffable/agency-server/internal/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeStorage struct {
	keys  []string
	types []string
	err   error
}

func (f *fakeStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	f.types = append(f.types, contentType)
	return "https://cdn.example.com/" + key, nil
}

type testFile struct {
	name string
	data []byte
}

func fileHeaders(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores images under dated keys", func(t *testing.T) {
		store := &fakeStorage{}
		svc := NewUploadService(store)
		svc.now = func() time.Time { return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) }

		urls, err := svc.Upload(ctx, fileHeaders(t,
			testFile{name: "a.png", data: pngHeader},
			testFile{name: "b.jpeg", data: []byte("\xff\xd8\xff\xe0 jpeg body")},
		))
		require.NoError(t, err)
		require.Len(t, urls, 2)

		keyPattern := regexp.MustCompile(`^uploads/2026/03/[0-9a-f-]{36}\.(png|jpg)$`)
		for _, key := range store.keys {
			assert.Regexp(t, keyPattern, key)
		}
		assert.Equal(t, []string{"image/png", "image/jpeg"}, store.types)
		assert.True(t, strings.HasPrefix(urls[0], "https://cdn.example.com/uploads/2026/03/"))
	})

	t.Run("rejects non-image content regardless of name", func(t *testing.T) {
		store := &fakeStorage{}
		svc := NewUploadService(store)

		_, err := svc.Upload(ctx, fileHeaders(t,
			testFile{name: "ok.png", data: pngHeader},
			testFile{name: "evil.png", data: []byte("<svg onload=alert(1)></svg>")},
		))
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
		assert.Empty(t, store.keys)
	})

	t.Run("requires at least one file", func(t *testing.T) {
		_, err := NewUploadService(&fakeStorage{}).Upload(ctx, nil)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("limits file count", func(t *testing.T) {
		files := make([]testFile, 11)
		for i := range files {
			files[i] = testFile{name: "f.png", data: pngHeader}
		}
		_, err := NewUploadService(&fakeStorage{}).Upload(ctx, fileHeaders(t, files...))
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("limits file size", func(t *testing.T) {
		big := append(append([]byte{}, pngHeader...), make([]byte, 5<<20)...)
		_, err := NewUploadService(&fakeStorage{}).Upload(ctx, fileHeaders(t, testFile{name: "big.png", data: big}))
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("storage failure is an external error", func(t *testing.T) {
		svc := NewUploadService(&fakeStorage{err: errors.New("bucket missing")})
		_, err := svc.Upload(ctx, fileHeaders(t, testFile{name: "a.png", data: pngHeader}))
		assert.Equal(t, apperrors.ErrCodeExternal, apperrors.GetCode(err))
	})

	t.Run("unconfigured storage", func(t *testing.T) {
		_, err := NewUploadService(nil).Upload(ctx, fileHeaders(t, testFile{name: "a.png", data: pngHeader}))
		assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetCode(err))
	})
}
