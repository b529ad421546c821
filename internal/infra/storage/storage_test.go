package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryArchivePutGet(t *testing.T) {
	t.Parallel()

	archive := NewMemoryArchive()
	ctx := context.Background()

	obj, err := archive.Put(ctx, "plans/2025/01/a-desktop.pdf", []byte("%PDF-1.3"), "application/pdf")
	require.NoError(t, err)
	require.Equal(t, int64(8), obj.Size)
	require.Equal(t, "application/pdf", obj.ContentType)
	require.Len(t, obj.ETag, 32)

	_, err = archive.Put(ctx, "plans/2025/01/a-mobile.pdf", []byte("%PDF-1.3 m"), "application/pdf")
	require.NoError(t, err)

	data, contentType, err := archive.Get(ctx, "plans/2025/01/a-desktop.pdf")
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.3", string(data))
	require.Equal(t, "application/pdf", contentType)

	require.Equal(t, []string{"plans/2025/01/a-desktop.pdf", "plans/2025/01/a-mobile.pdf"}, archive.Keys("plans/2025/"))

	_, _, err = archive.Get(ctx, "missing")
	require.Error(t, err)
	_, err = archive.Put(ctx, " ", nil, "application/pdf")
	require.Error(t, err)
}

func TestSanitizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://acct.r2.cloudflarestorage.com/bucket": "acct.r2.cloudflarestorage.com",
		"http://localhost:9000":                        "localhost:9000",
		"  s3.amazonaws.com ":                          "s3.amazonaws.com",
		"":                                             "",
	}
	for in, want := range tests {
		require.Equal(t, want, sanitizeEndpoint(in), in)
	}
}
