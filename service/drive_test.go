package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/kevinaaaquil/dejapp/apperr"
)

func newFakeDrive(t *testing.T) *DriveInspector {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/files/shared"):
			_, _ = w.Write([]byte(`{"id":"shared"}`))
		case strings.HasSuffix(r.URL.Path, "/files/private"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found: private."}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad request"}}`))
		}
	}))
	t.Cleanup(srv.Close)

	d, err := NewDriveInspector(context.Background(), "test-key",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return d
}

func TestDriveInspector(t *testing.T) {
	d := newFakeDrive(t)
	ctx := context.Background()

	assert.NoError(t, d.Inspect(ctx, "https://drive.google.com/file/d/shared/view"))

	err := d.Inspect(ctx, "https://drive.google.com/open?id=private")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "not_accessible", ve.Fields["drive_link"])

	err = d.Inspect(ctx, "https://drive.google.com/file/d/broken/view")
	assert.Equal(t, apperr.KindDataAccess, apperr.KindOf(err))

	assert.NoError(t, d.Inspect(ctx, "not a drive link"), "links without an id are left to pattern validation")
}
