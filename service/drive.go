package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/utils"
)

// LinkInspector checks that an external link is reachable before it is stored.
type LinkInspector interface {
	Inspect(ctx context.Context, link string) error
}

// DriveInspector looks the linked file up with the Drive API. Only files shared
// by link are visible to an API key.
type DriveInspector struct {
	files *drive.FilesService
}

func NewDriveInspector(ctx context.Context, apiKey string, opts ...option.ClientOption) (*DriveInspector, error) {
	svc, err := drive.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &DriveInspector{files: svc.Files}, nil
}

func (d *DriveInspector) Inspect(ctx context.Context, link string) error {
	id := utils.DriveFileID(link)
	if id == "" {
		return nil
	}
	_, err := d.files.Get(id).SupportsAllDrives(true).Fields("id").Context(ctx).Do()
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusForbidden) {
		return apperr.Validation(map[string]string{"drive_link": "not_accessible"})
	}
	return apperr.DataAccess("inspect drive link", err)
}
