package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var driveFilePath = regexp.MustCompile(`^/(?:file/d|drive/folders)/([A-Za-z0-9_-]+)`)

// DriveFileID extracts the file or folder id from a Google Drive link.
// Returns "" when the link is not a Drive link or carries no id.
func DriveFileID(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host != "drive.google.com" {
		return ""
	}
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	if u.Path == "/open" || u.Path == "/uc" {
		return u.Query().Get("id")
	}
	return ""
}

// IsDriveFolder reports whether link points at a folder rather than a file.
func IsDriveFolder(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	return err == nil && u.Host == "drive.google.com" && strings.HasPrefix(u.Path, "/drive/folders/")
}

// DriveDownloadURL returns the direct download URL for a Drive file link, or
// "" for folders and non-Drive links.
func DriveDownloadURL(link string) string {
	if IsDriveFolder(link) {
		return ""
	}
	id := DriveFileID(link)
	if id == "" {
		return ""
	}
	q := url.Values{}
	q.Set("export", "download")
	q.Set("id", id)
	return "https://drive.google.com/uc?" + q.Encode()
}
