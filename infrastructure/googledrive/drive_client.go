package googledrive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"photo-triage/domain/services"
	"photo-triage/pkg/config"
	"photo-triage/pkg/logger"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveClient lists images in folders shared by link, authenticated with
// a server API key rather than a user's OAuth grant.
type DriveClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// keyTransport adds the API key to every request and, for older shared
// folders, the X-Goog-Drive-Resource-Keys header.
type keyTransport struct {
	base        http.RoundTripper
	apiKey      string
	folderID    string
	resourceKey string
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	q := req.URL.Query()
	q.Set("key", t.apiKey)
	req.URL.RawQuery = q.Encode()
	if t.resourceKey != "" && t.folderID != "" {
		req.Header.Set("X-Goog-Drive-Resource-Keys", fmt.Sprintf("%s/%s", t.folderID, t.resourceKey))
	}
	return t.base.RoundTrip(req)
}

func NewDriveClient(cfg config.GoogleDriveConfig) *DriveClient {
	return &DriveClient{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *DriveClient) ValidateConfig() error {
	if c.apiKey == "" {
		return fmt.Errorf("GOOGLE_DRIVE_API_KEY is not configured")
	}
	return nil
}

func (c *DriveClient) service(ctx context.Context, folderID, resourceKey string) (*drive.Service, error) {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client := &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &keyTransport{
			base:        base,
			apiKey:      c.apiKey,
			folderID:    folderID,
			resourceKey: resourceKey,
		},
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return srv, nil
}

// ListImages returns the images directly inside folderID, or in its whole
// subtree when recursive is set, in Drive's name order.
func (c *DriveClient) ListImages(ctx context.Context, folderID, resourceKey string, recursive bool) ([]services.DriveFile, error) {
	srv, err := c.service(ctx, folderID, resourceKey)
	if err != nil {
		return nil, err
	}

	folders := []string{folderID}
	var files []services.DriveFile
	for len(folders) > 0 {
		current := folders[0]
		folders = folders[1:]

		images, err := c.listImages(ctx, srv, current)
		if err != nil {
			return nil, err
		}
		files = append(files, images...)

		if recursive {
			sub, err := c.listFolders(ctx, srv, current)
			if err != nil {
				return nil, err
			}
			folders = append(folders, sub...)
		}
	}

	logger.Gallery("drive_list", "Listed shared Drive folder", map[string]interface{}{
		"folder_id": folderID,
		"recursive": recursive,
		"images":    len(files),
	})
	return files, nil
}

func (c *DriveClient) listImages(ctx context.Context, srv *drive.Service, folderID string) ([]services.DriveFile, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false and mimeType contains 'image/'", escapeQuery(folderID))

	var files []services.DriveFile
	pageToken := ""
	for {
		call := srv.Files.List().
			Context(ctx).
			Q(query).
			OrderBy("name").
			Fields("nextPageToken, files(id, name, mimeType, size, thumbnailLink, imageMediaMetadata(width, height))").
			PageSize(100).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		result, err := call.Do()
		if err != nil {
			return nil, wrapDriveError("failed to list images", err)
		}

		for _, f := range result.Files {
			file := services.DriveFile{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				Size:         f.Size,
				ViewURL:      ViewURL(f.Id),
				ThumbnailURL: f.ThumbnailLink,
			}
			if f.ImageMediaMetadata != nil {
				file.Width = int(f.ImageMediaMetadata.Width)
				file.Height = int(f.ImageMediaMetadata.Height)
			}
			files = append(files, file)
		}

		pageToken = result.NextPageToken
		if pageToken == "" {
			return files, nil
		}
	}
}

func (c *DriveClient) listFolders(ctx context.Context, srv *drive.Service, parentID string) ([]string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false and mimeType='%s'", escapeQuery(parentID), folderMimeType)

	var ids []string
	pageToken := ""
	for {
		call := srv.Files.List().
			Context(ctx).
			Q(query).
			OrderBy("name").
			Fields("nextPageToken, files(id)").
			PageSize(100).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		result, err := call.Do()
		if err != nil {
			return nil, wrapDriveError("failed to list folders", err)
		}
		for _, f := range result.Files {
			ids = append(ids, f.Id)
		}

		pageToken = result.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// ViewURL is a direct image link for a file shared by link.
func ViewURL(fileID string) string {
	return "https://drive.google.com/uc?export=view&id=" + fileID
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func wrapDriveError(msg string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusForbidden) {
		return fmt.Errorf("%s: %w", msg, services.ErrDriveFolderAccess)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
