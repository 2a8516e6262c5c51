package sdk

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// AttachmentService groups the attachment operations.
type AttachmentService struct {
	service
}

// Upload is a file to attach.
type Upload struct {
	FileName string
	// ContentType defaults to application/octet-stream.
	ContentType string
	Comment     string
	// MinorEdit suppresses watcher notifications.
	MinorEdit bool
	Content   io.Reader
}

func (u *Upload) body() (*multipartBody, error) {
	if u == nil {
		return nil, invalidArgument("upload is required")
	}
	return &multipartBody{
		fileName:    u.FileName,
		contentType: u.ContentType,
		comment:     u.Comment,
		minorEdit:   u.MinorEdit,
		content:     u.Content,
	}, nil
}

// GetAttachments returns the attachments of contentID.
func (s *AttachmentService) GetAttachments(ctx context.Context, contentID string, opts *ListOptions) (*Result[Content], error) {
	if err := requireID("content id", contentID); err != nil {
		return nil, err
	}
	q := url.Values{}
	if err := opts.apply(q); err != nil {
		return nil, err
	}
	var result Result[Content]
	route := "content/{id}/child/attachment"
	if err := s.get(ctx, route, buildPath(route, contentID), q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Attach uploads a new attachment to contentID.
func (s *AttachmentService) Attach(ctx context.Context, contentID string, upload *Upload) (*Result[Content], error) {
	if err := requireID("content id", contentID); err != nil {
		return nil, err
	}
	body, err := upload.body()
	if err != nil {
		return nil, err
	}
	var result Result[Content]
	route := "content/{id}/child/attachment"
	if err := s.send(ctx, http.MethodPost, route, buildPath(route, contentID), nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update changes the properties (title, comment, media type) of an
// attachment. attachment must carry its container and version.
func (s *AttachmentService) Update(ctx context.Context, attachment *Content) (*Content, error) {
	if err := checkAttachment(attachment); err != nil {
		return nil, err
	}
	if attachment.Container == nil || attachment.Container.ID == "" {
		return nil, invalidArgument("attachment %s has no container, expand container when reading it", attachment.ID)
	}
	if attachment.Version == nil {
		return nil, invalidArgument("attachment %s has no version, expand version when reading it", attachment.ID)
	}

	body := *attachment
	body.Version = &Version{Number: attachment.Version.Number + 1, MinorEdit: attachment.Version.MinorEdit}
	body.Links = nil

	var updated Content
	route := "content/{id}/child/attachment/{attachmentId}"
	path := buildPath(route, attachment.Container.ID, attachment.ID)
	if err := s.send(ctx, http.MethodPut, route, path, nil, &body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateData replaces the file of an existing attachment.
func (s *AttachmentService) UpdateData(ctx context.Context, contentID, attachmentID string, upload *Upload) (*Content, error) {
	if err := requireID("content id", contentID); err != nil {
		return nil, err
	}
	if err := requireID("attachment id", attachmentID); err != nil {
		return nil, err
	}
	body, err := upload.body()
	if err != nil {
		return nil, err
	}
	var updated Content
	route := "content/{id}/child/attachment/{attachmentId}/data"
	if err := s.send(ctx, http.MethodPost, route, buildPath(route, contentID, attachmentID), nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete moves an attachment to the trash (204). With purge set the
// trashed attachment is then removed permanently (200).
func (s *AttachmentService) Delete(ctx context.Context, attachmentID string, purge bool) error {
	if err := requireID("attachment id", attachmentID); err != nil {
		return err
	}
	if !strings.HasPrefix(attachmentID, "att") {
		attachmentID = "att" + attachmentID
	}
	path := buildPath("content/{id}", attachmentID)

	if err := s.send(ctx, http.MethodDelete, "content/{id}", path, nil, nil, nil, http.StatusNoContent); err != nil {
		return err
	}
	if !purge {
		return nil
	}
	trashed := url.Values{"status": []string{"trashed"}}
	return s.send(ctx, http.MethodDelete, "content/{id}", path, trashed, nil, nil, http.StatusOK)
}

// Download returns the file of attachment.
func (s *AttachmentService) Download(ctx context.Context, attachment *Content) ([]byte, error) {
	if err := checkAttachment(attachment); err != nil {
		return nil, err
	}
	target, err := s.client.CreateDownloadURI(attachment.Links)
	if err != nil {
		return nil, err
	}
	var data []byte
	if err := s.follow(ctx, "download", target, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func checkAttachment(c *Content) error {
	if c == nil {
		return invalidArgument("attachment is required")
	}
	if c.Type != ContentTypeAttachment {
		return invalidArgument("content %s is a %q, not an attachment", c.ID, c.Type)
	}
	return requireID("attachment id", c.ID)
}
