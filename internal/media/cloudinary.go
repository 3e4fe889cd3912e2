package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cloudinaryURL string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

// Put uploads the file using the object path as its public ID.
func (s *CloudinaryStorage) Put(ctx context.Context, objectPath string, body io.Reader, _ string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:  objectPath,
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, address string) error {
	publicID, err := publicIDFromURL(address)
	if err != nil {
		return fmt.Errorf("failed to extract public ID: %w", err)
	}

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete photo from Cloudinary: %w", err)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// publicIDFromURL turns
// https://res.cloudinary.com/demo/image/upload/v1712/reviews/place_1/17_ab.jpg
// into reviews/place_1/17_ab.
func publicIDFromURL(photoURL string) (string, error) {
	parsedURL, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	pathParts := strings.Split(parsedURL.Path, "/")
	for i, part := range pathParts {
		if part != "upload" || i+1 >= len(pathParts) {
			continue
		}
		rest := pathParts[i+1:]
		if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
			rest = rest[1:]
		}
		id := strings.Join(rest, "/")
		id = strings.TrimSuffix(id, path.Ext(id))
		if id == "" {
			break
		}
		return id, nil
	}

	return "", errors.New("failed to extract public ID from URL")
}
