package reviewing

import (
	"context"
	"fmt"

	"discovery/internal/domain/reviews"
	"discovery/internal/media"

	"go.uber.org/zap"
)

// Attacher stores review photos. *media.Handler implements it.
type Attacher interface {
	Attach(ctx context.Context, u media.Upload) (string, error)
	Discard(ctx context.Context, address string) error
}

type SubmitInput struct {
	Target      reviews.Target
	Author      Author
	Rating      int
	Comment     string
	IsAnonymous bool
	// Photo is nil when the client did not attach one.
	Photo *media.Upload
}

// Submitter runs the full submission: validate, upload the photo, create the
// review. A declared photo that fails to upload means no review is created.
type Submitter struct {
	manager  *Manager
	attacher Attacher
	logger   *zap.SugaredLogger
}

func NewSubmitter(manager *Manager, attacher Attacher, logger *zap.SugaredLogger) *Submitter {
	return &Submitter{manager: manager, attacher: attacher, logger: logger}
}

func (s *Submitter) Submit(ctx context.Context, in SubmitInput) (*reviews.Review, error) {
	create := CreateInput{
		Target:      in.Target,
		Author:      in.Author,
		Rating:      in.Rating,
		Comment:     in.Comment,
		IsAnonymous: in.IsAnonymous,
	}
	if err := ValidateInput(create); err != nil {
		return nil, err
	}

	if in.Photo != nil {
		photo := *in.Photo
		if photo.ScopeKey == "" {
			photo.ScopeKey = fmt.Sprintf("%s_%d", in.Target.Kind, in.Target.ID)
		}
		url, err := s.attacher.Attach(ctx, photo)
		if err != nil {
			return nil, err
		}
		create.PhotoURL = &url
	}

	review, err := s.manager.Create(ctx, create)
	if err != nil {
		if create.PhotoURL != nil {
			if derr := s.attacher.Discard(context.WithoutCancel(ctx), *create.PhotoURL); derr != nil {
				s.logger.Warnw("orphaned review photo", "photo_url", *create.PhotoURL, "error", derr.Error())
			}
		}
		return nil, err
	}
	return review, nil
}
