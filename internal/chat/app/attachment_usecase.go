package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"health_chat_service/internal/chat/domain"
	"health_chat_service/internal/chat/repository"
)

// MaxAttachmentSize upload limit, 50 MiB. A file of exactly this size passes.
const MaxAttachmentSize = 50 << 20

// AttachmentUseCase validate and stage media before a message may reference it
type AttachmentUseCase struct {
	media repository.MediaRepository
}

// NewAttachmentUseCase init attachment use case
func NewAttachmentUseCase(media repository.MediaRepository) *AttachmentUseCase {
	return &AttachmentUseCase{media: media}
}

// Stage validate the file and store it, returning the attachment a draft can
// carry. Validation happens before any byte is transferred; a rejected file
// never reaches the object store.
func (uc *AttachmentUseCase) Stage(ctx context.Context, file domain.MediaFile, conversationID, authorID string) (*domain.Attachment, error) {
	if file.Size > MaxAttachmentSize {
		return nil, domain.ErrTooLarge
	}

	kind, err := mediaKindOf(file.ContentType)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s/%s/%d_%s", authorID, conversationID, time.Now().UnixMilli(), file.Name)
	url, err := uc.media.Put(ctx, objectName, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, domain.NewTransportError("stage attachment", err)
	}

	return &domain.Attachment{URL: url, Kind: kind}, nil
}

// mediaKindOf derive the media kind from the declared content type prefix;
// file contents are never sniffed
func mediaKindOf(contentType string) (domain.MediaKind, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.MediaImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return domain.MediaVideo, nil
	default:
		return "", domain.ErrUnsupportedType
	}
}
