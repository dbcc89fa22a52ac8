package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"health_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAttachmentUseCase_Stage(t *testing.T) {
	media := new(MockMediaRepository)
	media.On("Put", mock.Anything, mock.Anything, mock.Anything, int64(4), "image/png").
		Return("https://cdn.example.com/chat-media/a/b/photo.png", nil)

	uc := NewAttachmentUseCase(media)
	attachment, err := uc.Stage(context.Background(), domain.MediaFile{
		Name:        "photo.png",
		Size:        4,
		ContentType: "image/png",
		Reader:      strings.NewReader("data"),
	}, "conv-1", "user-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.MediaImage, attachment.Kind)
	assert.Equal(t, "https://cdn.example.com/chat-media/a/b/photo.png", attachment.URL)
	media.AssertExpectations(t)
}

func TestAttachmentUseCase_Stage_SizeLimit(t *testing.T) {
	media := new(MockMediaRepository)
	media.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://cdn.example.com/ok", nil)

	uc := NewAttachmentUseCase(media)

	// a file of exactly the limit passes
	_, err := uc.Stage(context.Background(), domain.MediaFile{
		Name:        "exact.mp4",
		Size:        MaxAttachmentSize,
		ContentType: "video/mp4",
		Reader:      strings.NewReader(""),
	}, "conv-1", "user-1")
	assert.NoError(t, err)

	// one byte over is rejected before any transfer
	_, err = uc.Stage(context.Background(), domain.MediaFile{
		Name:        "big.mp4",
		Size:        MaxAttachmentSize + 1,
		ContentType: "video/mp4",
		Reader:      strings.NewReader(""),
	}, "conv-1", "user-1")
	assert.ErrorIs(t, err, domain.ErrTooLarge)

	media.AssertNumberOfCalls(t, "Put", 1)
}

func TestAttachmentUseCase_Stage_UnsupportedType(t *testing.T) {
	media := new(MockMediaRepository)

	uc := NewAttachmentUseCase(media)
	_, err := uc.Stage(context.Background(), domain.MediaFile{
		Name:        "report.pdf",
		Size:        100,
		ContentType: "application/pdf",
		Reader:      strings.NewReader("x"),
	}, "conv-1", "user-1")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	media.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachmentUseCase_Stage_StorageFailure(t *testing.T) {
	media := new(MockMediaRepository)
	media.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection refused"))

	uc := NewAttachmentUseCase(media)
	_, err := uc.Stage(context.Background(), domain.MediaFile{
		Name:        "photo.jpg",
		Size:        9,
		ContentType: "image/jpeg",
		Reader:      strings.NewReader("jpegbytes"),
	}, "conv-1", "user-1")

	var transportErr *domain.TransportError
	assert.ErrorAs(t, err, &transportErr)
}
