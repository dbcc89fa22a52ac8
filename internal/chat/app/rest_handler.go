package app

import (
	"errors"

	"health_chat_service/internal/chat/domain"
	"health_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RestHandler owns the chat service http endpoints
type RestHandler struct {
	messageUC    *MessageUseCase
	attachmentUC *AttachmentUseCase
}

// NewRestHandler create a rest handler
func NewRestHandler(messageUC *MessageUseCase, attachmentUC *AttachmentUseCase) *RestHandler {
	return &RestHandler{messageUC: messageUC, attachmentUC: attachmentUC}
}

// StageMedia upload one attachment and return its stable url.
// The client passes the url back through send_message on the socket.
func (h *RestHandler) StageMedia(c *fiber.Ctx) error {
	userID := c.Locals(middlewares.TokenUserID).(string)
	conversationID := c.Params("conversation_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	defer f.Close()

	attachment, err := h.attachmentUC.Stage(c.Context(), domain.MediaFile{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      f,
	}, conversationID, userID)
	if err != nil {
		return restError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url":  attachment.URL,
		"kind": attachment.Kind,
	})
}

// SendAttachment upload an attachment and append the message in one request,
// for clients without an open socket
func (h *RestHandler) SendAttachment(c *fiber.Ctx) error {
	userID := c.Locals(middlewares.TokenUserID).(string)
	conversationID := c.Params("conversation_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	defer f.Close()

	attachment, err := h.attachmentUC.Stage(c.Context(), domain.MediaFile{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      f,
	}, conversationID, userID)
	if err != nil {
		return restError(c, err)
	}

	msg, err := h.messageUC.Append(c.Context(), domain.MessageDraft{
		ConversationID: conversationID,
		AuthorID:       userID,
		Body:           c.FormValue("content"),
		Attachment:     attachment,
		Flagged:        c.FormValue("flagged") == "true",
	})
	if err != nil {
		return restError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

// History list a conversation's messages in order
func (h *RestHandler) History(c *fiber.Ctx) error {
	userID := c.Locals(middlewares.TokenUserID).(string)
	conversationID := c.Params("conversation_id")

	messages, err := h.messageUC.ListMessages(c.Context(), conversationID, userID)
	if err != nil {
		return restError(c, err)
	}
	return c.JSON(fiber.Map{
		"conversation_id": conversationID,
		"messages":        messages,
	})
}

// Participants list a conversation's roster with profile snapshots
func (h *RestHandler) Participants(c *fiber.Ctx) error {
	userID := c.Locals(middlewares.TokenUserID).(string)
	conversationID := c.Params("conversation_id")

	participants, err := h.messageUC.Participants(c.Context(), conversationID, userID)
	if err != nil {
		return restError(c, err)
	}
	return c.JSON(fiber.Map{
		"conversation_id": conversationID,
		"participants":    participants,
	})
}

// Unread report how many messages arrived after the caller's read marker
func (h *RestHandler) Unread(c *fiber.Ctx) error {
	userID := c.Locals(middlewares.TokenUserID).(string)
	conversationID := c.Params("conversation_id")

	count, err := h.messageUC.UnreadCount(c.Context(), userID, conversationID)
	if err != nil {
		return restError(c, err)
	}
	return c.JSON(fiber.Map{
		"conversation_id": conversationID,
		"unread_count":    count,
	})
}

func restError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conversation not found"})
	case errors.Is(err, domain.ErrAuthorization):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not allowed"})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid message"})
	case errors.Is(err, domain.ErrTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "attachment too large"})
	case errors.Is(err, domain.ErrUnsupportedType):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": "unsupported attachment type"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
