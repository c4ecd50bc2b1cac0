package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-task-tracker/internal/logging"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
)

// ChatHandler implements the team chat endpoints. Unlike the auth and task
// endpoints these return bare resource JSON, and their error strings are
// Turkish, both inherited from the original API which the mobile client
// displays verbatim. The 500 bodies leak the underlying error detail in an
// `error` field; the original did the same and the client depends on the
// message key only.
type ChatHandler struct {
	Chats *repository.ChatRepo
}

func NewChatHandler(chats *repository.ChatRepo) *ChatHandler {
	if chats == nil {
		panic("nil repository passed to NewChatHandler")
	}
	return &ChatHandler{Chats: chats}
}

type createChatReq struct {
	Message string `json:"message"`
}

// List handles GET /api/chats: every message oldest-first with its author.
func (h *ChatHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	chats, err := h.Chats.ListAll(ctx)
	if err != nil {
		logging.Logger.WithError(err).Error("list chats failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Mesajlar alınırken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, chats)
}

// Create handles POST /api/chats: author is the current user.
func (h *ChatHandler) Create(c echo.Context) error {
	user, _ := currentUser(c)

	var req createChatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Geçersiz veri."})
	}
	req.Message = strings.TrimSpace(req.Message)

	errs := fieldErrors{}
	if errs.checkRequired("message", req.Message) {
		errs.checkMax("message", req.Message, 1000)
	}
	if errs.any() {
		return invalidData(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	chat, err := h.Chats.Create(ctx, user.ID, req.Message)
	if err != nil {
		logging.Logger.WithError(err).Error("create chat failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Mesaj gönderilirken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusCreated, chat)
}

// Delete handles DELETE /api/chats/:id: only the author may delete.
func (h *ChatHandler) Delete(c echo.Context) error {
	user, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Mesaj bulunamadı."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Chats.Delete(ctx, id, user.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Mesaj bulunamadı."})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Bu mesajı silme yetkiniz yok."})
		default:
			logging.Logger.WithError(err).Error("delete chat failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Mesaj silinirken bir hata oluştu.",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Mesaj başarıyla silindi."})
}
