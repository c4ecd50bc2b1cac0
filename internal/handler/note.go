package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-task-tracker/internal/logging"
	"github.com/iliyamo/employee-task-tracker/internal/model"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
)

// NoteHandler implements the personal notes endpoints. Notes are readable by
// every authenticated user; only the author updates, and the author or a
// manager/admin deletes. Bare resource JSON with Turkish error strings, as
// in the original API.
type NoteHandler struct {
	Notes *repository.NoteRepo
}

func NewNoteHandler(notes *repository.NoteRepo) *NoteHandler {
	if notes == nil {
		panic("nil repository passed to NewNoteHandler")
	}
	return &NoteHandler{Notes: notes}
}

type noteReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r *noteReq) validate() fieldErrors {
	errs := fieldErrors{}
	if errs.checkRequired("title", r.Title) {
		errs.checkMax("title", r.Title, 255)
	}
	if errs.checkRequired("content", r.Content) {
		errs.checkMax("content", r.Content, 5000)
	}
	return errs
}

// List handles GET /api/notes: every note newest-first.
func (h *NoteHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notes, err := h.Notes.ListAll(ctx)
	if err != nil {
		logging.Logger.WithError(err).Error("list notes failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Notlar yüklenirken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, notes)
}

// Create handles POST /api/notes.
func (h *NoteHandler) Create(c echo.Context) error {
	user, _ := currentUser(c)

	var req noteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Geçersiz veri."})
	}
	req.Title = strings.TrimSpace(req.Title)
	if errs := req.validate(); errs.any() {
		return invalidData(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	note, err := h.Notes.Create(ctx, user.ID, req.Title, req.Content)
	if err != nil {
		logging.Logger.WithError(err).Error("create note failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Not oluşturulurken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusCreated, note)
}

// Get handles GET /api/notes/:id: readable by any authenticated user.
func (h *NoteHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Not bulunamadı."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	note, err := h.Notes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Not bulunamadı."})
		}
		logging.Logger.WithError(err).Error("get note failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Not yüklenirken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, note)
}

// Update handles PUT /api/notes/:id: author only.
func (h *NoteHandler) Update(c echo.Context) error {
	user, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Not bulunamadı."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	note, err := h.Notes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Not bulunamadı."})
		}
		logging.Logger.WithError(err).Error("update note: lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Not güncellenirken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	if note.UserID != user.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Bu notu güncelleme yetkiniz yok."})
	}

	var req noteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Geçersiz veri."})
	}
	req.Title = strings.TrimSpace(req.Title)
	if errs := req.validate(); errs.any() {
		return invalidData(c, errs)
	}

	note, err = h.Notes.Update(ctx, id, req.Title, req.Content)
	if err != nil {
		logging.Logger.WithError(err).Error("update note failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Not güncellenirken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, note)
}

// Delete handles DELETE /api/notes/:id: author, manager or admin.
func (h *NoteHandler) Delete(c echo.Context) error {
	user, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Not bulunamadı."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	note, err := h.Notes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Not bulunamadı."})
		}
		logging.Logger.WithError(err).Error("delete note: lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Not silinirken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	if note.UserID != user.ID && user.Role != model.RoleManager && user.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Bu notu silme yetkiniz yok."})
	}

	if err := h.Notes.Delete(ctx, id); err != nil {
		logging.Logger.WithError(err).Error("delete note failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Not silinirken bir hata oluştu.",
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Not başarıyla silindi."})
}
