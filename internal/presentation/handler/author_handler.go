package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogd/internal/application/usecase"
	"blogd/internal/application/usecase/abstraction"
	"blogd/internal/domain/dto"
	"blogd/internal/presentation"
)

type AuthorHandler struct {
	authors abstraction.Authors
}

func NewAuthorHandler(authors abstraction.Authors) *AuthorHandler {
	return &AuthorHandler{
		authors: authors,
	}
}

// Register mounts the author routes on g.
func (h *AuthorHandler) Register(g *echo.Group) {
	g.GET("", h.HandleList)
	g.GET("/download/CSV", h.HandleDownload)
	g.GET("/:"+presentation.IDParam, h.HandleGet)
	g.POST("", h.HandleCreate)
	g.PUT("/:"+presentation.IDParam, h.HandleUpdate)
	g.DELETE("/:"+presentation.IDParam, h.HandleDelete)
	g.POST("/:"+presentation.IDParam+"/uploadAvatar", h.HandleUploadAvatar)
}

// HandleList handles GET /authors?name=.
func (h *AuthorHandler) HandleList(c echo.Context) error {
	authors, err := h.authors.List(c.Request().Context(), c.QueryParam(presentation.NameQuery))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authors)
}

func (h *AuthorHandler) HandleGet(c echo.Context) error {
	author, err := h.authors.Get(c.Request().Context(), c.Param(presentation.IDParam))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHandler) HandleCreate(c echo.Context) error {
	var in dto.AuthorInput
	if err := bindValid(c, &in); err != nil {
		return err
	}

	author, err := h.authors.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, author)
}

func (h *AuthorHandler) HandleUpdate(c echo.Context) error {
	var patch dto.AuthorPatch
	if err := bindValid(c, &patch); err != nil {
		return err
	}

	author, err := h.authors.Update(c.Request().Context(), c.Param(presentation.IDParam), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHandler) HandleDelete(c echo.Context) error {
	if err := h.authors.Delete(c.Request().Context(), c.Param(presentation.IDParam)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleUploadAvatar handles multipart POST /authors/:id/uploadAvatar.
func (h *AuthorHandler) HandleUploadAvatar(c echo.Context) error {
	file, size, err := formImage(c, presentation.AvatarField)
	if err != nil {
		return err
	}
	defer file.Close()

	author, err := h.authors.AttachAvatar(c.Request().Context(), c.Param(presentation.IDParam), file, size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHandler) HandleDownload(c echo.Context) error {
	return writeCSV(c, "Authors.csv", usecase.AuthorColumns, h.authors.ExportRows(c.Request().Context()))
}
