package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogd/internal/application/usecase"
	"blogd/internal/application/usecase/abstraction"
	"blogd/internal/domain/dto"
	"blogd/internal/presentation"
)

type BlogPostHandler struct {
	posts abstraction.BlogPosts
}

func NewBlogPostHandler(posts abstraction.BlogPosts) *BlogPostHandler {
	return &BlogPostHandler{
		posts: posts,
	}
}

// Register mounts the blog post routes on g.
func (h *BlogPostHandler) Register(g *echo.Group) {
	g.GET("", h.HandleList)
	g.GET("/download/CSV", h.HandleDownload)
	g.GET("/:"+presentation.IDParam, h.HandleGet)
	g.POST("", h.HandleCreate)
	g.PUT("/:"+presentation.IDParam, h.HandleUpdate)
	g.DELETE("/:"+presentation.IDParam, h.HandleDelete)
	g.POST("/:"+presentation.IDParam+"/uploadCover", h.HandleUploadCover)
}

// HandleList handles GET /blogPosts?title= (name= is accepted too).
func (h *BlogPostHandler) HandleList(c echo.Context) error {
	title := c.QueryParam(presentation.TitleQuery)
	if title == "" {
		title = c.QueryParam(presentation.NameQuery)
	}

	posts, err := h.posts.List(c.Request().Context(), title)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, posts)
}

func (h *BlogPostHandler) HandleGet(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param(presentation.IDParam))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

// HandleCreate stores the post and reports the notification outcome in the
// X-Notification-Status header.
func (h *BlogPostHandler) HandleCreate(c echo.Context) error {
	var in dto.BlogPostInput
	if err := bindValid(c, &in); err != nil {
		return err
	}

	post, receipt, err := h.posts.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}

	c.Response().Header().Set(presentation.NotificationStatusTag, string(receipt.Status))

	return c.JSON(http.StatusCreated, post)
}

func (h *BlogPostHandler) HandleUpdate(c echo.Context) error {
	var patch dto.BlogPostPatch
	if err := bindValid(c, &patch); err != nil {
		return err
	}

	post, err := h.posts.Update(c.Request().Context(), c.Param(presentation.IDParam), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

func (h *BlogPostHandler) HandleDelete(c echo.Context) error {
	if err := h.posts.Delete(c.Request().Context(), c.Param(presentation.IDParam)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleUploadCover handles multipart POST /blogPosts/:id/uploadCover.
func (h *BlogPostHandler) HandleUploadCover(c echo.Context) error {
	file, size, err := formImage(c, presentation.CoverField)
	if err != nil {
		return err
	}
	defer file.Close()

	post, err := h.posts.AttachCover(c.Request().Context(), c.Param(presentation.IDParam), file, size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

func (h *BlogPostHandler) HandleDownload(c echo.Context) error {
	return writeCSV(c, "BlogPosts.csv", usecase.BlogPostColumns, h.posts.ExportRows(c.Request().Context()))
}
