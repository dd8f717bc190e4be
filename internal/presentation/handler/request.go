package handler

import (
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/labstack/echo/v4"

	"blogd/internal/domain/apperr"
	"blogd/pkg/csvexport"
	"blogd/pkg/logger"
)

// bindValid decodes the request body into dst and validates it.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}

	return c.Validate(dst)
}

// formImage opens the multipart file sent under field.
func formImage(c echo.Context, field string) (io.ReadCloser, int64, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, 0, apperr.Validation(apperr.Check{Field: field, Message: field + " file is required"})
	}

	file, err := header.Open()
	if err != nil {
		return nil, 0, apperr.Upload(err, "open %s", field)
	}

	return file, header.Size, nil
}

// writeCSV streams rows as an attachment. Nothing is committed until the first
// row is available, so an early failure still becomes an error response. A
// failure after that aborts the connection, leaving the client with a
// visibly broken download instead of a short file.
func writeCSV(c echo.Context, filename string, header []string, rows iter.Seq2[[]string, error]) error {
	peeked, err := csvexport.Peek(rows)
	if err != nil {
		return err
	}
	defer peeked.Close()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv")
	resp.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	resp.WriteHeader(http.StatusOK)

	n, err := peeked.Write(resp, header)
	if err != nil {
		logger.Error("csv export aborted", "file", filename, "rows", n, "err", err)
		panic(http.ErrAbortHandler)
	}

	logger.Debug("csv export finished", "file", filename, "rows", n)

	return nil
}
