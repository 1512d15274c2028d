package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/wgomg/wordcloud/internal/mapper"
	"github.com/wgomg/wordcloud/internal/render"
	"github.com/wgomg/wordcloud/internal/session"
	"github.com/wgomg/wordcloud/internal/utils/httputils"
)

// toHTTPError maps pipeline errors onto status codes. Unknown errors pass
// through and end up as a 500.
func toHTTPError(err error) error {
	var httpErr *httputils.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return err
	case mapper.IsInvalidConfiguration(err):
		return httputils.NewHTTPError(http.StatusBadRequest, err.Error(), err)
	case mapper.IsEmptyWorkingSet(err):
		return httputils.NewHTTPError(http.StatusUnprocessableEntity, "Nothing to render: no words left after filtering", err)
	case errors.Is(err, session.ErrNotFound):
		return httputils.NewHTTPError(http.StatusNotFound, "Session not found", err)
	case errors.Is(err, render.ErrUnsupportedFormat):
		return httputils.NewHTTPError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, render.ErrExport):
		return httputils.NewHTTPError(http.StatusInternalServerError, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return httputils.NewHTTPError(http.StatusServiceUnavailable, "Layout timed out", err)
	}
	return err
}
