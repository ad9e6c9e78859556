package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rpgroster/errx"
	"rpgroster/middleware"
)

var statusByCode = map[errx.Code]int{
	errx.CodeBadRequest:   http.StatusBadRequest,
	errx.CodeInvalidField: http.StatusBadRequest,
	errx.CodeNotFound:     http.StatusNotFound,
	errx.CodeUnavailable:  http.StatusServiceUnavailable,
	errx.CodeInternal:     http.StatusInternalServerError,
}

// StatusFor maps err to an HTTP status. Errors outside errx are internal.
func StatusFor(err error) int {
	if e, ok := errx.As(err); ok {
		if status, ok := statusByCode[e.Code()]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err once and writes the JSON error body.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	status := StatusFor(err)
	body := gin.H{}

	e, ok := errx.As(err)
	switch {
	case !ok:
		body["code"] = errx.CodeInternal
		body["error"] = errx.ErrInternal.Msg()
	case status >= http.StatusInternalServerError:
		// causes of server-side failures stay in the log
		body["code"] = e.Code()
		body["error"] = http.StatusText(status)
	default:
		body["code"] = e.Code()
		body["error"] = e.Msg()
		data := e.Data()
		if field, ok := data["field"]; ok {
			body["field"] = field
		}
		if reason, ok := data["reason"]; ok {
			body["reason"] = reason
		}
	}

	fields := []zap.Field{
		zap.String("request_id", middleware.RequestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", fields...)
	} else {
		log.Info("request rejected", fields...)
	}

	c.AbortWithStatusJSON(status, body)
}
