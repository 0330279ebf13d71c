package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
)

// timestampLayout is ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Meta accompanies every response.
type Meta struct {
	Timestamp string `json:"timestamp"`
	PollCycle uint64 `json:"pollCycle"`
}

// Envelope wraps successful responses.
type Envelope[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps failed responses.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
	Meta  Meta      `json:"meta"`
}

func (s *Server) meta(cycle uint64) Meta {
	return Meta{
		Timestamp: formatTimestamp(s.now()),
		PollCycle: cycle,
	}
}

func respond[T any](s *Server, c *gin.Context, cycle uint64, data T) {
	c.JSON(http.StatusOK, Envelope[T]{Data: data, Meta: s.meta(cycle)})
}

func (s *Server) fail(c *gin.Context, cycle uint64, err *clierr.Error) {
	c.AbortWithStatusJSON(err.HTTPStatus(), ErrorEnvelope{
		Error: ErrorBody{Code: err.Code, Message: err.Message},
		Meta:  s.meta(cycle),
	})
}

func (s *Server) recover(c *gin.Context, recovered any) {
	s.logger.Error("handler panic", "path", c.Request.URL.Path, "panic", recovered)
	s.fail(c, s.engine.Cycle(), clierr.New(clierr.InternalError, "An unexpected error occurred."))
}

func (s *Server) handleNotFound(c *gin.Context) {
	s.fail(c, s.engine.Cycle(), clierr.Newf(clierr.NotFound, "No route for %s %s.", c.Request.Method, c.Request.URL.Path))
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
