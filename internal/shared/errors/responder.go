package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder writes Problem Details responses.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
}

// NewResponder creates a responder; an empty baseURI keeps problem types relative.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// Respond writes problem with the problem+json content type. A zero status becomes 500
// and a missing instance is filled with the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Status == 0 {
		problem.Status = http.StatusInternalServerError
	}
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError writes err when it already is a ProblemDetail. Anything else becomes a
// generic 500 so internal error text never reaches the client.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(http.StatusText(http.StatusInternalServerError)))
}

// BadRequest writes a 400 for payloads that could not be decoded.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// TooManyRequests writes a 429; callers set Retry-After themselves.
func (r *Responder) TooManyRequests(c *gin.Context, detail string) {
	r.Respond(c, ErrTooManyRequests.WithDetail(detail))
}

// ServiceUnavailable writes a 503 for collaborators that are not wired.
func (r *Responder) ServiceUnavailable(c *gin.Context, detail string) {
	r.Respond(c, ErrServiceUnavailable.WithDetail(detail))
}

// ErrorMapper maps an application error to a ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder asks each mapper in order before the generic fallback.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with the given error mappers.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   mappers,
	}
}

// RespondError uses the first mapper that recognises err.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}
