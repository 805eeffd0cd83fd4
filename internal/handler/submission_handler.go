package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/identity"
	"github.com/stemsi/exstem-grader/internal/middleware"
	"github.com/stemsi/exstem-grader/internal/model"
	"github.com/stemsi/exstem-grader/internal/response"
	"github.com/stemsi/exstem-grader/internal/service"
)

// History query values.
const (
	historyTypeAll    = "all"
	historyTypeSingle = "single"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	identities        *identity.Chain
	maxBodyBytes      int64
	log               zerolog.Logger
}

func NewSubmissionHandler(
	submissionService *service.SubmissionService,
	identities *identity.Chain,
	maxBodyBytes int64,
	log zerolog.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		identities:        identities,
		maxBodyBytes:      maxBodyBytes,
		log:               log.With().Str("component", "submission_handler").Logger(),
	}
}

// Handle serves every method of the submission endpoint. The caller is
// identified before the method is dispatched.
// ANY /api/v1/submissions
func (h *SubmissionHandler) Handle(c *gin.Context) {
	method := c.Request.Method
	if method == http.MethodOptions {
		response.Empty(c, http.StatusOK)
		return
	}

	var body []byte
	if method == http.MethodPost {
		b, err := readBody(c, h.maxBodyBytes)
		if errors.Is(err, errBodyTooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrPayloadTooLarge)
			return
		}
		if err != nil {
			response.FailWithError(c, http.StatusBadRequest, response.ErrValidation, "Invalid JSON body", err.Error())
			return
		}
		body = b
	}

	id, err := h.identities.Resolve(&identity.Request{
		Context:    c.Request.Context(),
		Method:     method,
		AuthHeader: c.GetHeader("Authorization"),
		Body:       body,
	})
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized)
		return
	}
	c.Set(middleware.ContextKeyTrust, id.Trust.String())

	switch method {
	case http.MethodGet:
		h.history(c, id)
	case http.MethodPost:
		h.submit(c, id, body)
	default:
		response.Fail(c, http.StatusMethodNotAllowed, response.ErrMethodNotAllowed)
	}
}

// GET ?type=all | ?type=single&exam_id=N
func (h *SubmissionHandler) history(c *gin.Context, id identity.Identity) {
	ctx := c.Request.Context()

	switch c.DefaultQuery("type", historyTypeAll) {
	case historyTypeAll:
		history, err := h.submissionService.ListHistory(ctx, id.UserID)
		if err != nil {
			h.internalError(c, err)
			return
		}
		response.Success(c, http.StatusOK, history)

	case historyTypeSingle:
		detail, err := h.submissionService.GetExam(ctx, id.UserID, c.Query("exam_id"))
		switch {
		case errors.Is(err, service.ErrMissingExamIDParam):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "Missing exam_id parameter for type=single")
		case errors.Is(err, service.ErrInvalidExamIDParam):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "Invalid exam_id format")
		case errors.Is(err, service.ErrExamNotFound):
			response.FailWithMessage(c, http.StatusNotFound, response.ErrNotFound, "Exam not found")
		case err != nil:
			h.internalError(c, err)
		default:
			response.Success(c, http.StatusOK, detail)
		}

	default:
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "Invalid type parameter. Use type=all or type=single")
	}
}

// POST {examData, answers, examStartTime}
func (h *SubmissionHandler) submit(c *gin.Context, id identity.Identity, body []byte) {
	var req model.SubmitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		response.FailWithError(c, http.StatusBadRequest, response.ErrValidation, "Invalid JSON body", err.Error())
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), id.UserID, &req)
	switch {
	case errors.Is(err, service.ErrMissingExamID):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "Missing exam_id (quiz_id) in request body")
	case errors.Is(err, service.ErrInvalidQuizID),
		errors.Is(err, service.ErrInvalidExamData),
		errors.Is(err, service.ErrInvalidAnswers):
		response.FailWithError(c, http.StatusBadRequest, response.ErrValidation, "Invalid submission payload", err.Error())
	case errors.Is(err, service.ErrDuplicateSubmission):
		response.FailWithMessage(c, http.StatusConflict, response.ErrConflict, "Exam already submitted")
	case err != nil:
		h.internalError(c, err)
	default:
		response.Success(c, http.StatusOK, result)
	}
}

func (h *SubmissionHandler) internalError(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("method", c.Request.Method).Msg("Submission request failed")
	response.FailWithError(c, http.StatusInternalServerError, response.ErrInternal,
		"An error occurred during submission.", err.Error())
}
