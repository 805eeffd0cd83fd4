package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/model"
	"github.com/stemsi/exstem-grader/internal/response"
	"github.com/stemsi/exstem-grader/internal/service"
	"github.com/stemsi/exstem-grader/internal/validator"
)

type IngestionHandler struct {
	ingestionService *service.IngestionService
	maxBodyBytes     int64
	log              zerolog.Logger
}

func NewIngestionHandler(ingestionService *service.IngestionService, maxBodyBytes int64, log zerolog.Logger) *IngestionHandler {
	return &IngestionHandler{
		ingestionService: ingestionService,
		maxBodyBytes:     maxBodyBytes,
		log:              log.With().Str("component", "ingestion_handler").Logger(),
	}
}

// Handle serves every method of the ingestion endpoint.
// ANY /api/v1/questions/ingest
func (h *IngestionHandler) Handle(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		response.Empty(c, http.StatusOK)
	case http.MethodPost:
		h.ingest(c)
	default:
		response.Fail(c, http.StatusMethodNotAllowed, response.ErrMethodNotAllowed)
	}
}

// POST {"file": "<base64 pdf>"}
func (h *IngestionHandler) ingest(c *gin.Context) {
	body, err := readBody(c, h.maxBodyBytes)
	if errors.Is(err, errBodyTooLarge) {
		msg := response.GetMessage(response.ErrPayloadTooLarge)
		response.FailWithError(c, http.StatusRequestEntityTooLarge, response.ErrPayloadTooLarge, msg, msg)
		return
	}
	if err == nil && len(bytes.TrimSpace(body)) == 0 {
		err = errors.New("empty body")
	}
	if err != nil {
		fail(c, http.StatusBadRequest, response.ErrValidation, "No body received", "")
		return
	}

	var req model.IngestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		fail(c, http.StatusBadRequest, response.ErrValidation, "Invalid JSON body", err.Error())
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		c.JSON(http.StatusBadRequest, response.ErrorBody{
			Code:    response.ErrValidation,
			Message: missingFile,
			Error:   missingFile + ": " + validator.FirstError(fields, "file"),
			Fields:  fields,
		})
		return
	}

	pdf, err := decodeDocument(*req.File)
	if err != nil {
		fail(c, http.StatusBadRequest, response.ErrValidation, "Invalid base64 PDF", err.Error())
		return
	}

	result, err := h.ingestionService.Ingest(c.Request.Context(), pdf)
	if err != nil {
		h.log.Error().Err(err).Int("pdf_bytes", len(pdf)).Msg("Ingestion failed")
	}
	switch {
	case errors.Is(err, service.ErrSaveDocument):
		fail(c, http.StatusInternalServerError, response.ErrInternal, "Failed to save PDF", "")
	case errors.Is(err, service.ErrNoQuestionsExtracted):
		fail(c, http.StatusInternalServerError, response.ErrUpstream, "No questions extracted from PDF", "")
	case errors.Is(err, service.ErrExtractionFailed):
		fail(c, http.StatusInternalServerError, response.ErrUpstream, "Extraction failed", strings.TrimPrefix(err.Error(), service.ErrExtractionFailed.Error()+": "))
	case errors.Is(err, service.ErrUploadFailed):
		fail(c, http.StatusInternalServerError, response.ErrUpstream, "Question upload failed", "")
	case err != nil:
		fail(c, http.StatusInternalServerError, response.ErrInternal, "Internal error", "")
	default:
		response.Success(c, http.StatusOK, result)
	}
}

const missingFile = "Missing 'file' field in body"

// fail writes an ingestion error. The "error" field repeats message, followed
// by detail when there is one.
func fail(c *gin.Context, status int, code response.ErrCode, message, detail string) {
	errText := message
	if detail != "" {
		errText = message + ": " + detail
	}
	response.FailWithError(c, status, code, message, errText)
}

// decodeDocument decodes standard base64, ignoring line breaks and spaces.
func decodeDocument(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', ' ':
			return -1
		}
		return r
	}, encoded)
	return base64.StdEncoding.DecodeString(cleaned)
}
