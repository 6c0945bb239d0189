package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripcrew/internal/pipeline"
	"tripcrew/internal/planner"
)

const TraceIDKey = "trace_id"

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
	})
}

// RespondErrorWithData is RespondError with a payload, used when the client
// can act on the details (e.g. which interests were not covered).
func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Data:    data,
	})
}

// HandleServiceError maps service errors to HTTP responses. Unexpected
// errors are logged with the trace id and hidden from the client.
func HandleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var stageErr *pipeline.StageError
	var coverageErr *pipeline.CoverageError

	switch {
	case errors.Is(err, planner.ErrInvalidTimeWindow):
		RespondError(c, http.StatusBadRequest, "start_time must be before end_time (HH:MM)")
	case errors.Is(err, planner.ErrInvalidDateRange):
		RespondError(c, http.StatusBadRequest, "Invalid date range: dates must be YYYY-MM-DD and end_date not before start_date")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		RespondError(c, http.StatusGatewayTimeout, "Itinerary generation timed out")
	case errors.As(err, &stageErr):
		logger.Warn("pipeline stage failed",
			zap.String(TraceIDKey, c.GetString(TraceIDKey)),
			zap.String("stage", stageErr.Stage),
			zap.Error(stageErr.Err))
		RespondErrorWithData(c, http.StatusBadGateway,
			fmt.Sprintf("Itinerary generation failed at stage %q", stageErr.Stage),
			gin.H{"stage": stageErr.Stage})
	case errors.As(err, &coverageErr):
		RespondErrorWithData(c, http.StatusUnprocessableEntity,
			"No recommendation found for: "+strings.Join(coverageErr.Missing, ", "),
			gin.H{"coverage_gaps": coverageErr.Missing})
	case errors.Is(err, pipeline.ErrInvalidPipelineConfig):
		logger.Error("invalid pipeline configuration",
			zap.String(TraceIDKey, c.GetString(TraceIDKey)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("unhandled service error",
			zap.String(TraceIDKey, c.GetString(TraceIDKey)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
