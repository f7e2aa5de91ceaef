package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pgha-inspect/internal/model"
	"pgha-inspect/internal/report"
	"pgha-inspect/pkg/utils"
)

type ClusterInspector interface {
	Inspect(req *model.InspectRequest) (*model.InspectResponse, error)
}

type InspectHandler struct {
	inspections ClusterInspector
}

func NewInspectHandler(inspections ClusterInspector) *InspectHandler {
	return &InspectHandler{
		inspections: inspections,
	}
}

// Inspect returns the collected node records as JSON.
func (h *InspectHandler) Inspect(c *gin.Context) {
	var req model.InspectRequest
	if !bindInspectRequest(c, &req) {
		return
	}

	resp, err := h.inspections.Inspect(&req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report returns the rendered html or text document.
func (h *InspectHandler) Report(c *gin.Context) {
	var req model.InspectRequest
	if !bindInspectRequest(c, &req) {
		return
	}

	format, err := report.ParseFormat(req.Format)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.inspections.Inspect(&req)
	if err != nil {
		writeError(c, err)
		return
	}

	renderer, err := report.NewRenderer(format, report.WithRunID(resp.RunID))
	if err != nil {
		writeError(c, err)
		return
	}
	data, err := renderer.Bytes(resp.Nodes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("X-Run-Id", resp.RunID)
	c.Data(http.StatusOK, format.ContentType(), data)
}

func bindInspectRequest(c *gin.Context, req *model.InspectRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "Invalid request parameters",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, utils.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, utils.ErrAuth):
		status = http.StatusUnauthorized
	case utils.IsConnectionError(err):
		status = http.StatusBadGateway
	}

	resp := model.ErrorResponse{Success: false, Message: err.Error()}
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Details = appErr.Details
	}
	c.JSON(status, resp)
}
