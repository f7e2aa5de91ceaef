package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pgha-inspect/internal/model"
)

type ConnectionTester interface {
	TestConnection(req *model.SSHTestRequest) *model.SSHTestResponse
}

type SSHHandler struct {
	sshService ConnectionTester
}

func NewSSHHandler(sshService ConnectionTester) *SSHHandler {
	return &SSHHandler{
		sshService: sshService,
	}
}

func (h *SSHHandler) TestConnection(c *gin.Context) {
	var req model.SSHTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "Invalid request parameters",
			Details: err.Error(),
		})
		return
	}

	result := h.sshService.TestConnection(&req)
	c.JSON(http.StatusOK, result)
}
