package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/certify-api/internal/dto"
	"github.com/noah-isme/certify-api/internal/service"
	appErrors "github.com/noah-isme/certify-api/pkg/errors"
)

// ImportHandler exposes the bulk certificate import endpoint.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// malformedEnvelope is returned when the request body is not the expected
// {"certificates": [...]} shape. It includes an example payload so callers
// can self-correct.
func malformedEnvelope(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
		"example": dto.ExampleCertificatePayload,
	})
}

// Bulk godoc
// @Summary Bulk import certificates
// @Tags Certificates
// @Accept json
// @Produce json
// @Param payload body dto.BulkImportRequest true "Certificates to import"
// @Success 201 {object} dto.BulkImportResponse
// @Success 207 {object} dto.BulkImportResponse
// @Failure 400 {object} dto.BulkImportResponse
// @Router /certificates/bulk [post]
func (h *ImportHandler) Bulk(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		malformedEnvelope(c, "Invalid request body. Expected a JSON object with a 'certificates' array.")
		return
	}

	rawList, ok := body["certificates"]
	if !ok {
		malformedEnvelope(c, "Missing 'certificates' field. Expected a JSON object with a 'certificates' array.")
		return
	}
	items, ok := rawList.([]interface{})
	if !ok {
		malformedEnvelope(c, "'certificates' must be an array of certificate objects.")
		return
	}
	if len(items) == 0 {
		malformedEnvelope(c, "'certificates' must not be empty.")
		return
	}

	rows := make([]map[string]interface{}, len(items))
	for i, item := range items {
		if row, ok := item.(map[string]interface{}); ok {
			rows[i] = row
		} else {
			// non-object rows flow through the pipeline and fail validation
			rows[i] = map[string]interface{}{}
		}
	}

	report, err := h.imports.Import(c.Request.Context(), dto.BulkImportRequest{Certificates: rows})
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrBatchTooLarge.Code {
			malformedEnvelope(c, appErr.Message)
			return
		}
		c.JSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
		return
	}

	status := http.StatusMultiStatus
	switch {
	case report.AllFailed():
		status = http.StatusBadRequest
	case report.Clean():
		status = http.StatusCreated
	}
	c.JSON(status, report.Response())
}
