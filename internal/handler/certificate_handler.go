package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/certify-api/internal/dto"
	"github.com/noah-isme/certify-api/internal/models"
	"github.com/noah-isme/certify-api/internal/service"
	appErrors "github.com/noah-isme/certify-api/pkg/errors"
	"github.com/noah-isme/certify-api/pkg/response"
)

// CertificateHandler exposes certificate issuance and lifecycle endpoints.
// The create and verify endpoints keep their legacy wire shapes; the rest
// use the standard envelope.
type CertificateHandler struct {
	certificates *service.CertificateService
}

// NewCertificateHandler constructs CertificateHandler.
func NewCertificateHandler(certificates *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// List godoc
// @Summary List certificates
// @Tags Certificates
// @Produce json
// @Param search query string false "Search by name or intern ID"
// @Param domain query string false "Filter by domain"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	var filter models.CertificateFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Domain = c.Query("domain")
	if status := c.Query("status"); status == "active" || status == "revoked" {
		v := models.CertificateStatus(status)
		filter.Status = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	certificates, total, err := h.certificates.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	response.JSON(c, http.StatusOK, certificates, &models.Pagination{Page: page, PageSize: size, TotalCount: total})
}

// Get godoc
// @Summary Get certificate detail
// @Tags Certificates
// @Produce json
// @Param internId path string true "Intern ID"
// @Success 200 {object} response.Envelope
// @Router /certificates/{internId} [get]
func (h *CertificateHandler) Get(c *gin.Context) {
	cert, err := h.certificates.Get(c.Request.Context(), c.Param("internId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// Create godoc
// @Summary Issue a single certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Success 201 {object} dto.CertificateCreated
// @Failure 400 {object} dto.CertificateRejection
// @Failure 409 {object} dto.CertificateRejection
// @Router /certificates [post]
func (h *CertificateHandler) Create(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, dto.CertificateRejection{Success: false, Message: "Invalid request body"})
		return
	}

	cert, defects, err := h.certificates.Create(c.Request.Context(), raw)
	if err != nil {
		appErr := appErrors.FromError(err)
		if len(defects) > 0 {
			c.JSON(appErr.Status, dto.CertificateRejection{Success: false, Message: "Validation failed", Errors: defects})
			return
		}
		c.JSON(appErr.Status, dto.CertificateRejection{Success: false, Message: appErr.Message})
		return
	}

	c.JSON(http.StatusCreated, dto.CertificateCreated{
		Success: true,
		Message: "Certificate created successfully",
		Data: dto.CertificateCreatedData{
			InternID: cert.InternID,
			Name:     cert.Name,
			Domain:   cert.Domain,
			Duration: cert.Duration,
		},
	})
}

// Verify godoc
// @Summary Publicly verify a certificate by intern ID
// @Tags Verification
// @Produce json
// @Param internId path string true "Intern ID"
// @Success 200 {object} dto.VerificationSuccess
// @Failure 404 {object} dto.VerificationFailure
// @Router /verify/{internId} [get]
func (h *CertificateHandler) Verify(c *gin.Context) {
	success, failure, err := h.certificates.Verify(c.Request.Context(), c.Param("internId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if failure != nil {
		c.JSON(http.StatusNotFound, failure)
		return
	}
	c.JSON(http.StatusOK, success)
}

// Update godoc
// @Summary Update a certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Param internId path string true "Intern ID"
// @Param payload body service.UpdateCertificateRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /certificates/{internId} [put]
func (h *CertificateHandler) Update(c *gin.Context) {
	var req service.UpdateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cert, err := h.certificates.Update(c.Request.Context(), c.Param("internId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// Revoke godoc
// @Summary Revoke a certificate
// @Tags Certificates
// @Produce json
// @Param internId path string true "Intern ID"
// @Success 200 {object} response.Envelope
// @Router /certificates/{internId}/revoke [post]
func (h *CertificateHandler) Revoke(c *gin.Context) {
	cert, err := h.certificates.Revoke(c.Request.Context(), c.Param("internId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// Delete godoc
// @Summary Delete a certificate
// @Tags Certificates
// @Param internId path string true "Intern ID"
// @Success 204
// @Router /certificates/{internId} [delete]
func (h *CertificateHandler) Delete(c *gin.Context) {
	if err := h.certificates.Delete(c.Request.Context(), c.Param("internId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Download godoc
// @Summary Download the certificate as a PDF
// @Tags Certificates
// @Produce application/pdf
// @Param internId path string true "Intern ID"
// @Success 200 {file} binary
// @Router /certificates/{internId}/pdf [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	internID := c.Param("internId")
	data, err := h.certificates.RenderPDF(c.Request.Context(), internID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="certificate-%s.pdf"`, internID))
	c.Data(http.StatusOK, "application/pdf", data)
}
