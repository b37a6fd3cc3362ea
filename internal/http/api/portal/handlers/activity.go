package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/portal"
	"github.com/petgasmx/petgas-portal/internal/settings"
)

// maxEvidenceBytes caps a single evidence photo upload.
const maxEvidenceBytes = 10 << 20

// ActivityHandler handles mitigation and consumption submissions.
type ActivityHandler struct {
	svc *portal.Service
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *portal.Service) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// SubmitMitigation accepts a multipart form with an amount_kg field and one
// or more evidence photos under the images field.
func (h *ActivityHandler) SubmitMitigation(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	kg, errKg := strconv.ParseFloat(c.PostForm("amount_kg"), 64)
	if errKg != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_kg must be a number"})
		return
	}

	form, errForm := c.MultipartForm()
	if errForm != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}

	maxImages := settings.Int(settings.MaxEvidenceImagesKey, settings.DefaultMaxEvidenceImages)
	if len(form.File["images"]) > maxImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d images per entry", maxImages)})
		return
	}

	var uploads []portal.ImageUpload
	for _, header := range form.File["images"] {
		if header.Size > maxEvidenceBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the 10MB limit"})
			return
		}
		file, errOpen := header.Open()
		if errOpen != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "read uploaded image failed"})
			return
		}
		data, errRead := io.ReadAll(file)
		file.Close()
		if errRead != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "read uploaded image failed"})
			return
		}
		uploads = append(uploads, portal.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	entry, errSubmit := h.svc.SubmitMitigation(c.Request.Context(), clientID, kg, uploads)
	if errSubmit != nil {
		respondServiceError(c, errSubmit)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// submitConsumptionRequest defines the request body for consumption entries.
type submitConsumptionRequest struct {
	AmountLiters float64 `json:"amount_liters"`
	TransactedAt *string `json:"transacted_at"`
}

// SubmitConsumption records a fuel consumption entry.
func (h *ActivityHandler) SubmitConsumption(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body submitConsumptionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var transactedAt time.Time
	if body.TransactedAt != nil {
		parsed, errParse := time.Parse(time.RFC3339, *body.TransactedAt)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transacted_at must be RFC3339"})
			return
		}
		transactedAt = parsed
	}

	entry, errSubmit := h.svc.SubmitConsumption(c.Request.Context(), clientID, body.AmountLiters, transactedAt)
	if errSubmit != nil {
		respondServiceError(c, errSubmit)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListMitigations returns the client's own mitigation entries.
func (h *ActivityHandler) ListMitigations(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	offset, limit := pageFromQuery(c)
	entries, total, errList := h.svc.ListClientMitigations(c.Request.Context(), clientID, portal.Page{Offset: offset, Limit: limit})
	if errList != nil {
		respondServiceError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "entries": entries})
}

// ListConsumptions returns the client's own consumption entries.
func (h *ActivityHandler) ListConsumptions(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	offset, limit := pageFromQuery(c)
	entries, total, errList := h.svc.ListClientConsumptions(c.Request.Context(), clientID, portal.Page{Offset: offset, Limit: limit})
	if errList != nil {
		respondServiceError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "entries": entries})
}
