package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chidubem/paylinq/internal/helpers"
	"github.com/chidubem/paylinq/internal/middleware"
	"github.com/chidubem/paylinq/internal/models"
	"github.com/chidubem/paylinq/internal/rates"
	"github.com/chidubem/paylinq/internal/store"
)

// PublicLink is the payer-facing projection of a payment link. Uploads and
// the owner's id stay private to the merchant.
type PublicLink struct {
	Reference string            `json:"reference"`
	Amount    float64           `json:"amount"`
	Currency  string            `json:"currency"`
	Status    models.LinkStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// PublicMethod exposes a payment method's payout instructions to the payer.
type PublicMethod struct {
	ID      uuid.UUID            `json:"id"`
	Type    models.MethodType    `json:"type"`
	Name    string               `json:"name"`
	Details models.MethodDetails `json:"details"`
}

func publicLinkView(link *models.PaymentLink) PublicLink {
	return PublicLink{
		Reference: link.Reference,
		Amount:    link.Amount,
		Currency:  link.Currency,
		Status:    link.Status,
		Notes:     link.Notes,
		CreatedAt: link.CreatedAt,
		ExpiresAt: link.ExpiresAt,
	}
}

// resolveByReference loads a link by its public reference and reconciles
// expiry, since the payer opening the page is a read that must observe an
// overdue link as expired.
func resolveByReference(c *gin.Context) (*gorm.DB, *models.PaymentLink, bool) {
	reference := c.Param("reference")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, nil, false
	}
	gormDB := db.(*gorm.DB)

	var link models.PaymentLink
	if err := gormDB.Where("reference = ?", reference).First(&link).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment link not found.")
			return nil, nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to load payment link.")
		return nil, nil, false
	}

	if err := store.ExpireIfOverdue(gormDB, &link, time.Now()); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to load payment link.")
		return nil, nil, false
	}

	return gormDB, &link, true
}

// GetPayPage resolves a payment link for the payer. Not-found, expired, and
// otherwise non-active links are distinct, user-visible states.
func GetPayPage(c *gin.Context) {
	gormDB, link, ok := resolveByReference(c)
	if !ok {
		return
	}

	if link.Status == models.LinkStatusExpired {
		c.JSON(http.StatusGone, gin.H{
			"message":      "This payment link has expired",
			"payment_link": publicLinkView(link),
		})
		return
	}

	if link.Status != models.LinkStatusActive {
		c.JSON(http.StatusOK, gin.H{
			"message":      "This payment link is " + string(link.Status),
			"payment_link": publicLinkView(link),
		})
		return
	}

	// A referenced method may have been deleted or deactivated since the
	// link was created; it is unavailable, not an error.
	methods := []PublicMethod{}
	if len(link.PaymentMethodIDs) > 0 {
		var stored []models.PaymentMethod
		if err := gormDB.Where("id IN ?", []uuid.UUID(link.PaymentMethodIDs)).Find(&stored).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to load payment methods.")
			return
		}
		for _, method := range stored {
			if !method.Available() {
				continue
			}
			methods = append(methods, PublicMethod{
				ID:      method.ID,
				Type:    method.Type,
				Name:    method.Name,
				Details: method.Details,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_link":    publicLinkView(link),
		"payment_methods": methods,
	})
}

// ConfirmPayment accepts the payer's proof of payment: the file is stored,
// then the upload record, timeline entry, and active -> pending flip land in
// one guarded update, so a stored file without a recorded submission reports
// failure rather than half-success.
func ConfirmPayment(c *gin.Context) {
	gormDB, link, ok := resolveByReference(c)
	if !ok {
		return
	}

	if link.Status != models.LinkStatusActive {
		helpers.RespondWithStateConflict(c, &models.StateConflictError{Action: "confirm payment on", Status: link.Status})
		return
	}

	methodID := c.PostForm("method_id")
	if methodID == "" {
		helpers.RespondWithFieldErrors(c, models.FieldErrors{"method_id": "Payment method is required"})
		return
	}

	methodName := "selected method"
	var method models.PaymentMethod
	if err := gormDB.Where("id = ?", methodID).First(&method).Error; err == nil {
		methodName = method.Name
	}

	proofFile, err := c.FormFile("proof")
	if err != nil {
		helpers.RespondWithFieldErrors(c, models.FieldErrors{"proof": "Proof of payment file is required"})
		return
	}

	uploadDir := c.GetString("upload_dir")
	uploadCfg := helpers.DefaultProofUploadConfig
	if uploadDir != "" {
		uploadCfg.UploadBasePath = uploadDir
	}

	storedPath, err := helpers.UploadFile(c, proofFile, "payment_proofs", uploadCfg)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	proof := models.PaymentProof{
		URL:        storedPath,
		FileName:   proofFile.Filename,
		UploadedAt: now,
		UploadedBy: c.PostForm("payer"),
	}

	if err := store.RecordProof(gormDB, link, proof, methodName, now); err != nil {
		// The submission was not recorded, so the stored file must not
		// linger as an orphan.
		if cleanupErr := helpers.DeleteFile(storedPath); cleanupErr != nil {
			slog.Warn("failed to remove orphaned proof file", "file", storedPath, "error", cleanupErr)
		}
		if conflict, isConflict := err.(*models.StateConflictError); isConflict {
			helpers.RespondWithStateConflict(c, conflict)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment confirmation.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment proof submitted. The merchant will verify your payment.",
		"payment_link": publicLinkView(link),
	})
}

// GetConversion returns an advisory crypto quote for the link's amount. A
// failed or unsupported lookup is a graceful degraded state, never a crash.
func GetConversion(c *gin.Context) {
	_, link, ok := resolveByReference(c)
	if !ok {
		return
	}

	cryptoType := c.Query("crypto")
	if cryptoType == "" {
		helpers.RespondWithFieldErrors(c, models.FieldErrors{"crypto": "Crypto type is required"})
		return
	}

	ratesClient := middleware.GetRatesClient(c)
	if ratesClient == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Rates client not found.")
		return
	}

	conversion := ratesClient.ConvertToCrypto(c.Request.Context(), link.Amount, link.Currency, cryptoType)
	if conversion == nil {
		helpers.RespondWithError(c, http.StatusBadGateway, "Unable to fetch conversion rate.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cryptoAmount": rates.FormatCryptoAmount(conversion.CryptoAmount, cryptoType),
		"rate":         conversion.Rate,
		"asOf":         conversion.AsOf,
		"symbol":       rates.CryptoSymbol(cryptoType),
	})
}
