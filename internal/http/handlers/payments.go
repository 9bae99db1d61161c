package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/utils"
)

type paymentNotePayload struct {
	Note string `json:"note"`
}

// POST /api/payments/:reference/processing
func MarkPaymentProcessing(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	var p paymentNotePayload
	_ = c.ShouldBindJSON(&p) // note is optional

	trip, err := paymentSvc.MarkProcessing(ref, p.Note, middleware.GetOperator(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "payments", "processing", ref)
	c.JSON(http.StatusOK, trip)
}

// POST /api/payments/:reference/transfer-pending
func MarkPaymentTransferPending(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	var p paymentNotePayload
	_ = c.ShouldBindJSON(&p)

	trip, err := paymentSvc.MarkTransferPending(ref, p.Note, middleware.GetOperator(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "payments", "transfer_pending", ref)
	c.JSON(http.StatusOK, trip)
}

// POST /api/payments/:reference/paid
func MarkPaymentPaid(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	var p paymentNotePayload
	_ = c.ShouldBindJSON(&p)

	trip, err := paymentSvc.MarkPaid(ref, p.Note, middleware.GetOperator(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "payments", "paid",
		ref+" amount="+utils.FormatMoney(trip.IncentiveAmount))
	c.JSON(http.StatusOK, trip)
}

// GET /api/payments?status=ready
// The payment queue, defaulting to trips that are approved and waiting
// for payout.
func GetPayments(c *gin.Context) {
	f := parseStopFilter(c)
	if f.StatusBucket == "" {
		f.StatusBucket = "ready"
	}
	trips, err := paymentSvc.Trips.ListTrips(f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	for i := range trips {
		trips[i].Stops = nil
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// POST /api/payments/:reference/notes
func AddPaymentNote(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	var p paymentNotePayload
	if !BindJSONOrError(c, &p) {
		return
	}

	trip, err := paymentSvc.AddNote(ref, p.Note, middleware.GetOperator(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "payments", "note", ref)
	c.JSON(http.StatusOK, trip)
}

// GET /api/payments/summary
func GetPaymentSummary(c *gin.Context) {
	sum, err := paymentSvc.Summary(parseStopFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

type selectPayload struct {
	Reference string  `json:"reference" binding:"required"`
	Amount    float64 `json:"amount"`
}

// GET /api/payments/selection
func GetPaymentSelection(c *gin.Context) {
	refs, total := bulkSvc.Selection()
	c.JSON(http.StatusOK, gin.H{
		"references":   refs,
		"count":        len(refs),
		"total_amount": total,
	})
}

// POST /api/payments/selection
func SelectPayment(c *gin.Context) {
	var p selectPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	bulkSvc.Select(strings.TrimSpace(p.Reference), p.Amount)
	GetPaymentSelection(c)
}

// DELETE /api/payments/selection/:reference
func DeselectPayment(c *gin.Context) {
	bulkSvc.Deselect(strings.TrimSpace(c.Param("reference")))
	GetPaymentSelection(c)
}

// DELETE /api/payments/selection
func ClearPaymentSelection(c *gin.Context) {
	bulkSvc.ClearSelection()
	GetPaymentSelection(c)
}

// POST /api/payments/bulk/transfer-pending
func BulkTransferPending(c *gin.Context) {
	res, err := bulkSvc.BulkMarkTransferPending(middleware.GetOperator(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "payments", "bulk_transfer_pending",
		utils.FormatBaht(res.TotalAmount))
	c.JSON(http.StatusOK, res)
}

// POST /api/payments/bulk/paid
func BulkPaid(c *gin.Context) {
	res, err := bulkSvc.BulkMarkPaid(middleware.GetOperator(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "payments", "bulk_paid",
		utils.FormatBaht(res.TotalAmount))
	c.JSON(http.StatusOK, res)
}
