package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/utils"
)

type reasonPayload struct {
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

// text joins the reason code and free-text detail; either may be absent.
func (p reasonPayload) text() string {
	reason := strings.TrimSpace(p.Reason)
	note := strings.TrimSpace(p.Note)
	switch {
	case reason != "" && note != "":
		return "[" + reason + "] " + note
	case reason != "":
		return reason
	default:
		return note
	}
}

type figuresPayload struct {
	DistanceKm float64 `json:"distance_km"`
	StopCount  int     `json:"stop_count"`
	Rate       float64 `json:"rate"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note"`
}

// POST /api/incentives/:reference/approve
func ApproveIncentive(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	op := middleware.GetOperator(c)

	trip, err := approvalSvc.Approve(ref, op)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "incentives", "approve",
		ref+" amount="+utils.FormatMoney(trip.IncentiveAmount)+" by="+op.DisplayName())
	c.JSON(http.StatusOK, trip)
}

// POST /api/incentives/:reference/reject
func RejectIncentive(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	var p reasonPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	op := middleware.GetOperator(c)

	trip, err := approvalSvc.Reject(ref, p.text(), op)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "incentives", "reject", ref+" by="+op.DisplayName())
	c.JSON(http.StatusOK, trip)
}

// POST /api/incentives/:reference/request-correction
func RequestIncentiveCorrection(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	var p reasonPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	op := middleware.GetOperator(c)

	trip, err := approvalSvc.RequestCorrection(ref, p.text(), op)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "incentives", "request_correction", ref)
	c.JSON(http.StatusOK, trip)
}

// PUT /api/incentives/:reference/figures
func EditIncentiveFigures(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	var p figuresPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	op := middleware.GetOperator(c)

	trip, err := approvalSvc.EditFigures(ref, p.DistanceKm, p.StopCount, p.Rate, p.Amount, p.Note, op)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "incentives", "edit_figures", ref)
	c.JSON(http.StatusOK, trip)
}

// POST /api/incentives/:reference/reset
func ResetIncentive(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	op := middleware.GetOperator(c)

	trip, err := approvalSvc.Reset(ref, op)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "incentives", "reset", ref)
	c.JSON(http.StatusOK, trip)
}
