package handlers

import (
	"net/http"

	"wildhaven/models"
	"wildhaven/services/flow"

	"github.com/gin-gonic/gin"
)

// FlowService is wired in main before the router starts serving.
var FlowService flow.FlowService

// flowErrorStatus maps flow error codes to HTTP statuses. Messages pass
// through untouched; clients key off the code.
func flowErrorStatus(code string) int {
	if flow.IsValidation(code) {
		return http.StatusUnprocessableEntity
	}
	switch code {
	case flow.CodeSessionNotFound:
		return http.StatusNotFound
	case flow.CodeRequestInFlight, flow.CodeDatesUnavailable, flow.CodeFlowState,
		flow.CodeConfirmationMismatch:
		return http.StatusConflict
	case flow.CodeCardDeclined:
		return http.StatusPaymentRequired
	case flow.CodeAvailabilityFailed, flow.CodeRemoteError,
		flow.CodeIntentCreationFailed, flow.CodeProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondFlowError writes the flow error, optionally with the session's
// current state so clients can render where the flow landed.
func respondFlowError(c *gin.Context, err error, session *models.FlowSession) {
	fe, ok := flow.AsFlowError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	body := gin.H{
		"error":     fe.Message,
		"code":      fe.Code,
		"retryable": flow.IsRetryable(fe.Code),
	}
	if fe.Code == flow.CodeConfirmationMismatch {
		body["contactSupport"] = true
	}
	if session != nil {
		body["flow"] = session
	}
	c.JSON(flowErrorStatus(fe.Code), body)
}

func userID(c *gin.Context) string {
	id, _ := c.Get("userID")
	s, _ := id.(string)
	return s
}

// StartFlow opens a booking flow against one property.
func StartFlow(c *gin.Context) {
	var input struct {
		PropertyID string `json:"propertyId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := FlowService.StartFlow(c.Request.Context(), userID(c), input.PropertyID)
	if err != nil {
		respondFlowError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"flow": session})
}

// GetFlow returns the current session state.
func GetFlow(c *gin.Context) {
	session, err := FlowService.GetFlow(c.Request.Context(), userID(c), c.Param("flowID"))
	if err != nil {
		respondFlowError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": session})
}

// UpdateStay applies partial stay edits and returns the requoted session.
func UpdateStay(c *gin.Context) {
	var input flow.StayUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := FlowService.UpdateStay(c.Request.Context(), userID(c), c.Param("flowID"), input)
	if err != nil {
		respondFlowError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": session})
}

// ConfirmDates checks availability and advances to detail capture.
func ConfirmDates(c *gin.Context) {
	session, err := FlowService.ConfirmDates(c.Request.Context(), userID(c), c.Param("flowID"))
	if err != nil {
		respondFlowError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": session})
}

// SubmitDetails finalizes the stay, creates the booking and advances to
// payment.
func SubmitDetails(c *gin.Context) {
	session, err := FlowService.SubmitDetails(c.Request.Context(), userID(c), c.Param("flowID"))
	if err != nil {
		respondFlowError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": session})
}

// Pay runs one payment attempt. On failure the response still carries the
// session so the client can show the committed payment state.
func Pay(c *gin.Context) {
	var input struct {
		Card models.CardDetails `json:"card" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := FlowService.Pay(c.Request.Context(), userID(c), c.Param("flowID"), input.Card)
	if err != nil {
		respondFlowError(c, err, session)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": session})
}

// StepBack moves the flow one step backward.
func StepBack(c *gin.Context) {
	session, err := FlowService.StepBack(c.Request.Context(), userID(c), c.Param("flowID"))
	if err != nil {
		respondFlowError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": session})
}

// CancelFlow abandons the attempt.
func CancelFlow(c *gin.Context) {
	if err := FlowService.CancelFlow(c.Request.Context(), userID(c), c.Param("flowID")); err != nil {
		respondFlowError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
