package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/shopspring/decimal"
)

// EnvelopeEditable represents all user configurable parameters
type EnvelopeEditable struct {
	Name         string              `json:"name" example:"Groceries"`                  // Name of the envelope
	Emoji        string              `json:"emoji" example:"🛒" default:"📦"`             // Emoji shown with the envelope
	Color        string              `json:"color" example:"#22c55e" default:"#6366f1"` // Color of the envelope
	TargetAmount decimal.NullDecimal `json:"targetAmount" example:"5000"`               // Optional savings target
	IsRollover   bool                `json:"isRollover" example:"true" default:"false"` // Unspent money moves to the cookie jar at the end of each period
	SortOrder    int                 `json:"sortOrder" example:"2"`                     // Position of the envelope. Set automatically on creation
}

func (editable EnvelopeEditable) model() models.Envelope {
	return models.Envelope{
		Name:         editable.Name,
		Emoji:        editable.Emoji,
		Color:        editable.Color,
		TargetAmount: editable.TargetAmount,
		IsRollover:   editable.IsRollover,
		SortOrder:    editable.SortOrder,
	}
}

type EnvelopeLinks struct {
	Self           string `json:"self" example:"https://example.com/api/v1/envelopes/45b6b5b9-f746-4ae9-b77b-7688b91f8166"`                           // The envelope itself
	ToggleRollover string `json:"toggleRollover" example:"https://example.com/api/v1/envelopes/45b6b5b9-f746-4ae9-b77b-7688b91f8166/toggle-rollover"` // Toggles the rollover setting
	Withdraw       string `json:"withdraw" example:"https://example.com/api/v1/envelopes/45b6b5b9-f746-4ae9-b77b-7688b91f8166/cookie-jar/withdraw"`   // Withdraws from the cookie jar
	Entries        string `json:"entries" example:"https://example.com/api/v1/ledger-entries?envelope=45b6b5b9-f746-4ae9-b77b-7688b91f8166"`          // Ledger entries booked on the envelope
}

type Envelope struct {
	models.DefaultModel
	EnvelopeEditable
	CookieJar decimal.Decimal `json:"cookieJar" example:"1250"` // Remainders collected from completed periods
	Links     EnvelopeLinks   `json:"links"`
}

func newEnvelope(c *gin.Context, model models.Envelope) Envelope {
	url := baseURL(c)
	self := fmt.Sprintf("%s/v1/envelopes/%s", url, model.ID)

	return Envelope{
		DefaultModel: model.DefaultModel,
		EnvelopeEditable: EnvelopeEditable{
			Name:         model.Name,
			Emoji:        model.Emoji,
			Color:        model.Color,
			TargetAmount: model.TargetAmount,
			IsRollover:   model.IsRollover,
			SortOrder:    model.SortOrder,
		},
		CookieJar: model.CookieJar,
		Links: EnvelopeLinks{
			Self:           self,
			ToggleRollover: self + "/toggle-rollover",
			Withdraw:       self + "/cookie-jar/withdraw",
			Entries:        fmt.Sprintf("%s/v1/ledger-entries?envelope=%s", url, model.ID),
		},
	}
}

func newEnvelopes(c *gin.Context, envelopes []models.Envelope) []Envelope {
	data := make([]Envelope, 0, len(envelopes))
	for _, envelope := range envelopes {
		data = append(data, newEnvelope(c, envelope))
	}

	return data
}

// EnvelopeDetail is an envelope with its state in the current period.
type EnvelopeDetail struct {
	Envelope
	Instance   *Instance     `json:"instance"`   // The current instance, if any
	Allocation *Allocation   `json:"allocation"` // The allocation in the current instance, if any
	Entries    []LedgerEntry `json:"entries"`    // Expenses booked on the envelope in the current period
}

type EnvelopeListResponse struct {
	Data  []Envelope `json:"data"`                                                          // List of envelopes in display order
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type EnvelopeCreateResponse struct {
	Data  []EnvelopeResponse `json:"data"`                                                          // List of the created envelopes or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *EnvelopeCreateResponse) appendError(err error, currentStatus int) int {
	r.Data = append(r.Data, EnvelopeResponse{Error: errorString(err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type EnvelopeResponse struct {
	Data  *Envelope `json:"data"`                                                          // Data for the envelope
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type EnvelopeDetailResponse struct {
	Data  *EnvelopeDetail `json:"data"`                                                          // Data for the envelope
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// ReorderEditable lists envelope IDs in their new order.
type ReorderEditable struct {
	EnvelopeIDs []uuid.UUID `json:"envelopeIds"` // IDs of the envelopes, first is shown first
}

// WithdrawEditable is the amount to take out of a cookie jar.
type WithdrawEditable struct {
	Amount decimal.Decimal `json:"amount" example:"500"` // Amount moved into the rollover of the current period
}

// Withdrawal is the outcome of a cookie jar withdrawal.
type Withdrawal struct {
	Envelope   Envelope   `json:"envelope"`   // The envelope with its reduced cookie jar
	Allocation Allocation `json:"allocation"` // The allocation of the current period with its increased rollover
}

type WithdrawResponse struct {
	Data  *Withdrawal `json:"data"`                                                          // Data for the withdrawal
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
