package models

// PaymentIntentHandle is the opaque handle for a payment-provider-side
// authorization placeholder. At most one active intent exists per booking;
// a retried payment reuses the handle rather than creating a duplicate.
type PaymentIntentHandle struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	Status       string `json:"status"`
}

// CardDetails is the card payload submitted for confirmation. It is passed
// straight to the payment provider and never persisted.
type CardDetails struct {
	Number     string `json:"number"`
	ExpMonth   int64  `json:"expMonth"`
	ExpYear    int64  `json:"expYear"`
	CVC        string `json:"cvc"`
	HolderName string `json:"holderName,omitempty"`
}

// PaymentState tracks the payment authorization sub-machine.
type PaymentState string

const (
	PaymentNoIntent      PaymentState = "no_intent"
	PaymentIntentCreated PaymentState = "intent_created"
	PaymentAuthorizing   PaymentState = "authorizing"
	PaymentConfirmed     PaymentState = "confirmed"
	PaymentFailed        PaymentState = "failed"
)
