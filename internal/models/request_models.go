package models

// PaymentIntentRequest is the body of POST /create-payment-intent.
type PaymentIntentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// MarkPaidRequest is the body of PATCH /selectedclasses.
type MarkPaidRequest struct {
	Name            string `json:"name" binding:"required"`
	InstructorEmail string `json:"instructorEmail" binding:"required"`
	TransactionID   string `json:"transactionId" binding:"required"`
	Email           string `json:"email,omitempty"`
}
