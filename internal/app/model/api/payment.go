package api

// CheckoutResponse carries everything the hosted-checkout page needs to
// open the gateway widget for an order.
// @Description Hosted checkout order response
type CheckoutResponse struct {
	OrderID       string `json:"order_id" example:"order_NXhT2wFl4K9eaB"`
	RazorpayKeyID string `json:"razorpay_key_id" example:"rzp_test_abc123"`
	Amount        string `json:"amount" example:"1180.00"`
	AmountMinor   int64  `json:"amount_minor" example:"118000"`
	Currency      string `json:"currency" example:"INR"`
}

// CallbackResponse is the structured status answered to the payment
// gateway's server-to-server callback. It is the only shape this endpoint
// ever returns.
// @Description Payment callback status response
type CallbackResponse struct {
	Status  string `json:"status" example:"Payment Successful"`
	Message string `json:"message,omitempty"`
}
