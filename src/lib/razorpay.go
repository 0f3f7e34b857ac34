package lib

import (
	"fmt"
	"os"

	"abs/src/types"

	razorpay "github.com/razorpay/razorpay-go"
	rputils "github.com/razorpay/razorpay-go/utils"
)

// OrderClient is the slice of the gateway the order creation flow needs.
// Tests swap it out with NewOrderClient.
type OrderClient interface {
	CreateOrder(amountPaise int64, currency string, receipt string, notes map[string]any) (types.JSONB, error)
}

type razorpayOrders struct {
	inner *razorpay.Client
}

func (r *razorpayOrders) CreateOrder(amountPaise int64, currency string, receipt string, notes map[string]any) (types.JSONB, error) {
	data := map[string]any{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	order, err := r.inner.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway order create failed: %w", err)
	}
	return types.JSONB(order), nil
}

var orderClient OrderClient

func GetOrderClient() OrderClient {
	if orderClient != nil {
		return orderClient
	}
	keyId := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	rc := razorpay.NewClient(keyId, keySecret)
	orderClient = &razorpayOrders{inner: rc}
	return orderClient
}

// NewOrderClient replaces the gateway client with a custom implementation
func NewOrderClient(c OrderClient) {
	orderClient = c
}

// VerifyWebhookSignature recomputes the HMAC over the exact raw request bytes.
// The payload must not be re-serialized before this check.
func VerifyWebhookSignature(payload []byte, signature string) bool {
	secret := os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	return rputils.VerifyWebhookSignature(string(payload), signature, secret)
}
