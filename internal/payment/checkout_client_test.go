package payment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestStripeProvider_CreateCheckoutSession(t *testing.T) {
	apiKey := "sk_test_secret"
	provider := NewStripeProvider(apiKey).(*stripeProvider)

	params := CheckoutParams{
		Amount:        5000,
		Currency:      "usd",
		Description:   "Assessment fee - United FC (Alex Doe)",
		CustomerEmail: "payer@example.com",
		SuccessURL:    "https://app.test/success?assessment_id=42",
		CancelURL:     "https://app.test/cancel?assessment_id=42",
		Metadata: map[string]string{
			"assessment_id": "42",
			"session_id":    "ps-hosted-checkout-abc",
		},
	}

	t.Run("Success", func(t *testing.T) {
		respBody := `{
			"id": "cs_test_123",
			"url": "https://checkout.stripe.com/c/pay/cs_test_123",
			"payment_status": "unpaid"
		}`

		provider.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "POST", req.Method)
			assert.Equal(t, "https://api.stripe.com/v1/checkout/sessions", req.URL.String())

			user, _, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, apiKey, user)

			body, _ := io.ReadAll(req.Body)
			form := string(body)
			assert.Contains(t, form, "mode=payment")
			assert.Contains(t, form, "unit_amount%5D=5000")
			assert.Contains(t, form, "metadata%5Bsession_id%5D=ps-hosted-checkout-abc")

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     make(http.Header),
			}
		})

		checkout, err := provider.CreateCheckoutSession(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", checkout.ProviderSessionID)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", checkout.HostedURL)
	})

	t.Run("APIError", func(t *testing.T) {
		provider.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusBadRequest,
				Body:       io.NopCloser(bytes.NewBufferString(`{"error":{"message":"Invalid amount"}}`)),
				Header:     make(http.Header),
			}
		})

		checkout, err := provider.CreateCheckoutSession(context.Background(), params)
		assert.Nil(t, checkout)

		var pe *ProviderError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("NetworkError", func(t *testing.T) {
		provider.httpClient.Transport = MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		checkout, err := provider.CreateCheckoutSession(context.Background(), params)
		assert.Nil(t, checkout)

		var pe *ProviderError
		assert.ErrorAs(t, err, &pe)
	})
}

func TestStripeProvider_RetrieveCheckoutSession(t *testing.T) {
	apiKey := "sk_test_secret"
	provider := NewStripeProvider(apiKey).(*stripeProvider)

	t.Run("Paid", func(t *testing.T) {
		provider.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "GET", req.Method)
			assert.Equal(t, "https://api.stripe.com/v1/checkout/sessions/cs_test_123", req.URL.String())

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`{"id":"cs_test_123","payment_status":"paid"}`)),
				Header:     make(http.Header),
			}
		})

		status, err := provider.RetrieveCheckoutSession(context.Background(), "cs_test_123")
		require.NoError(t, err)
		assert.Equal(t, CheckoutPaid, status)
	})

	t.Run("Unpaid", func(t *testing.T) {
		provider.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`{"id":"cs_test_123","payment_status":"unpaid"}`)),
				Header:     make(http.Header),
			}
		})

		status, err := provider.RetrieveCheckoutSession(context.Background(), "cs_test_123")
		require.NoError(t, err)
		assert.Equal(t, CheckoutUnpaid, status)
	})

	t.Run("APIError", func(t *testing.T) {
		provider.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(bytes.NewBufferString(`{"error":{"message":"No such session"}}`)),
				Header:     make(http.Header),
			}
		})

		_, err := provider.RetrieveCheckoutSession(context.Background(), "cs_missing")

		var pe *ProviderError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("NetworkError", func(t *testing.T) {
		provider.httpClient.Transport = MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("timeout")
		})

		_, err := provider.RetrieveCheckoutSession(context.Background(), "cs_test_123")

		var pe *ProviderError
		assert.ErrorAs(t, err, &pe)
	})
}
