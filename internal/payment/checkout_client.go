package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tryout-be/internal/logger"

	"go.uber.org/zap"
)

const stripeBaseURL = "https://api.stripe.com"

// CheckoutPaymentStatus mirrors the provider's payment_status field.
type CheckoutPaymentStatus string

const (
	CheckoutPaid              CheckoutPaymentStatus = "paid"
	CheckoutUnpaid            CheckoutPaymentStatus = "unpaid"
	CheckoutNoPaymentRequired CheckoutPaymentStatus = "no_payment_required"
)

type CheckoutParams struct {
	Amount        int64
	Currency      string
	Description   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type CheckoutSession struct {
	ProviderSessionID string
	HostedURL         string
}

// CheckoutProvider is the opaque network boundary to the hosted payment
// page. Every failure comes back as a *ProviderError and leaves local
// state untouched.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, providerSessionID string) (CheckoutPaymentStatus, error)
}

type stripeProvider struct {
	apiKey     string
	httpClient *http.Client
}

// ----------------- Constructor -----------------

func NewStripeProvider(apiKey string) CheckoutProvider {
	if apiKey == "" {
		logger.L().Warn("Stripe API key is empty")
	}

	return &stripeProvider{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ----------------- CreateCheckoutSession -----------------

func (s *stripeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("amount", params.Amount),
		zap.String("currency", params.Currency),
		zap.String("description", params.Description),
	)

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.Description)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		stripeBaseURL+"/v1/checkout/sessions",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, providerErr("create checkout session", err)
	}

	req.SetBasicAuth(s.apiKey, "")
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	log.Info("Creating checkout session at provider")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("Provider request failed", zap.Error(err))
		return nil, providerErr("create checkout session", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, providerErr("create checkout session", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Provider returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, providerErr("create checkout session",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var res struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("Failed decoding provider response", zap.Error(err))
		return nil, providerErr("create checkout session", err)
	}

	log.Info("Checkout session created",
		zap.String("provider_session_id", res.ID),
	)

	return &CheckoutSession{
		ProviderSessionID: res.ID,
		HostedURL:         res.URL,
	}, nil
}

// ----------------- RetrieveCheckoutSession -----------------

func (s *stripeProvider) RetrieveCheckoutSession(ctx context.Context, providerSessionID string) (CheckoutPaymentStatus, error) {
	log := logger.FromCtx(ctx).With(zap.String("provider_session_id", providerSessionID))

	req, err := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/v1/checkout/sessions/%s", stripeBaseURL, url.PathEscape(providerSessionID)),
		nil,
	)
	if err != nil {
		log.Error("Failed building request", zap.Error(err))
		return "", providerErr("retrieve checkout session", err)
	}

	req.SetBasicAuth(s.apiKey, "")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("Provider request failed", zap.Error(err))
		return "", providerErr("retrieve checkout session", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return "", providerErr("retrieve checkout session", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Provider returned error",
			zap.Int("http_status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return "", providerErr("retrieve checkout session",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var res struct {
		PaymentStatus CheckoutPaymentStatus `json:"payment_status"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("Failed decoding provider response", zap.Error(err))
		return "", providerErr("retrieve checkout session", err)
	}

	return res.PaymentStatus, nil
}
