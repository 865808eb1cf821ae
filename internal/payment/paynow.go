package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wyzar-be/internal/config"
	"wyzar-be/internal/logger"

	"go.uber.org/zap"
)

const paynowBaseURL = "https://www.paynow.co.zw/interface"

type paynowGateway struct {
	integrationID  string
	integrationKey string
	returnURL      string
	resultURL      string
	baseURL        string
	appEnv         string
	httpClient     *http.Client
}

func NewPaynowGateway(cfg *config.Config) Gateway {
	if cfg.PaynowIntegrationID == "" || cfg.PaynowIntegrationKey == "" {
		logger.L().Warn("Paynow integration credentials are empty")
	}

	return &paynowGateway{
		integrationID:  cfg.PaynowIntegrationID,
		integrationKey: cfg.PaynowIntegrationKey,
		returnURL:      cfg.PaynowReturnURL,
		resultURL:      cfg.PaynowResultURL,
		baseURL:        paynowBaseURL,
		appEnv:         cfg.AppEnv,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreatePayment posts an initiate-transaction request. Paynow speaks
// form-encoded bodies with a SHA512 integrity hash over the field values
// in submission order, keyed by the integration key.
func (g *paynowGateway) CreatePayment(ctx context.Context, reference, email, description string, amount float64) (*InitiateResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("reference", reference),
		zap.Float64("amount", amount),
	)

	fields := []formPair{
		{"id", g.integrationID},
		{"reference", reference},
		{"amount", fmt.Sprintf("%.2f", amount)},
		{"additionalinfo", description},
		{"returnurl", g.returnURL},
		{"resulturl", g.resultURL},
		{"authemail", email},
		{"status", "Message"},
	}

	form := url.Values{}
	var hashInput strings.Builder
	for _, f := range fields {
		form.Set(f.key, f.value)
		hashInput.WriteString(f.value)
	}
	form.Set("hash", g.hash(hashInput.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/initiatetransaction", strings.NewReader(form.Encode()))
	if err != nil {
		log.Error("failed creating paynow request", zap.Error(err))
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Info("sending initiate transaction request to paynow")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("paynow request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read paynow response", zap.Error(err))
		return nil, fmt.Errorf("failed to read paynow response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("paynow returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("paynow error: http %d", resp.StatusCode)
	}

	pairs, err := parseOrderedForm(bodyBytes)
	if err != nil {
		log.Error("failed decoding paynow response", zap.Error(err))
		return nil, err
	}

	var status, browserURL, pollURL, errMsg string
	for _, p := range pairs {
		switch strings.ToLower(p.key) {
		case "status":
			status = p.value
		case "browserurl":
			browserURL = p.value
		case "pollurl":
			pollURL = p.value
		case "error":
			errMsg = p.value
		}
	}

	if !strings.EqualFold(status, "Ok") {
		log.Error("paynow rejected transaction",
			zap.String("status", status),
			zap.String("error", errMsg),
		)
		return nil, fmt.Errorf("paynow error: %s", errMsg)
	}

	if err := g.verifyOrderedHash(pairs); err != nil {
		log.Error("paynow response hash mismatch", zap.Error(err))
		return nil, err
	}

	log.Info("paynow transaction initiated",
		zap.String("poll_url", pollURL),
	)

	return &InitiateResponse{
		RedirectURL: browserURL,
		PollURL:     pollURL,
	}, nil
}

// VerifyCallback validates the hash Paynow sends with every status update.
// A missing integration key only disables verification outside production.
func (g *paynowGateway) VerifyCallback(raw []byte) error {
	if g.integrationKey == "" {
		if g.appEnv == "production" {
			return errors.New("paynow integration key not configured")
		}
		return nil
	}

	pairs, err := parseOrderedForm(raw)
	if err != nil {
		return err
	}
	return g.verifyOrderedHash(pairs)
}

func (g *paynowGateway) verifyOrderedHash(pairs []formPair) error {
	var hashInput strings.Builder
	var received string

	for _, p := range pairs {
		if strings.EqualFold(p.key, "hash") {
			received = p.value
			continue
		}
		hashInput.WriteString(p.value)
	}

	if received == "" {
		return errors.New("missing integrity hash")
	}
	if !strings.EqualFold(g.hash(hashInput.String()), received) {
		return errors.New("invalid integrity hash")
	}
	return nil
}

func (g *paynowGateway) hash(input string) string {
	sum := sha512.Sum512([]byte(input + g.integrationKey))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
