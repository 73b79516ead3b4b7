// File: internal/infra/adapters/payment/qris_gateway.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"telegram-panel-store/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*QRISGateway)(nil)

// QRISGateway implements adapter.PaymentGateway against the Atlantic-style
// deposit API: form-encoded POSTs, api_key in the body, JSON envelope with a
// boolean status and a data object.
type QRISGateway struct {
	client *resty.Client
	apiKey string
}

func NewQRISGateway(baseURL, apiKey string) (*QRISGateway, error) {
	if baseURL == "" || apiKey == "" {
		return nil, errors.New("payment gateway base url and api key required")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")
	return &QRISGateway{client: client, apiKey: apiKey}, nil
}

func (g *QRISGateway) Name() string { return "qris" }

type depositEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID         string `json:"id"`
		ReffID     string `json:"reff_id"`
		Nominal    int64  `json:"nominal"`
		Status     string `json:"status"`
		QRString   string `json:"qr_string"`
		QRImageURL string `json:"qr_image"`
	} `json:"data"`
}

func (g *QRISGateway) post(ctx context.Context, path string, form map[string]string, out *depositEnvelope) error {
	form["api_key"] = g.apiKey
	resp, err := g.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(out).
		Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("deposit api %s: http %d", path, resp.StatusCode())
	}
	return nil
}

func (g *QRISGateway) CreateDeposit(ctx context.Context, reference string, amount int64) (*adapter.Invoice, error) {
	var out depositEnvelope
	form := map[string]string{
		"reff_id": reference,
		"nominal": strconv.FormatInt(amount, 10),
		"type":    "ewallet",
		"metode":  "QRIS",
	}
	if err := g.post(ctx, "/deposit/create", form, &out); err != nil {
		return nil, err
	}
	if !out.Status || out.Data.ID == "" {
		return nil, fmt.Errorf("deposit create rejected: %s", out.Message)
	}
	return &adapter.Invoice{
		ID:         out.Data.ID,
		Reference:  out.Data.ReffID,
		Amount:     out.Data.Nominal,
		QRString:   out.Data.QRString,
		QRImageURL: out.Data.QRImageURL,
	}, nil
}

func (g *QRISGateway) DepositStatus(ctx context.Context, id string) (adapter.DepositStatus, error) {
	var out depositEnvelope
	if err := g.post(ctx, "/deposit/status", map[string]string{"id": id}, &out); err != nil {
		return "", err
	}
	if !out.Status {
		return "", fmt.Errorf("deposit status rejected: %s", out.Message)
	}
	switch strings.ToLower(out.Data.Status) {
	case "processing":
		return adapter.DepositStatusProcessing, nil
	case "success":
		return adapter.DepositStatusSuccess, nil
	case "failed":
		return adapter.DepositStatusFailed, nil
	case "cancel":
		return adapter.DepositStatusCancel, nil
	default:
		return adapter.DepositStatusCreated, nil
	}
}

func (g *QRISGateway) CancelDeposit(ctx context.Context, id string) error {
	var out depositEnvelope
	if err := g.post(ctx, "/deposit/cancel", map[string]string{"id": id}, &out); err != nil {
		return err
	}
	if !out.Status {
		return fmt.Errorf("deposit cancel rejected: %s", out.Message)
	}
	return nil
}

func (g *QRISGateway) InstantSettle(ctx context.Context, id string) error {
	var out depositEnvelope
	form := map[string]string{"id": id, "action": "true"}
	if err := g.post(ctx, "/deposit/instant", form, &out); err != nil {
		return err
	}
	if !out.Status {
		return fmt.Errorf("instant settle rejected: %s", out.Message)
	}
	return nil
}
