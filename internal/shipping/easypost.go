package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const easyPostBaseURL = "https://api.easypost.com/v2"

// EasyPost is the easypost.com aggregator. Unlike Shippo the shipment is
// created in a single call with inline addresses, and a label is bought by
// POSTing the chosen rate back to the shipment's buy endpoint. The API key
// goes in HTTP basic auth with an empty password.
type EasyPost struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewEasyPost returns an EasyPost provider authenticated with the given key.
func NewEasyPost(apiKey string) *EasyPost {
	return &EasyPost{
		apiKey:  apiKey,
		baseURL: easyPostBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (e *EasyPost) Name() string { return "easypost" }

type easyPostRate struct {
	ID           string `json:"id"`
	Carrier      string `json:"carrier"`
	Service      string `json:"service"`
	Rate         string `json:"rate"`
	Currency     string `json:"currency"`
	DeliveryDays int    `json:"delivery_days"`
	ShipmentID   string `json:"shipment_id"`
}

type easyPostShipment struct {
	ID    string         `json:"id"`
	Rates []easyPostRate `json:"rates"`
}

func (e *EasyPost) request(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal easypost request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(e.apiKey, "")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("easypost request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read easypost response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("easypost returned %d: %s", resp.StatusCode, truncate(string(data), 256))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode easypost response: %w", err)
		}
	}
	return nil
}

func easyPostAddress(addr Address) map[string]string {
	return map[string]string{
		"name":    addr.Name,
		"street1": addr.Street1,
		"street2": addr.Street2,
		"city":    addr.City,
		"state":   addr.State,
		"zip":     addr.Zip,
		"country": defaultString(addr.Country, "US"),
		"phone":   addr.Phone,
		"email":   addr.Email,
	}
}

// GetRates creates a shipment with inline addresses and maps its rates.
// Rate IDs are scoped to the shipment, so the shipment ID rides along in
// ShipmentID for the later buy call.
func (e *EasyPost) GetRates(ctx context.Context, from, to Address, parcel Parcel) ([]Rate, error) {
	payload := map[string]interface{}{
		"shipment": map[string]interface{}{
			"from_address": easyPostAddress(from),
			"to_address":   easyPostAddress(to),
			"parcel": map[string]float64{
				"length": parcel.Length,
				"width":  parcel.Width,
				"height": parcel.Height,
				"weight": parcel.Weight,
			},
		},
	}

	var shipment easyPostShipment
	if err := e.request(ctx, http.MethodPost, "/shipments", payload, &shipment); err != nil {
		return nil, err
	}

	rates := make([]Rate, 0, len(shipment.Rates))
	for _, r := range shipment.Rates {
		rates = append(rates, Rate{
			// Composite so CreateLabel can address the buy endpoint.
			RateID:        shipment.ID + ":" + r.ID,
			Provider:      e.Name(),
			Carrier:       r.Carrier,
			Service:       r.Service,
			AmountCents:   parseAmountCents(r.Rate),
			Currency:      r.Currency,
			EstimatedDays: r.DeliveryDays,
		})
	}
	return rates, nil
}

// CreateLabel buys a rate. Accepts the composite "shipment:rate" ID produced
// by GetRates.
func (e *EasyPost) CreateLabel(ctx context.Context, rateID string) (*Label, error) {
	shipmentID, bareRateID, err := splitEasyPostRateID(rateID)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"rate": map[string]string{"id": bareRateID},
	}
	var bought struct {
		TrackingCode string       `json:"tracking_code"`
		SelectedRate easyPostRate `json:"selected_rate"`
		PostageLabel struct {
			LabelURL string `json:"label_url"`
		} `json:"postage_label"`
	}
	path := fmt.Sprintf("/shipments/%s/buy", shipmentID)
	if err := e.request(ctx, http.MethodPost, path, payload, &bought); err != nil {
		return nil, err
	}

	return &Label{
		TrackingNumber: bought.TrackingCode,
		Carrier:        bought.SelectedRate.Carrier,
		LabelURL:       bought.PostageLabel.LabelURL,
		AmountCents:    parseAmountCents(bought.SelectedRate.Rate),
	}, nil
}

// GetTracking creates (or fetches) a tracker for the tracking number.
func (e *EasyPost) GetTracking(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error) {
	payload := map[string]interface{}{
		"tracker": map[string]string{
			"tracking_code": trackingNumber,
			"carrier":       carrier,
		},
	}
	var tracker struct {
		TrackingCode string `json:"tracking_code"`
		Status       string `json:"status"`
		StatusDetail string `json:"status_detail"`
	}
	if err := e.request(ctx, http.MethodPost, "/trackers", payload, &tracker); err != nil {
		return nil, err
	}
	return &TrackingInfo{
		TrackingNumber: tracker.TrackingCode,
		Status:         tracker.Status,
		StatusDetail:   tracker.StatusDetail,
	}, nil
}

func splitEasyPostRateID(rateID string) (shipmentID, bareRateID string, err error) {
	for i := 0; i < len(rateID); i++ {
		if rateID[i] == ':' {
			return rateID[:i], rateID[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("malformed easypost rate id %q, want shipment:rate", rateID)
}
