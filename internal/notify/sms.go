package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// SMSSender delivers one text message.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// SMSClient posts messages to the SMS provider's JSON API.
type SMSClient struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	partnerID  string
	shortcode  string
}

// NewSMSClient constructs a provider client.
func NewSMSClient(apiURL, apiKey, partnerID, shortcode string) *SMSClient {
	return &SMSClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiURL:     apiURL,
		apiKey:     apiKey,
		partnerID:  partnerID,
		shortcode:  shortcode,
	}
}

type smsRequest struct {
	APIKey    string `json:"apikey"`
	PartnerID string `json:"partnerID"`
	Message   string `json:"message"`
	Shortcode string `json:"shortcode"`
	Mobile    string `json:"mobile"`
}

func (c *SMSClient) Send(ctx context.Context, phoneNumber, message string) error {
	if c.apiURL == "" {
		return errors.New("notify: sms provider is not configured")
	}
	payload, err := json.Marshal(smsRequest{
		APIKey:    c.apiKey,
		PartnerID: c.partnerID,
		Message:   message,
		Shortcode: c.shortcode,
		Mobile:    phoneNumber,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notify: sms provider returned %d", resp.StatusCode)
	}
	return nil
}
