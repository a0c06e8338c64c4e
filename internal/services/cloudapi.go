package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/yeheskieltame/asisten-backend/internal/apperrors"
)

const graphAPIBaseURL = "https://graph.facebook.com/v19.0"

// CloudAPINotifier sends WhatsApp messages through the Meta Cloud API,
// the transport that also delivers inbound webhooks.
type CloudAPINotifier struct {
	httpClient    *http.Client
	baseURL       string
	phoneNumberID string
	accessToken   string
}

// NewCloudAPINotifier creates a notifier from WHATSAPP_PHONE_NUMBER_ID
// and WHATSAPP_ACCESS_TOKEN.
func NewCloudAPINotifier() (*CloudAPINotifier, error) {
	phoneNumberID := os.Getenv("WHATSAPP_PHONE_NUMBER_ID")
	accessToken := os.Getenv("WHATSAPP_ACCESS_TOKEN")

	if phoneNumberID == "" || accessToken == "" {
		return nil, fmt.Errorf("missing WhatsApp Cloud API credentials in environment variables")
	}

	return &CloudAPINotifier{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		baseURL:       graphAPIBaseURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
	}, nil
}

type cloudAPIMessage struct {
	MessagingProduct string           `json:"messaging_product"`
	RecipientType    string           `json:"recipient_type"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             cloudAPITextBody `json:"text"`
}

type cloudAPITextBody struct {
	Body string `json:"body"`
}

// Send delivers a WhatsApp text message via the Cloud API messages
// endpoint.
func (c *CloudAPINotifier) Send(to string, text string) error {
	payload := cloudAPIMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             cloudAPITextBody{Body: text},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewTransportError(to, err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewTransportError(to, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransportError(to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewTransportError(to, fmt.Errorf("cloud api returned %d: %s", resp.StatusCode, detail))
	}
	return nil
}
