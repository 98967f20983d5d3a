package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultCourierEndpoint is the Courier API base URL.
const DefaultCourierEndpoint = "https://api.courier.com"

// CourierSender posts messages to the Courier send API.
type CourierSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewCourierSender(endpoint, apiKey string) *CourierSender {
	if endpoint == "" {
		endpoint = DefaultCourierEndpoint
	}
	return &CourierSender{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type courierRequest struct {
	Message courierMessage `json:"message"`
}

type courierMessage struct {
	To       courierTo         `json:"to"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}

type courierTo struct {
	Email string `json:"email"`
}

func (s *CourierSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(courierRequest{Message: courierMessage{
		To:       courierTo{Email: msg.To},
		Template: msg.TemplateID,
		Data:     msg.Data,
	}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("courier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("courier: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
