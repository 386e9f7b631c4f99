package sms

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amirsaid123/UY-Bor/internal/config"
)

// Sender defines the interface for delivering SMS messages.
type Sender interface {
	Send(ctx context.Context, phoneNumber string, message string) error
}

// GatewaySender implements the Sender interface against an HTTP SMS gateway.
type GatewaySender struct {
	cfg    *config.Config
	client *http.Client
}

// NewGatewaySender creates a gateway-backed sender, falling back to a
// LoggingSender when no gateway is configured.
func NewGatewaySender(cfg *config.Config) Sender {
	if cfg.SmsGatewayURL == "" {
		log.Println("SMS gateway not configured, using logging SMS sender.")
		return &LoggingSender{cfg: cfg}
	}
	return &GatewaySender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts the message to the configured gateway.
func (s *GatewaySender) Send(ctx context.Context, phoneNumber string, message string) error {
	form := url.Values{}
	form.Set("mobile_phone", strings.TrimPrefix(phoneNumber, "+"))
	form.Set("message", message)
	form.Set("from", s.cfg.SmsSenderName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.SmsGatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.cfg.SmsGatewayToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.SmsGatewayToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("SMS sent via gateway to %s", phoneNumber)
	return nil
}

// LoggingSender is a mock implementation that just logs message details.
// Useful for development or when the gateway isn't configured.
type LoggingSender struct {
	cfg *config.Config
}

// Send logs the SMS details instead of sending.
func (s *LoggingSender) Send(ctx context.Context, phoneNumber string, message string) error {
	log.Printf("--- Sending SMS (Logged) ---")
	log.Printf("To: %s", phoneNumber)
	log.Printf("From: %s", s.cfg.SmsSenderName)
	log.Printf("Message: %s", message)
	log.Println("--- End SMS ---")
	return nil
}
