package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"restaurant-webhooks/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsAppPrefix = "whatsapp:"

type TwilioClient interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
	SendWhatsApp(ctx context.Context, to string, msg WhatsAppMessage) (string, error)
}

// WhatsAppMessage carries either a plain body or a content template with variables.
type WhatsAppMessage struct {
	Body             string
	ContentSID       string
	ContentVariables map[string]string
}

type twilioClientImpl struct {
	rest         *twilio.RestClient
	fromNumber   string
	whatsAppFrom string
}

// NewTwilioClient returns a log-only client when no account credentials are configured.
func NewTwilioClient(cfg *config.Twilio) TwilioClient {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		log.Warn().Msg("twilio credentials not set, outbound messages are logged only")
		return &logTwilioClient{}
	}

	return &twilioClientImpl{
		rest: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		fromNumber:   cfg.FromNumber,
		whatsAppFrom: cfg.WhatsAppFrom,
	}
}

func (c *twilioClientImpl) SendSMS(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.fromNumber)
	params.SetBody(body)

	return c.create(params)
}

func (c *twilioClientImpl) SendWhatsApp(ctx context.Context, to string, msg WhatsAppMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(whatsAppAddress(to))
	params.SetFrom(whatsAppAddress(c.whatsAppFrom))

	if msg.ContentSID != "" {
		params.SetContentSid(msg.ContentSID)
		if len(msg.ContentVariables) > 0 {
			vars, err := json.Marshal(msg.ContentVariables)
			if err != nil {
				return "", fmt.Errorf("encode content variables: %w", err)
			}
			params.SetContentVariables(string(vars))
		}
	} else {
		params.SetBody(msg.Body)
	}

	return c.create(params)
}

func (c *twilioClientImpl) create(params *openapi.CreateMessageParams) (string, error) {
	resp, err := c.rest.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, whatsAppPrefix) {
		return number
	}
	return whatsAppPrefix + number
}

type logTwilioClient struct{}

func (c *logTwilioClient) SendSMS(_ context.Context, to, body string) (string, error) {
	log.Info().Str("to", to).Str("body", body).Msg("sms not sent (log-only client)")
	return "", nil
}

func (c *logTwilioClient) SendWhatsApp(_ context.Context, to string, msg WhatsAppMessage) (string, error) {
	log.Info().
		Str("to", whatsAppAddress(to)).
		Str("body", msg.Body).
		Str("content_sid", msg.ContentSID).
		Msg("whatsapp message not sent (log-only client)")
	return "", nil
}
