package twilio

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"easymed/internal/ports/telephony"
)

type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Dialer coloca llamadas de voz reales vía Twilio. El mensaje va como TwiML
// <Say> con la voz "alice".
type Dialer struct {
	client *twilio.RestClient
	from   string
}

func NewDialer(cfg Config) (*Dialer, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilio: account sid and auth token are required")
	}
	if strings.TrimSpace(cfg.FromNumber) == "" {
		return nil, errors.New("twilio: from number is required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &Dialer{client: client, from: strings.TrimSpace(cfg.FromNumber)}, nil
}

// Place ignora el context: el cliente de Twilio no acepta uno, así que la
// llamada bloquea hasta que el SDK resuelva (timeout del transporte incluido).
func (d *Dialer) Place(_ context.Context, c telephony.Call) (string, error) {
	params := &api.CreateCallParams{}
	params.SetTo(c.To)
	params.SetFrom(d.from)
	params.SetTwiml(fmt.Sprintf(
		`<Response><Say voice="alice">%s</Say></Response>`,
		html.EscapeString(c.Message),
	))

	resp, err := d.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("twilio: create call: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
