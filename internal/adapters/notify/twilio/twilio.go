// Package twilio envía recordatorios por SMS usando la API REST de Twilio.
package twilio

import (
	"context"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/ports/notify"
)

type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// messageCreator es el subconjunto de la API que usamos (facilita tests).
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Notifier struct {
	api  messageCreator
	from string
}

func New(cfg Config) (*Notifier, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, apperrors.Configuration("twilio credentials are required")
	}
	if strings.TrimSpace(cfg.FromNumber) == "" {
		return nil, apperrors.Configuration("twilio from number is required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Notifier{api: client.Api, from: cfg.FromNumber}, nil
}

func (n *Notifier) Send(ctx context.Context, m notify.Message) error {
	to := strings.TrimSpace(m.To)
	if to == "" {
		return apperrors.Validation("recipient phone is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(m.Body)

	if _, err := n.api.CreateMessage(params); err != nil {
		return apperrors.DataAccess("send sms", err)
	}
	return nil
}
