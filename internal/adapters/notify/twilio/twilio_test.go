package twilio

import (
	"context"
	"errors"
	"testing"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/ports/notify"
)

type fakeAPI struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeAPI) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &twilioApi.ApiV2010Message{}, nil
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New(Config{FromNumber: "+5600000000"}); !errors.Is(err, apperrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, err := New(Config{AccountSID: "AC1", AuthToken: "tok"}); !errors.Is(err, apperrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration without from number, got %v", err)
	}
}

func TestSend_BuildsParams(t *testing.T) {
	api := &fakeAPI{}
	n := &Notifier{api: api, from: "+56911111111"}

	if err := n.Send(context.Background(), notify.Message{To: " +56922222222 ", Body: "hola"}); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if api.params == nil || *api.params.To != "+56922222222" || *api.params.From != "+56911111111" || *api.params.Body != "hola" {
		t.Fatalf("unexpected params %+v", api.params)
	}
}

func TestSend_Errors(t *testing.T) {
	n := &Notifier{api: &fakeAPI{err: errors.New("401")}, from: "+1"}

	if err := n.Send(context.Background(), notify.Message{To: "", Body: "x"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty recipient, got %v", err)
	}
	if err := n.Send(context.Background(), notify.Message{To: "+2", Body: "x"}); !errors.Is(err, apperrors.ErrDataAccess) {
		t.Fatalf("expected ErrDataAccess on api failure, got %v", err)
	}
}
