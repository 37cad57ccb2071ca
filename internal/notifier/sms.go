package notifier

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSNotifier отправляет SMS через Twilio
type SMSNotifier struct {
	client *twilio.RestClient
	from   string
	log    Logger
}

// NewSMSNotifier создает новый SMS-нотификатор
func NewSMSNotifier(accountSID, authToken, from string, log Logger) *SMSNotifier {
	return &SMSNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
		log:  log,
	}
}

// Notify отправляет SMS клиенту. Ошибки доставки логируются и глотаются:
// уведомление никогда не откатывает уже закоммиченную операцию.
func (s *SMSNotifier) Notify(_ context.Context, n Notification) {
	message := renderMessage(n)
	if message == "" || n.Phone == "" {
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.Phone)
	params.SetFrom(s.from)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.log.Error("Failed to send SMS event=%s booking_id=%d: %v", n.Event, n.Booking.ID, err)
		return
	}

	if resp.Sid != nil {
		s.log.Info("SMS sent event=%s booking_id=%d sid=%s", n.Event, n.Booking.ID, *resp.Sid)
	} else {
		s.log.Warn("SMS sent event=%s booking_id=%d, but no SID returned", n.Event, n.Booking.ID)
	}
}
