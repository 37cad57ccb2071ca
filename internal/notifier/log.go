package notifier

import "context"

// LogNotifier пишет уведомления в лог вместо отправки.
// Используется в окружениях без настроенного Twilio.
type LogNotifier struct {
	log Logger
}

// NewLogNotifier создает лог-нотификатор
func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify логирует уведомление
func (l *LogNotifier) Notify(_ context.Context, n Notification) {
	l.log.Info("Notification event=%s booking_id=%d phone=%s: %s",
		n.Event, n.Booking.ID, n.Phone, renderMessage(n))
}
