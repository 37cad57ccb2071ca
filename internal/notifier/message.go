package notifier

import "fmt"

// Тексты SMS для клиентов
const (
	msgConfirmed = "Ваша запись на %s в %s подтверждена. Услуга: %s."
	msgCancelled = "Ваша запись на %s в %s отменена."
	msgExpired   = "Ваша запись на %s в %s отменена: депозит не оплачен вовремя."
	msgCompleted = "Спасибо за визит! Будем рады видеть вас снова."
	msgNoShow    = "Вы не пришли на запись %s в %s. Свяжитесь с нами для новой записи."
)

// renderMessage собирает текст SMS по типу события
func renderMessage(n Notification) string {
	date := n.Booking.BookingDate.Format("02.01.2006")
	start := n.Booking.StartTime.String()

	switch n.Event {
	case EventBookingConfirmed:
		return fmt.Sprintf(msgConfirmed, date, start, n.Booking.ServiceName)
	case EventBookingCancelled:
		return fmt.Sprintf(msgCancelled, date, start)
	case EventBookingExpired:
		return fmt.Sprintf(msgExpired, date, start)
	case EventBookingCompleted:
		return msgCompleted
	case EventBookingNoShow:
		return fmt.Sprintf(msgNoShow, date, start)
	default:
		return ""
	}
}
