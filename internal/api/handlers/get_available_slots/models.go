package get_available_slots

import (
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
)

// SlotView HTTP представление слота
type SlotView struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	BarberID  int64      `json:"barberId"`
	ServiceID int64      `json:"serviceId"`
	Date      string     `json:"date"`
	Slots     []SlotView `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotView, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotView{
			StartTime:       s.StartTime.String(),
			DurationMinutes: s.DurationMinutes,
		}
	}

	return &SlotsResponse{
		BarberID:  resp.BarberID,
		ServiceID: resp.ServiceID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}
