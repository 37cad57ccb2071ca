package domain

import "fmt"

// Event is a booking lifecycle trigger
type Event string

const (
	// EventConfirm переводит бронирование в confirmed после успешной оплаты депозита
	EventConfirm Event = "confirm"
	// EventCancel отменяет бронирование (клиент, сотрудник или sweeper)
	EventCancel Event = "cancel"
	// EventComplete помечает подтверждённое бронирование выполненным
	EventComplete Event = "complete"
	// EventNoShow помечает подтверждённое бронирование как неявку клиента
	EventNoShow Event = "no_show"
)

// Transition is a single allowed edge of the booking status machine
type Transition struct {
	Event Event
	Src   BookingStatus
	Dst   BookingStatus
}

// Transitions is the full booking status transition table.
// completed, cancelled and no_show are terminal: no transition starts there.
var Transitions = []Transition{
	{Event: EventConfirm, Src: StatusPending, Dst: StatusConfirmed},
	{Event: EventCancel, Src: StatusPending, Dst: StatusCancelled},
	{Event: EventCancel, Src: StatusConfirmed, Dst: StatusCancelled},
	{Event: EventComplete, Src: StatusConfirmed, Dst: StatusCompleted},
	{Event: EventNoShow, Src: StatusConfirmed, Dst: StatusNoShow},
}

// TransitionError is returned when an event is not allowed from the current status.
// The entity is left unchanged.
type TransitionError struct {
	Event   Event
	Current BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: event %q is not allowed from status %q", e.Event, e.Current)
}
