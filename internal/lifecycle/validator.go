package lifecycle

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// events конвертирует domain.Transitions в формат looplab/fsm.
// Переходы с одинаковой парой (event, dst) объединяются в один EventDesc
// с несколькими исходными статусами (cancel из pending и confirmed).
var events = buildEvents()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range domain.Transitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Validator проверяет переходы статусов бронирования по таблице domain.Transitions.
// На каждый Apply создаётся короткоживущий FSM, инициализированный текущим
// статусом: looplab/fsm хранит текущее состояние внутри себя.
type Validator struct{}

// New создает validator переходов статусов
func New() *Validator {
	return &Validator{}
}

// Apply проверяет, допустим ли event из статуса current, и возвращает новый статус.
// Недопустимый переход возвращает *domain.TransitionError, статус не меняется.
func (v *Validator) Apply(ctx context.Context, current domain.BookingStatus, event domain.Event) (domain.BookingStatus, error) {
	machine := loopfsm.NewFSM(string(current), events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", &domain.TransitionError{
				Event:   event,
				Current: current,
			}
		}
		return "", err
	}

	return domain.BookingStatus(machine.Current()), nil
}
