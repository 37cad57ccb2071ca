package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/lifecycle"
)

func TestValidator_AllowedTransitions(t *testing.T) {
	v := lifecycle.New()
	ctx := context.Background()

	for _, tr := range domain.Transitions {
		dst, err := v.Apply(ctx, tr.Src, tr.Event)
		require.NoError(t, err, "Apply(%q, %q)", tr.Src, tr.Event)
		require.Equal(t, tr.Dst, dst, "Apply(%q, %q)", tr.Src, tr.Event)
	}
}

func TestValidator_InvalidTransitions(t *testing.T) {
	v := lifecycle.New()
	ctx := context.Background()

	cases := []struct {
		name    string
		current domain.BookingStatus
		event   domain.Event
	}{
		{"complete from pending", domain.StatusPending, domain.EventComplete},
		{"complete from cancelled", domain.StatusCancelled, domain.EventComplete},
		{"confirm from confirmed", domain.StatusConfirmed, domain.EventConfirm},
		{"confirm from completed", domain.StatusCompleted, domain.EventConfirm},
		{"cancel from completed", domain.StatusCompleted, domain.EventCancel},
		{"cancel from no_show", domain.StatusNoShow, domain.EventCancel},
		{"no_show from pending", domain.StatusPending, domain.EventNoShow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Apply(ctx, tc.current, tc.event)

			var trErr *domain.TransitionError
			require.ErrorAs(t, err, &trErr)
			require.Equal(t, tc.event, trErr.Event)
			require.Equal(t, tc.current, trErr.Current)
		})
	}
}

func TestValidator_TerminalStatusesHaveNoExits(t *testing.T) {
	v := lifecycle.New()
	ctx := context.Background()

	terminal := []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow}
	events := []domain.Event{domain.EventConfirm, domain.EventCancel, domain.EventComplete, domain.EventNoShow}

	for _, status := range terminal {
		for _, event := range events {
			_, err := v.Apply(ctx, status, event)

			var trErr *domain.TransitionError
			if !errors.As(err, &trErr) {
				t.Errorf("Apply(%q, %q): expected TransitionError, got %v", status, event, err)
			}
		}
	}
}
