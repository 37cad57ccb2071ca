package staff

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с барберами и их доступностью
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория барберов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает барбера в пределах tenant
func (r *Repository) GetByID(ctx context.Context, tenantID, barberID int64) (*domain.Barber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"display_name",
		"active",
		"created_at",
		"updated_at",
	).
		From("barbers").
		Where(squirrel.Eq{"id": barberID, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Barber
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.TenantID,
		&b.DisplayName,
		&b.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBarberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan barber: %v", ErrScanRow, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// GetWindowForWeekday получает рабочее окно барбера на день недели.
// У барбера не больше одного окна на каждый день недели.
func (r *Repository) GetWindowForWeekday(ctx context.Context, tenantID, barberID int64, weekday time.Weekday) (*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"barber_id",
		"weekday",
		"start_time",
		"end_time",
	).
		From("availability_windows").
		Where(squirrel.Eq{
			"tenant_id": tenantID,
			"barber_id": barberID,
			"weekday":   int(weekday),
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowForWeekday - build select query: %v", ErrBuildQuery, err)
	}

	var w domain.AvailabilityWindow
	var weekdayInt int

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&w.ID,
		&w.TenantID,
		&w.BarberID,
		&weekdayInt,
		&w.StartTime,
		&w.EndTime,
	)

	if err == sql.ErrNoRows {
		return nil, ErrWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowForWeekday - scan window: %v", ErrScanRow, err)
	}

	w.Weekday = time.Weekday(weekdayInt)

	return &w, nil
}

// ListBreaks получает все перерывы барбера.
// Перерывы не привязаны к дате и действуют каждый рабочий день.
func (r *Repository) ListBreaks(ctx context.Context, tenantID, barberID int64) ([]*domain.Break, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"barber_id",
		"start_time",
		"end_time",
	).
		From("breaks").
		Where(squirrel.Eq{
			"tenant_id": tenantID,
			"barber_id": barberID,
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]*domain.Break, 0)
	for rows.Next() {
		var b domain.Break
		if err := rows.Scan(&b.ID, &b.TenantID, &b.BarberID, &b.StartTime, &b.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ListBreaks - scan break: %v", ErrScanRow, err)
		}
		breaks = append(breaks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - rows error: %v", ErrScanRow, err)
	}

	return breaks, nil
}
