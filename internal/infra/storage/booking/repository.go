package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// bookingColumns полный список колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"tenant_id",
	"customer_id",
	"barber_id",
	"service_id",
	"booking_date",
	"start_time",
	"duration_minutes",
	"status",
	"payment_status",
	"service_name",
	"price_minor",
	"deposit_minor",
	"outstanding_minor",
	"expires_at",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockSchedule берёт эксклюзивный advisory lock на расписание (tenant, barber, date).
// Лок транзакционный (pg_advisory_xact_lock): снимается автоматически на commit/rollback,
// поэтому вызывать его можно только внутри активной транзакции.
// Все конкурентные попытки бронирования одного барбера на один день
// сериализуются на этом локе; разные барберы, дни и tenant не блокируют друг друга.
func (r *Repository) LockSchedule(ctx context.Context, tenantID, barberID int64, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrLockOutsideTransaction
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("bookings:%d:%d:%s", tenantID, barberID, date.Format(domain.DateFormat))
	_, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key)
	if err != nil {
		return fmt.Errorf("%w: LockSchedule - acquire advisory lock: %v", ErrExecQuery, err)
	}

	return nil
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её — при создании
// с проверкой доступности слота вставка обязана идти в той же транзакции,
// что и чтение расписания под локом.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tenant_id",
			"customer_id",
			"barber_id",
			"service_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"status",
			"payment_status",
			"service_name",
			"price_minor",
			"deposit_minor",
			"outstanding_minor",
			"expires_at",
		).
		Values(
			booking.TenantID,
			booking.CustomerID,
			booking.BarberID,
			booking.ServiceID,
			booking.BookingDate,
			booking.StartTime,
			booking.DurationMinutes,
			booking.Status,
			booking.PaymentStatus,
			booking.ServiceName,
			booking.PriceMinor,
			booking.DepositMinor,
			booking.OutstandingMinor,
			booking.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование в пределах tenant
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByIDAnyTenant получает бронирование без привязки к tenant.
// Используется только на пути webhook платежей, где бронирование ищется
// по глобально уникальному intent id через таблицу payments.
func (r *Repository) GetByIDAnyTenant(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDAnyTenant - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByIDAnyTenant")
}

// GetScheduleForDay получает бронирования барбера на дату, отсортированные по времени начала.
// По умолчанию отменённые бронирования исключаются — они не занимают слот.
// При filter.ForUpdateLock внутри транзакции добавляется FOR UPDATE: прочитанные
// строки блокируются до конца транзакции (используется проверкой конфликтов).
func (r *Repository) GetScheduleForDay(ctx context.Context, filter domain.BarberScheduleFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"tenant_id":    filter.TenantID,
			"barber_id":    filter.BarberID,
			"booking_date": filter.Date,
		}).
		OrderBy("start_time ASC")

	if !filter.IncludeFreed {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	if filter.ForUpdateLock && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduleForDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduleForDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Confirm подтверждает бронирование после успешной оплаты депозита:
// status -> confirmed, payment_status -> deposit_paid, expires_at очищается.
// Условие в WHERE зеркально CancelExpired: если sweeper успел отменить
// бронирование, ни одна строка не обновится и вернётся ErrBookingNotFound —
// отменённая строка никогда не возвращается в confirmed.
func (r *Repository) Confirm(ctx context.Context, id int64) error {
	return r.update(ctx, "Confirm", psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("payment_status", domain.PaymentStatusDepositPaid).
		Set("expires_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": string(domain.StatusPending),
		}))
}

// Cancel отменяет бронирование с указанием причины:
// status -> cancelled, payment_status -> cancelled, expires_at очищается
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, "Cancel", psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("payment_status", domain.PaymentStatusCancelled).
		Set("expires_at", nil).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateStatus обновляет статус бронирования (complete, no_show)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.update(ctx, "UpdateStatus", psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdatePaymentStatus обновляет платёжный статус бронирования (mark-paid)
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.BookingPaymentStatus) error {
	return r.update(ctx, "UpdatePaymentStatus", psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// MarkPaidInShop помечает оплату на месте: payment_status -> fully_paid.
// Подтверждается только ещё не подтверждённое (pending) бронирование;
// confirmed и completed сохраняют свой статус — оплатить остаток можно
// и после состоявшегося визита.
func (r *Repository) MarkPaidInShop(ctx context.Context, id int64) error {
	return r.update(ctx, "MarkPaidInShop", psqlbuilder.Update("bookings").
		Set("payment_status", domain.PaymentStatusFullyPaid).
		Set("status", squirrel.Expr("CASE WHEN status = ? THEN ? ELSE status END",
			string(domain.StatusPending), string(domain.StatusConfirmed))).
		Set("expires_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []string{
			string(domain.StatusPending),
			string(domain.StatusConfirmed),
			string(domain.StatusCompleted),
		}}))
}

// CancelExpired отменяет бронирование, всё ещё ожидающее депозит.
// Условие в WHERE защищает от гонки со webhook-ом: если бронирование успели
// подтвердить, ни одна строка не обновится и вернётся ErrBookingNotFound.
func (r *Repository) CancelExpired(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, "CancelExpired", psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("payment_status", domain.PaymentStatusCancelled).
		Set("expires_at", nil).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":             id,
			"status":         string(domain.StatusPending),
			"payment_status": string(domain.PaymentStatusDepositPending),
		}))
}

// Reschedule переносит бронирование на новую дату и время
func (r *Repository) Reschedule(ctx context.Context, id int64, date time.Time, startTime types.TimeString) error {
	return r.update(ctx, "Reschedule", psqlbuilder.Update("bookings").
		Set("booking_date", date).
		Set("start_time", startTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// FindExpired находит бронирования, ожидающие депозит дольше дедлайна.
// Скан глобальный (по всем tenant) — это единственный tenant-agnostic запрос
// к таблице bookings, используется только sweeper-ом.
func (r *Repository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"status":         string(domain.StatusPending),
			"payment_status": string(domain.PaymentStatusDepositPending),
		}).
		Where(squirrel.Lt{"expires_at": now}).
		OrderBy("expires_at ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindExpired - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindExpired - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

func (r *Repository) update(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row *sql.Row, op string) (*domain.Booking, error) {
	booking, err := scanBookingFrom(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}
	return booking, nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBookingFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func scanBookingFrom(scanner rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var expiresAt, cancelledAt, createdAt, updatedAt sql.NullTime

	err := scanner.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.CustomerID,
		&booking.BarberID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.ServiceName,
		&booking.PriceMinor,
		&booking.DepositMinor,
		&booking.OutstandingMinor,
		&expiresAt,
		&booking.CancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		booking.ExpiresAt = &expiresAt.Time
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
