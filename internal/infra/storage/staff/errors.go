package staff

import "errors"

var (
	// ErrBarberNotFound возвращается, когда барбер не найден в пределах tenant
	ErrBarberNotFound = errors.New("staff.repository: barber not found")

	// ErrWindowNotFound возвращается, когда у барбера нет рабочего окна на день недели
	ErrWindowNotFound = errors.New("staff.repository: availability window not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("staff.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("staff.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("staff.repository: failed to scan row")
)
