package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторная
	// регистрация визита за один день или гонка при создании кода подтверждения).
	ErrConflict = errors.New("resource state conflict")

	// ErrRateLimited используется, когда клиент превысил лимит запросов в окне.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrDependency используется при недоступности внешних зависимостей
	// (БД, почтовый сервис). Такие ошибки можно повторять с backoff.
	ErrDependency = errors.New("dependency unavailable")

	// ErrInternal используется для неожиданных нарушений инвариантов.
	// Наружу отдается только обобщенное сообщение, детали остаются в логе.
	ErrInternal = errors.New("internal error")
)
