package service

import "errors"

// Кастомные ошибки сервисов. Обработчики переводят их в безопасные для
// пользователя сообщения; внутренние детали наружу не выходят.
var (
	// Ошибки движка погашения тикетов. Каждая ступень проверки имеет свою
	// ошибку, порядок ступеней фиксирован.
	ErrTicketWrongUser     = errors.New("ticket does not belong to this user")
	ErrTicketWrongBusiness = errors.New("ticket is not valid for this business")
	ErrStaleTicket         = errors.New("ticket does not correspond to the current month")
	ErrDuplicateVisit      = errors.New("visit already registered for this day")

	// ErrInvalidCode — обобщенный отказ проверки одноразового кода:
	// не найден, не совпал или истек. Причина наружу не различается.
	ErrInvalidCode = errors.New("invalid or expired code")

	ErrEmailAlreadyRegistered = errors.New("email is already registered")
	ErrPhoneAlreadyRegistered = errors.New("phone is already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")

	ErrBusinessNotFound = errors.New("business not found")
)
