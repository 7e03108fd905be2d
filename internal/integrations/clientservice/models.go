package clientservice

import (
	"strings"
	"time"
)

// ClientStatus статус клиента в CRM
type ClientStatus string

const (
	StatusActive  ClientStatus = "active"
	StatusAtRisk  ClientStatus = "at_risk"
	StatusBlocked ClientStatus = "blocked"
)

// Client модель клиента из ClientService
type Client struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	DateOfBirth *time.Time   `json:"date_of_birth,omitempty"`
	Status      ClientStatus `json:"status"`
	Tier        string       `json:"tier"` // категория клиента (new, regular, vip, ...)
	Notes       string       `json:"notes"`
}

// AgeAt возвращает возраст клиента в полных годах на указанную дату
// Если дата рождения неизвестна, возвращает (0, false)
func (c *Client) AgeAt(date time.Time) (int, bool) {
	if c.DateOfBirth == nil {
		return 0, false
	}

	dob := *c.DateOfBirth
	age := date.Year() - dob.Year()

	// Если день рождения в этом году ещё не наступил, вычитаем год
	if date.Month() < dob.Month() ||
		(date.Month() == dob.Month() && date.Day() < dob.Day()) {
		age--
	}

	if age < 0 {
		age = 0
	}
	return age, true
}

// paymentIssueMarker маркер проблем с оплатой в заметках клиента
// Проставляется CRM при неоплаченных счетах
const paymentIssueMarker = "payment issue"

// HasPaymentIssue проверяет, есть ли в заметках клиента маркер проблем с оплатой
func (c *Client) HasPaymentIssue() bool {
	return strings.Contains(strings.ToLower(c.Notes), paymentIssueMarker)
}

// AppointmentStatus статус записи в истории клиента
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Appointment запись из истории посещений клиента
type Appointment struct {
	ID        int64             `json:"id"`
	ClientID  int64             `json:"client_id"`
	ServiceID int64             `json:"service_id"`
	Status    AppointmentStatus `json:"status"`
	StartAt   time.Time         `json:"start_at"`
	Notes     string            `json:"notes"`
}

// IsCancelled проверяет, что запись была отменена
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentCancelled
}

// Маркеры в заметках записи, по которым определяется её назначение
const (
	consultationMarker = "consultation"
	patchTestMarker    = "patch test"
)

// IsConsultation проверяет, что запись была консультацией
func (a *Appointment) IsConsultation() bool {
	return strings.Contains(strings.ToLower(a.Notes), consultationMarker)
}

// IsPatchTest проверяет, что запись была тестом на аллергическую реакцию
func (a *Appointment) IsPatchTest() bool {
	return strings.Contains(strings.ToLower(a.Notes), patchTestMarker)
}

// ErrorResponse модель ошибки от ClientService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
