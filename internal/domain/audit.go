package domain

import "time"

// AuditEntityType тип сущности в журнале изменений правил
type AuditEntityType string

const (
	AuditEntityBookingRule        AuditEntityType = "booking_rule"
	AuditEntityServiceBookingRule AuditEntityType = "service_booking_rule"
	AuditEntityBookingSettings    AuditEntityType = "booking_settings"
)

// AuditAction действие над сущностью
type AuditAction string

const (
	AuditActionCreated     AuditAction = "created"
	AuditActionUpdated     AuditAction = "updated"
	AuditActionDeactivated AuditAction = "deactivated"
)

// RuleAuditEntry запись журнала изменений правил
// Правила никогда не удаляются физически - деактивация фиксируется здесь
type RuleAuditEntry struct {
	ID          int64
	EntityType  AuditEntityType
	EntityID    int64
	Action      AuditAction
	ActorUserID int64
	Detail      string // краткое описание изменения
	CreatedAt   time.Time
}
