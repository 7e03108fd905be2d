package domain

// Time format constants
const (
	TimeFormat     = "15:04"      // HH:MM
	DateFormat     = "2006-01-02" // YYYY-MM-DD
	MonthDayFormat = "01-02"      // MM-DD, для ежегодных праздников
)

// Default settings values
const (
	DefaultBufferTimeMinutes = 0
	DefaultMaxAdvanceDays    = 90
	DefaultMinAdvanceHours   = 0
)

// Business validation constants
const (
	MinRuleNameLength    = 3
	MaxRuleNameLength    = 200
	MaxScopeIDs          = 100
	MinDurationMinutes   = 5
	MaxDurationMinutes   = 480 // 8 часов
	MaxAdvanceDaysLimit  = 365
	MaxAdvanceHoursLimit = 24 * 30
	MaxPatchTestHours    = 24 * 30
	MaxDaysBetween       = 365
	MaxBookingsPerDayCap = 20
	MaxAuditDetailLength = 500
)
