package employee

import (
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// FEEDBACK
// Структурированная обратная связь по модели SBI (Situation-Behavior-Impact).
// ══════════════════════════════════════════════════════════════════════════════

// FeedbackRewardPoints - фиксированная награда за принятую обратную связь.
const FeedbackRewardPoints = 10

// Feedback представляет одну запись обратной связи.
type Feedback struct {
	// Recipient - кому адресована обратная связь.
	Recipient string

	// Situation - описание ситуации.
	Situation string

	// Behavior - наблюдаемое поведение.
	Behavior string

	// Impact - эффект поведения.
	Impact string

	// IsPrivate - видна ли запись только получателю.
	IsPrivate bool

	// CreatedAt - время подачи.
	CreatedAt time.Time
}

// MissingFields возвращает имена пустых обязательных полей.
// Все четыре текстовых поля обязательны и не могут состоять из пробелов.
func (f Feedback) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(f.Recipient) == "" {
		missing = append(missing, "recipient")
	}
	if strings.TrimSpace(f.Situation) == "" {
		missing = append(missing, "situation")
	}
	if strings.TrimSpace(f.Behavior) == "" {
		missing = append(missing, "behavior")
	}
	if strings.TrimSpace(f.Impact) == "" {
		missing = append(missing, "impact")
	}
	return missing
}

// IsValid возвращает true, если все обязательные поля заполнены.
func (f Feedback) IsValid() bool {
	return len(f.MissingFields()) == 0
}
