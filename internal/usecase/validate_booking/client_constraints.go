package validate_booking

import (
	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
)

// evaluateClientConstraints проверяет ограничения, связанные со статусом клиента
// Применяется только при явно указанном client_id: без клиента проверка - no-op
func evaluateClientConstraints(candidate *domain.CandidateBooking, client *clientservice.Client) []string {
	if candidate.ClientID == nil || client == nil {
		return nil
	}

	violations := make([]string, 0)

	switch client.Status {
	case clientservice.StatusBlocked:
		violations = append(violations, "Client account is temporarily blocked, please contact the barbershop")
	case clientservice.StatusAtRisk:
		// Не жёсткая блокировка, а политика: клиенты в зоне риска бронируют по телефону
		violations = append(violations, "Please call the barbershop directly to book this appointment")
	}

	if client.HasPaymentIssue() {
		violations = append(violations, "There are unresolved payment issues on this account")
	}

	return violations
}
