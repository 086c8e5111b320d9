package lambda

import (
	"github.com/aws/aws-lambda-go/events"

	"github.com/primegourmet/phone-auth/internal/core/domain"
)

// attemptsFromSession converts the trigger session array into domain attempts,
// skipping nil entries the platform should never produce.
func attemptsFromSession(session []*events.CognitoEventUserPoolsChallengeResult) []domain.ChallengeAttempt {
	attempts := make([]domain.ChallengeAttempt, 0, len(session))
	for _, result := range session {
		if result == nil {
			continue
		}
		attempts = append(attempts, domain.ChallengeAttempt{
			Metadata: result.ChallengeMetadata,
			Result:   result.ChallengeResult,
		})
	}
	return attempts
}
