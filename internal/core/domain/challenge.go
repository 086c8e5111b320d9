package domain

// ChallengeAttempt is one round of the custom authentication flow as carried
// in the identity provider's session array. Metadata holds the issued code in
// the form "CODE-<digits>" and Result is set by the platform after the answer
// has been verified.
type ChallengeAttempt struct {
	Metadata string
	Result   bool
}

// ChallengeOutcome enumerates the possible decisions for an authentication session.
type ChallengeOutcome int

const (
	// OutcomeRejected terminates the flow because the user does not exist.
	OutcomeRejected ChallengeOutcome = iota
	// OutcomeChallengeIssued asks the platform to run (another) custom challenge round.
	OutcomeChallengeIssued
	// OutcomeAuthenticated terminates the flow successfully and issues tokens.
	OutcomeAuthenticated
)

// String returns the outcome name for logging.
func (o ChallengeOutcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeChallengeIssued:
		return "challenge_issued"
	case OutcomeAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// DecideChallenge inspects the session history and returns the next step of
// the flow. An empty session and a failed retry both map to
// OutcomeChallengeIssued; retries are bounded only by the platform's own
// attempt limit.
func DecideChallenge(userNotFound bool, session []ChallengeAttempt) ChallengeOutcome {
	if userNotFound {
		return OutcomeRejected
	}
	if len(session) > 0 && session[len(session)-1].Result {
		return OutcomeAuthenticated
	}
	return OutcomeChallengeIssued
}
