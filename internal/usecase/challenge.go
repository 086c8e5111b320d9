package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/core/port"
	"github.com/primegourmet/phone-auth/internal/infra/security"
	"github.com/primegourmet/phone-auth/internal/infra/telemetry"
)

// CustomChallengeName is the challenge type announced to the identity platform.
const CustomChallengeName = "CUSTOM_CHALLENGE"

const challengeSMSTemplate = "Your verification code is: %s"

var challengeMetadataPattern = regexp.MustCompile(`CODE-(\d+)`)

var (
	// ErrUserNotFound terminates the auth flow for unknown users. The error
	// must propagate to the platform; raising it is the failure signal.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrChallengeMetadata indicates the carried challenge metadata does not
	// match the CODE-<digits> pattern. Fatal for the attempt.
	ErrChallengeMetadata = errors.New("invalid challenge metadata format")
	// ErrMissingChallengeAnswer indicates the verifier was invoked without the
	// expected answer, a defect in the calling trigger chain.
	ErrMissingChallengeAnswer = errors.New("challenge answer parameters missing")
)

// ChallengeDirective carries the response flags for the challenge-definer
// trigger.
type ChallengeDirective struct {
	ChallengeName      string
	IssueTokens        bool
	FailAuthentication bool
}

// ChallengeMaterial carries the outputs of the challenge-creator trigger. The
// answer is only ever exposed through the private parameters.
type ChallengeMaterial struct {
	MaskedPhone string
	Answer      string
	Metadata    string
}

// ChallengeService implements the three cooperating custom-auth triggers:
// deciding the next step, issuing the one-time code, and verifying the answer.
type ChallengeService struct {
	sender  port.NotificationSender
	metrics *telemetry.AuthMetrics
	logger  *zap.Logger
}

// NewChallengeService constructs the challenge service.
func NewChallengeService(sender port.NotificationSender, metrics *telemetry.AuthMetrics, logger *zap.Logger) *ChallengeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChallengeService{sender: sender, metrics: metrics, logger: logger}
}

// DefineChallenge decides how the flow proceeds. For a rejected flow the
// directive flags failure and the returned error carries the platform-level
// fail signal; callers must re-raise it, never swallow it.
func (s *ChallengeService) DefineChallenge(_ context.Context, userNotFound bool, session []domain.ChallengeAttempt) (ChallengeDirective, error) {
	outcome := domain.DecideChallenge(userNotFound, session)

	s.logger.Debug("challenge decision",
		zap.Stringer("outcome", outcome),
		zap.Int("session_length", len(session)),
	)

	switch outcome {
	case domain.OutcomeRejected:
		return ChallengeDirective{FailAuthentication: true, IssueTokens: false}, ErrUserNotFound
	case domain.OutcomeAuthenticated:
		return ChallengeDirective{FailAuthentication: false, IssueTokens: true}, nil
	default:
		return ChallengeDirective{
			ChallengeName:      CustomChallengeName,
			FailAuthentication: false,
			IssueTokens:        false,
		}, nil
	}
}

// CreateChallenge produces the secret code for the current challenge. On the
// first attempt a fresh code is generated and delivered; retries re-emit the
// code carried in the last attempt's metadata so exactly one SMS is sent per
// logical challenge.
func (s *ChallengeService) CreateChallenge(ctx context.Context, phoneNumber string, session []domain.ChallengeAttempt) (material ChallengeMaterial, err error) {
	defer func() {
		s.metrics.RecordAuthAttempt(err == nil)
	}()

	var code string
	if len(session) == 0 {
		code, err = security.GenerateVerificationCode()
		if err != nil {
			return ChallengeMaterial{}, err
		}
		if err = s.sender.SendSMS(ctx, phoneNumber, fmt.Sprintf(challengeSMSTemplate, code)); err != nil {
			return ChallengeMaterial{}, fmt.Errorf("deliver challenge code: %w", err)
		}
	} else {
		previous := session[len(session)-1]
		match := challengeMetadataPattern.FindStringSubmatch(previous.Metadata)
		if match == nil {
			return ChallengeMaterial{}, ErrChallengeMetadata
		}
		code = match[1]

		s.logger.Info("reusing previous challenge code",
			zap.Int("attempt_number", len(session)),
		)
	}

	return ChallengeMaterial{
		MaskedPhone: security.MaskPhoneNumber(phoneNumber),
		Answer:      code,
		Metadata:    "CODE-" + code,
	}, nil
}

// VerifyChallenge compares the expected answer against the user-submitted one.
func (s *ChallengeService) VerifyChallenge(_ context.Context, expected, submitted string) (bool, error) {
	if expected == "" {
		return false, ErrMissingChallengeAnswer
	}

	correct := expected == submitted

	s.logger.Info("challenge verification",
		zap.Bool("answer_correct", correct),
	)
	return correct, nil
}
