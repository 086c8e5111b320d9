package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/infra/config"
	"github.com/primegourmet/phone-auth/internal/infra/identity"
	kafkainfra "github.com/primegourmet/phone-auth/internal/infra/kafka"
	"github.com/primegourmet/phone-auth/internal/infra/logger"
	"github.com/primegourmet/phone-auth/internal/infra/notification"
	"github.com/primegourmet/phone-auth/internal/infra/telemetry"
	"github.com/primegourmet/phone-auth/internal/repository/dynamo"
	"github.com/primegourmet/phone-auth/internal/usecase"
)

// LambdaRuntime carries the dependencies shared by every Lambda entrypoint:
// configuration, the zap logger, the AWS SDK config and the auth metrics.
// Each binary builds it once at cold start.
type LambdaRuntime struct {
	Cfg     *config.AppConfig
	Logger  *zap.Logger
	AWS     aws.Config
	Metrics *telemetry.AuthMetrics
}

// NewLambdaRuntime loads configuration and initialises the AWS SDK.
func NewLambdaRuntime(ctx context.Context) (*LambdaRuntime, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWS.Region),
		awsconfig.WithRetryMaxAttempts(cfg.AWS.MaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	metrics, err := telemetry.NewAuthMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return &LambdaRuntime{
		Cfg:     cfg,
		Logger:  log,
		AWS:     awsCfg,
		Metrics: metrics,
	}, nil
}

// ChallengeService builds the custom challenge use case on SNS delivery.
func (r *LambdaRuntime) ChallengeService() *usecase.ChallengeService {
	sender := notification.NewSNSSender(sns.NewFromConfig(r.AWS), r.Metrics, r.Logger)
	return usecase.NewChallengeService(sender, r.Metrics, r.Logger)
}

// RegistrationService builds the registration use case on DynamoDB, Cognito
// and SNS. Registration events are logged rather than produced to Kafka;
// the Lambda deployables have no broker access.
func (r *LambdaRuntime) RegistrationService() *usecase.RegistrationService {
	store := dynamo.NewPendingRegistrationStore(dynamodb.NewFromConfig(r.AWS), r.Cfg.Dynamo.PendingTable)
	provider := identity.NewCognitoAdmin(
		cognitoidentityprovider.NewFromConfig(r.AWS),
		r.Cfg.Cognito.UserPoolID,
		r.Cfg.Cognito.ClientID,
		r.Logger,
	)
	sender := notification.NewSNSSender(sns.NewFromConfig(r.AWS), r.Metrics, r.Logger)
	events := kafkainfra.NewStubPublisher(r.Logger)

	return usecase.NewRegistrationService(store, provider, sender, events, r.Metrics, r.Logger).
		WithPendingTTL(r.Cfg.Registration.PendingTTL)
}
