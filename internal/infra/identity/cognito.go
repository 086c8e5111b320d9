package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/core/port"
)

const (
	attrPhoneNumber         = "phone_number"
	attrName                = "name"
	attrPhoneNumberVerified = "phone_number_verified"
)

// CognitoAPI is the subset of the Cognito identity provider client used by
// the admin adapter.
type CognitoAPI interface {
	AdminGetUser(ctx context.Context, params *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	AdminConfirmSignUp(ctx context.Context, params *cip.AdminConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.AdminConfirmSignUpOutput, error)
	AdminUpdateUserAttributes(ctx context.Context, params *cip.AdminUpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error)
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

// CognitoAdmin implements port.IdentityProviderAdmin against a Cognito user
// pool. Usernames are E.164 phone numbers.
type CognitoAdmin struct {
	client     CognitoAPI
	userPoolID string
	clientID   string
	logger     *zap.Logger
}

// NewCognitoAdmin constructs the adapter for the given user pool and app client.
func NewCognitoAdmin(client CognitoAPI, userPoolID, clientID string, logger *zap.Logger) *CognitoAdmin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CognitoAdmin{
		client:     client,
		userPoolID: userPoolID,
		clientID:   clientID,
		logger:     logger,
	}
}

// FindAccount looks the username up in the pool.
func (a *CognitoAdmin) FindAccount(ctx context.Context, username string) error {
	_, err := a.client.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(a.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			return port.ErrAccountNotFound
		}
		return fmt.Errorf("cognito admin get user: %w", err)
	}
	return nil
}

// SignUp creates the account with the phone number as username.
func (a *CognitoAdmin) SignUp(ctx context.Context, input port.SignUpInput) error {
	_, err := a.client.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(a.clientID),
		Username: aws.String(input.Username),
		Password: aws.String(input.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String(attrPhoneNumber), Value: aws.String(input.PhoneNumber)},
			{Name: aws.String(attrName), Value: aws.String(input.Name)},
		},
	})
	if err != nil {
		return fmt.Errorf("cognito sign up: %w", err)
	}
	return nil
}

// ConfirmSignUp force-confirms the account.
func (a *CognitoAdmin) ConfirmSignUp(ctx context.Context, username string) error {
	_, err := a.client.AdminConfirmSignUp(ctx, &cip.AdminConfirmSignUpInput{
		UserPoolId: aws.String(a.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return fmt.Errorf("cognito admin confirm sign up: %w", err)
	}
	return nil
}

// MarkPhoneVerified flags the phone_number_verified attribute.
func (a *CognitoAdmin) MarkPhoneVerified(ctx context.Context, username string) error {
	_, err := a.client.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
		UserPoolId: aws.String(a.userPoolID),
		Username:   aws.String(username),
		UserAttributes: []types.AttributeType{
			{Name: aws.String(attrPhoneNumberVerified), Value: aws.String("true")},
		},
	})
	if err != nil {
		return fmt.Errorf("cognito admin update user attributes: %w", err)
	}
	return nil
}

// InitiateAuth performs a USER_PASSWORD_AUTH sign-in and maps the result to a
// token bundle.
func (a *CognitoAdmin) InitiateAuth(ctx context.Context, username, password string) (domain.TokenBundle, error) {
	out, err := a.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(a.clientID),
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("cognito initiate auth: %w", err)
	}

	result := out.AuthenticationResult
	if result == nil {
		return domain.TokenBundle{}, errors.New("cognito initiate auth: missing authentication result")
	}

	return domain.TokenBundle{
		AccessToken:  aws.ToString(result.AccessToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		IDToken:      aws.ToString(result.IdToken),
		ExpiresIn:    result.ExpiresIn,
		TokenType:    aws.ToString(result.TokenType),
	}, nil
}

var _ port.IdentityProviderAdmin = (*CognitoAdmin)(nil)
