package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"userkit/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type ResetLinkSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	senderEmail           string
	senderName            string
	passwordResetTemplate string
	passwordResetBaseUrl  url.URL
}

func NewResetLinkSender(
	awsConfig aws.Config,
	senderEmail string,
	senderName string,
	passwordResetTemplate string,
	passwordResetBaseUrl url.URL,
) *ResetLinkSender {
	return &ResetLinkSender{
		ses:                   ses.NewFromConfig(awsConfig),
		senderEmail:           senderEmail,
		senderName:            senderName,
		passwordResetTemplate: passwordResetTemplate,
		passwordResetBaseUrl:  passwordResetBaseUrl,
	}
}

// SendResetLink emails the redemption URL. The link carries the user
// identifier and the raw secret as path parameters, so anyone clicking it
// lands on the reset endpoint with everything redeem needs.
func (s *ResetLinkSender) SendResetLink(ctx context.Context, u user.User, secret user.ResetSecret) error {
	if !u.Email.IsPresent {
		return fmt.Errorf("email is not defined for user %d", u.ID)
	}

	templateParamsBytes, err := json.Marshal(
		passwordResetTemplateParams{
			PasswordResetUrl: ResetURL(s.passwordResetBaseUrl, u.Identifier, secret),
			Username:         string(u.Identifier),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email.Value)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: aws.String(s.source()),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

func (s *ResetLinkSender) source() string {
	if s.senderName == "" {
		return s.senderEmail
	}
	return fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
}

// ResetURL builds the absolute redemption URL:
// <base>/<userIdentifier>/<secretCode>.
func ResetURL(base url.URL, identifier user.Identifier, secret user.ResetSecret) string {
	return base.JoinPath(string(identifier), string(secret)).String()
}

type passwordResetTemplateParams struct {
	PasswordResetUrl string `json:"passwordResetUrl"`
	Username         string `json:"username"`
}
