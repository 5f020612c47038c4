package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/jwalitptl/studio-automations/internal/config"
)

// SESService is the subset of the SES client the sender uses.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESSender struct {
	client   SESService
	from     string
	fromName string
}

func NewSESSender(ctx context.Context, cfg config.SESConfig, from, fromName string) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewSESSenderWithClient(ses.NewFromConfig(awsCfg), from, fromName), nil
}

func NewSESSenderWithClient(client SESService, from, fromName string) *SESSender {
	return &SESSender{client: client, from: from, fromName: fromName}
}

func (s *SESSender) Send(ctx context.Context, msg Message) (*Result, error) {
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{formatAddress(msg.To, msg.ToName)},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(formatAddress(s.from, s.fromName)),
	})
	if err != nil {
		if reason, ok := rejection(err); ok {
			return failed(reason), nil
		}
		return nil, fmt.Errorf("failed to call ses: %w", err)
	}
	return &Result{Success: true, MessageID: aws.ToString(out.MessageId)}, nil
}

// rejection reports whether SES refused the message itself.
func rejection(err error) (string, bool) {
	var (
		rejected      *types.MessageRejected
		unverified    *types.MailFromDomainNotVerifiedException
		missingConfig *types.ConfigurationSetDoesNotExistException
	)
	switch {
	case errors.As(err, &rejected):
		return rejected.ErrorMessage(), true
	case errors.As(err, &unverified):
		return unverified.ErrorMessage(), true
	case errors.As(err, &missingConfig):
		return missingConfig.ErrorMessage(), true
	}
	return "", false
}
