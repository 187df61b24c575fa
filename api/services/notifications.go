package services

import (
	"context"
	"fmt"

	"github.com/EO-DataHub/eodhp-group-services/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailClient is the subset of the SES client used to send notices.
type EmailClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends plain text notices through AWS SES.
type SESMailer struct {
	Client EmailClient
	Sender string
}

func (m *SESMailer) SendRemovalNotice(ctx context.Context, user models.User, group models.Group) error {
	subject := fmt.Sprintf("Вы исключены из группы %s", group.Name)
	body := fmt.Sprintf("%s %s, вы больше не состоите в группе %s.", user.Firstname, user.Surname, group.Name)

	_, err := m.Client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.Sender),
		Destination: &types.Destination{
			ToAddresses: []string{user.Email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error sending removal notice to %s: %w", user.Email, err)
	}
	return nil
}
