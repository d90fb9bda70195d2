package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

type emailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailChannel sends through SendGrid.
type EmailChannel struct {
	client emailSender
	from   *mail.Email
}

func NewEmailChannel(apiKey, fromAddress, fromName string) *EmailChannel {
	return &EmailChannel{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Deliver(ctx context.Context, to Recipient, msg Message) error {
	if to.Email == "" {
		return nil
	}
	message := mail.NewSingleEmail(c.from, msg.Subject, mail.NewEmail(to.Name, to.Email), msg.Text, msg.HTML)
	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type pushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushChannel sends through Firebase Cloud Messaging.
type PushChannel struct {
	client pushSender
}

func NewPushChannel(ctx context.Context, credentialsFile string) (*PushChannel, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging: %w", err)
	}
	return &PushChannel{client: client}, nil
}

func (c *PushChannel) Name() string { return "push" }

func (c *PushChannel) Deliver(ctx context.Context, to Recipient, msg Message) error {
	if to.FCMToken == nil || *to.FCMToken == "" {
		return nil
	}
	_, err := c.client.Send(ctx, &messaging.Message{
		Token: *to.FCMToken,
		Notification: &messaging.Notification{
			Title: msg.Subject,
			Body:  msg.Text,
		},
		Data: msg.Data,
	})
	return err
}

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramChannel messages users who linked a Telegram chat.
type TelegramChannel struct {
	bot telegramSender
}

func NewTelegramChannel(token string) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return &TelegramChannel{bot: bot}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

// Deliver ignores ctx; the bot client has no context support.
func (c *TelegramChannel) Deliver(_ context.Context, to Recipient, msg Message) error {
	if to.TelegramChatID == nil {
		return nil
	}
	_, err := c.bot.Send(tgbotapi.NewMessage(*to.TelegramChatID, msg.Text))
	return err
}
