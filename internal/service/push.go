package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// fcmPushSender fans notifications out over Firebase Cloud Messaging. Each
// browser client subscribes to its own user topic on login, so no device
// token bookkeeping is needed server-side.
type fcmPushSender struct {
	client *messaging.Client
}

func NewFCMPushSender(ctx context.Context, credentialsFile string) (PushSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	return &fcmPushSender{client: client}, nil
}

func (s *fcmPushSender) Push(ctx context.Context, userID int32, title, message string) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Topic: fmt.Sprintf("user-%d", userID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
	})
	return err
}
