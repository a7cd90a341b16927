package services

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// PushService handles sending push notifications via Firebase Cloud Messaging
type PushService struct {
	client *messaging.Client
	db     *gorm.DB
}

// NewPush initializes the Firebase push notification service.
// Returns a disabled service if no service account is configured (dev mode).
func NewPush(db *gorm.DB, serviceAccountPath string) *PushService {
	if serviceAccountPath == "" {
		log.Println("FCM: No service account configured, push notifications disabled")
		return &PushService{db: db}
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Printf("FCM: Failed to initialize Firebase app: %v", err)
		return &PushService{db: db}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("FCM: Failed to get messaging client: %v", err)
		return &PushService{db: db}
	}

	log.Println("FCM: Push notifications enabled")
	return &PushService{client: client, db: db}
}

// SendToUser sends a notification to a single user's registered device.
// Best effort: failures are logged, never surfaced to the caller.
func (p *PushService) SendToUser(userID uuid.UUID, title, body string, data map[string]string) {
	if p == nil || p.client == nil {
		return
	}

	var user models.User
	if err := p.db.First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	if user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := p.client.Send(context.Background(), msg); err != nil {
		log.Printf("FCM: Failed to send to user %s: %v", userID, err)
	}
}
