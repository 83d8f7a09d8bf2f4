package utils

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

var fcmClient *messaging.Client

// InitFCM wires up Firebase Cloud Messaging. Push is optional: if the
// credentials file is missing we log and run without notifications.
func InitFCM() {
	serviceAccountPath := os.Getenv("FCM_CREDENTIALS")
	if serviceAccountPath == "" {
		serviceAccountPath = "firebase-service-account.json"
	}
	if _, err := os.Stat(serviceAccountPath); err != nil {
		log.Println("FCM credentials not found, push notifications disabled")
		return
	}

	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Fatalf("Error initializing firebase app: %v", err)
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Fatalf("Error getting messaging client: %v", err)
	}

	fcmClient = client
	log.Println("Firebase Cloud Messaging ready")
}

// SendNotification pushes one message to a device token. The DB lookup for
// the token is the handler's job; this layer only talks to Firebase.
func SendNotification(token string, title string, body string, data map[string]string) error {
	if fcmClient == nil || token == "" {
		return nil
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	_, err := fcmClient.Send(context.Background(), message)
	if err != nil {
		log.Printf("Error sending notification: %s", err)
		return err
	}
	return nil
}
