package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// InitFirestore initializes the Firebase Admin SDK and returns a Firestore client.
// Credentials come from FIREBASE_CREDENTIALS_PATH when set, otherwise from the
// FIREBASE_PROJECT_ID / FIREBASE_CLIENT_EMAIL / FIREBASE_PRIVATE_KEY triple.
func InitFirestore(ctx context.Context) (*firestore.Client, error) {
	opt, err := credentialsOption()
	if err != nil {
		return nil, err
	}

	conf := &firebase.Config{ProjectID: os.Getenv("FIREBASE_PROJECT_ID")}
	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	return app.Firestore(ctx)
}

func credentialsOption() (option.ClientOption, error) {
	if credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH"); credPath != "" {
		return option.WithCredentialsFile(credPath), nil
	}

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	clientEmail := os.Getenv("FIREBASE_CLIENT_EMAIL")
	privateKey := os.Getenv("FIREBASE_PRIVATE_KEY")
	if projectID == "" || clientEmail == "" || privateKey == "" {
		return nil, fmt.Errorf("firebase credentials not configured: set FIREBASE_CREDENTIALS_PATH or FIREBASE_PROJECT_ID, FIREBASE_CLIENT_EMAIL and FIREBASE_PRIVATE_KEY")
	}

	// Private keys passed through env vars carry escaped newlines
	privateKey = strings.ReplaceAll(privateKey, `\n`, "\n")

	cred, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   projectID,
		"client_email": clientEmail,
		"private_key":  privateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build service account credentials: %w", err)
	}

	return option.WithCredentialsJSON(cred), nil
}
