// internal/infra/config/config.go
package config

import "os"

// Config holds the environment configuration for the whole client.
type Config struct {
	// GCP
	ProjectID                string
	GCPCreds                 string
	FirestoreCredentialsFile string

	// Sweets backend API
	APIBaseURL string

	// Firebase Web API key for Identity Toolkit sign-in. When empty it is
	// resolved from Secret Manager (FirebaseAPIKeySecretID).
	FirebaseAPIKey         string
	FirebaseAPIKeySecretID string

	// GCS bucket for catalog item images (admin CRUD). Empty disables
	// image publishing.
	ItemImageBucket string

	// Durable local storage for the bearer token. Empty uses the platform
	// default under the user config dir.
	CredentialsFile string
}

// Load reads the environment and returns the Config.
func Load() *Config {
	return &Config{
		ProjectID:                getenvDefault("FIRESTORE_PROJECT_ID", os.Getenv("GCP_PROJECT_ID")),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		APIBaseURL: getenvDefault("SWEETS_API_BASE_URL", "http://localhost:5000"),

		FirebaseAPIKey:         os.Getenv("FIREBASE_WEB_API_KEY"),
		FirebaseAPIKeySecretID: getenvDefault("FIREBASE_WEB_API_KEY_SECRET", "sweetshop-web-api-key"),

		ItemImageBucket: os.Getenv("ITEM_IMAGE_BUCKET"),
		CredentialsFile: os.Getenv("SWEETSHOP_CREDENTIALS_FILE"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
