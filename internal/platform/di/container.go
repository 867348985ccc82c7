// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"sweetshop/internal/adapters/out/catalogapi"
	fbgateway "sweetshop/internal/adapters/out/firebaseauth"
	fsadapter "sweetshop/internal/adapters/out/firestore"
	"sweetshop/internal/adapters/out/gcs"
	"sweetshop/internal/adapters/out/localstore"
	appsync "sweetshop/internal/application/sync"
	"sweetshop/internal/application/usecase"
	appcfg "sweetshop/internal/infra/config"
	"sweetshop/internal/store"
)

// Container owns the external clients and the assembled client core.
//
// Construction policy (mirrors the rest of the stack):
// - Firestore is strict: without the profile store nothing useful runs.
// - GCS, Secret Manager and the Firebase Admin client are best effort:
//   their features degrade (no image publishing, no boot-time session
//   restore) instead of failing boot.
type Container struct {
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client

	// Adapters
	Tokens      *localstore.TokenStore
	AuthGateway *fbgateway.Gateway
	Profiles    *fsadapter.ProfileRepositoryFS
	CatalogAPI  *catalogapi.Client
	ItemImages  *gcs.ItemImageRepositoryGCS

	// Stores
	Sessions *store.SessionStore
	Carts    *store.CartStore
	Catalog  *store.CatalogStore

	// Application
	Auth        *usecase.AuthUsecase
	CatalogUC   *usecase.CatalogUsecase
	Shopping    *usecase.ShoppingUsecase
	Coordinator *appsync.Coordinator
}

// NewContainer wires the whole client. The coordinator is constructed but
// not started; callers Start it and then trigger the boot session restore.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}

	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("di: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	c := &Container{
		Config:    cfg,
		ProjectID: projectID,
	}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[di] using credentials file for GCP clients")
	} else {
		log.Printf("[di] using Application Default Credentials")
	}

	// 1) Firestore (strict)
	{
		fsClient, err := firestore.NewClient(ctx, projectID, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("di: firestore.NewClient failed (project=%s): %w", projectID, err)
		}
		c.Firestore = fsClient
		log.Printf("[di] Firestore connected project=%s", projectID)
	}

	// 2) Secret Manager (best effort; only needed when the Web API key is
	// not in the environment)
	{
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: secretmanager.NewClient failed: %v", err)
			sm = nil
		}
		c.SecretManager = sm
	}

	// 3) GCS (best effort; disables image publishing when unavailable)
	if strings.TrimSpace(cfg.ItemImageBucket) != "" {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: storage.NewClient failed: %v (image publishing disabled)", err)
		} else {
			c.GCS = gcsClient
			c.ItemImages = gcs.NewItemImageRepositoryGCS(gcsClient, cfg.ItemImageBucket)
			log.Printf("[di] GCS storage client initialized bucket=%s", cfg.ItemImageBucket)
		}
	} else {
		log.Printf("[di] ITEM_IMAGE_BUCKET empty (image publishing disabled)")
	}

	// 4) Firebase App/Auth (best effort; disables boot session restore and
	// logout-side token revocation when unavailable)
	{
		fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: firebase app init failed: %v", err)
		} else {
			c.FirebaseApp = fbApp
			authClient, err := fbApp.Auth(ctx)
			if err != nil {
				log.Printf("[di] WARN: firebase auth init failed: %v", err)
			} else {
				c.FirebaseAuth = authClient
				log.Printf("[di] Firebase Auth initialized")
			}
		}
	}

	// 5) Web API key: env first, Secret Manager fallback
	apiKey := strings.TrimSpace(cfg.FirebaseAPIKey)
	if apiKey == "" && c.SecretManager != nil {
		k, err := resolveSecret(ctx, c.SecretManager, projectID, cfg.FirebaseAPIKeySecretID)
		if err != nil {
			log.Printf("[di] WARN: web api key secret lookup failed: %v (password sign-in disabled)", err)
		} else {
			apiKey = k
		}
	}

	// 6) Local token storage
	{
		tokens, err := localstore.NewTokenStore(cfg.CredentialsFile)
		if err != nil {
			closeClients(c)
			return nil, fmt.Errorf("di: token store init failed: %w", err)
		}
		c.Tokens = tokens
	}

	// 7) Adapters
	c.AuthGateway = fbgateway.NewGateway(apiKey, c.FirebaseAuth, c.Tokens)
	c.Profiles = fsadapter.NewProfileRepositoryFS(c.Firestore)
	c.CatalogAPI = catalogapi.NewClient(cfg.APIBaseURL, c.AuthGateway)

	// 8) Stores
	c.Sessions = store.NewSessionStore()
	c.Carts = store.NewCartStore()
	c.Catalog = store.NewCatalogStore()

	// 9) Application
	c.Auth = usecase.NewAuthUsecase(c.AuthGateway, c.Profiles)
	var images usecase.ImagePublisher
	if c.ItemImages != nil {
		images = c.ItemImages
	}
	c.CatalogUC = usecase.NewCatalogUsecase(c.CatalogAPI, c.Catalog, images)
	c.Shopping = usecase.NewShoppingUsecase(c.Catalog, c.Carts)
	c.Coordinator = appsync.NewCoordinator(
		c.Sessions, c.Carts, c.Profiles, c.AuthGateway.SessionChanges(), appsync.Config{},
	)

	return c, nil
}

// Start launches the coordinator and resolves the boot-time session from the
// stored token.
func (c *Container) Start(ctx context.Context) {
	c.Coordinator.Start()
	go c.AuthGateway.RestoreSession(ctx)
}

// Close stops the coordinator (flushing a pending cart persist) and closes
// the owned clients.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Coordinator != nil {
		c.Coordinator.Stop()
	}
	closeClients(c)
}

func closeClients(c *Container) {
	if c.SecretManager != nil {
		_ = c.SecretManager.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Firestore != nil {
		_ = c.Firestore.Close()
	}
}

// resolveSecret reads the latest version of a Secret Manager secret.
func resolveSecret(ctx context.Context, client *secretmanager.Client, projectID, secretID string) (string, error) {
	id := strings.TrimSpace(secretID)
	if id == "" {
		return "", errors.New("di: secret id is empty")
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, id)
	res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", err
	}
	if res == nil || res.Payload == nil {
		return "", fmt.Errorf("di: secret %s has no payload", id)
	}

	v := strings.TrimSpace(string(res.Payload.Data))
	if v == "" {
		return "", fmt.Errorf("di: secret %s is empty", id)
	}
	return v, nil
}
