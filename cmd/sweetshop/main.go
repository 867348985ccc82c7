// cmd/sweetshop/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	cartdom "sweetshop/internal/domain/cart"
	"sweetshop/internal/platform/di"
	"sweetshop/internal/store"
)

// sweetshop is the terminal stand-in for the storefront UI: it boots the
// client core (stores + sync coordinator + gateways), optionally signs in,
// loads the catalog and renders store snapshots as they change.
func main() {
	// ─────────────────────────────────────────────────────────────
	// Env + flags
	// ─────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Printf("[boot] no .env loaded: %v", err)
	}

	var (
		apiBaseURL = flag.String("api-base-url", "", "sweets backend base URL (overrides SWEETS_API_BASE_URL)")
		email      = flag.String("email", "", "sign in with this email")
		password   = flag.String("password", "", "password for --email")
		register   = flag.Bool("register", false, "register instead of signing in")
		name       = flag.String("name", "", "display name for --register")
		search     = flag.String("search", "", "catalog search text")
		category   = flag.String("category", "all", "catalog category filter")
	)
	flag.Parse()

	if *apiBaseURL != "" {
		os.Setenv("SWEETS_API_BASE_URL", *apiBaseURL)
	}

	ctx := context.Background()

	// ─────────────────────────────────────────────────────────────
	// Container & core
	// ─────────────────────────────────────────────────────────────
	cont, err := di.NewContainer(ctx)
	if err != nil {
		log.Fatalf("[boot] di init failed: %v", err)
	}
	defer cont.Close()

	cont.Sessions.Subscribe(renderSession)
	cont.Carts.Subscribe(func(c cartdom.Cart) {
		fmt.Printf("cart: %d line(s), total %.2f\n", len(c.Lines), c.TotalPrice)
	})

	cont.Start(ctx)

	// ─────────────────────────────────────────────────────────────
	// Optional sign-in / registration
	// ─────────────────────────────────────────────────────────────
	if *email != "" {
		if *register {
			if _, err := cont.Auth.Register(ctx, *email, *password, *name); err != nil {
				log.Fatalf("[boot] register failed: %v", err)
			}
		} else {
			if _, err := cont.Auth.Login(ctx, *email, *password); err != nil {
				log.Fatalf("[boot] login failed: %v", err)
			}
		}
	}

	// ─────────────────────────────────────────────────────────────
	// Catalog
	// ─────────────────────────────────────────────────────────────
	if err := cont.CatalogUC.Load(ctx); err != nil {
		log.Printf("[boot] catalog load failed: %v", err)
	}
	cont.Catalog.SetSearchText(*search)
	cont.Catalog.SetCategory(*category)
	renderCatalog(cont.Catalog.State())

	// ─────────────────────────────────────────────────────────────
	// Run until signal
	// ─────────────────────────────────────────────────────────────
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Printf("[boot] received signal: %v; shutting down...", s)
}

func renderSession(s store.SessionState) {
	switch {
	case s.Loading:
		fmt.Println("session: loading...")
	case s.User == nil:
		fmt.Println("session: anonymous")
	default:
		fmt.Printf("session: %s (%s) admin=%v\n", s.User.DisplayName, s.User.Email, s.IsAdmin)
	}
}

func renderCatalog(s store.CatalogState) {
	fmt.Printf("catalog: %d of %d item(s) (search=%q category=%q)\n",
		len(s.Filtered), len(s.Items), s.SearchText, s.Category)
	for _, it := range s.Filtered {
		stock := "in stock"
		if !it.InStock() {
			stock = "out of stock"
		}
		fmt.Printf("  - %-24s %-12s %8.2f  %s\n", it.Name, it.Category, it.Price, stock)
	}
}
