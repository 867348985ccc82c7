// internal/adapters/out/firestore/profile_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "sweetshop/internal/domain/cart"
	sessdom "sweetshop/internal/domain/session"
)

// ProfileRepositoryFS is the per-user profile store on Firestore.
//
// Collection design:
// - collection: users
// - docId: uid (docId is the source of truth)
// - fields: uid, email, name, role, createdAt, cart{items, totalPrice}
//
// Writes on the cart path use MergeAll so unrelated profile fields (role,
// email, createdAt) are never clobbered by a cart persist.
type ProfileRepositoryFS struct {
	Client *firestore.Client
}

func NewProfileRepositoryFS(client *firestore.Client) *ProfileRepositoryFS {
	return &ProfileRepositoryFS{Client: client}
}

func (r *ProfileRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

// GetProfile returns (nil, nil) if the profile document does not exist.
func (r *ProfileRepositoryFS) GetProfile(ctx context.Context, uid string) (*sessdom.Profile, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("profile_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("profile_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	// Parse from raw data rather than DataTo: older clients wrote documents
	// without the cart field, or with a cart shaped by a previous schema, and
	// a type mismatch there must not fail the whole profile read.
	doc := profileDocFromSnapshot(snap)

	p := doc.toDomain()
	// docId is the source of truth even when the uid field is absent.
	p.UID = id
	return p, nil
}

// SaveProfile creates the profile document at registration time.
// Full overwrite: registration owns the initial document shape.
func (r *ProfileRepositoryFS) SaveProfile(ctx context.Context, p sessdom.Profile) error {
	if r == nil || r.Client == nil {
		return errors.New("profile_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(p.UID)
	if id == "" {
		return errors.New("profile_repository_fs: SaveProfile requires profile.UID as docId")
	}

	role := p.Role
	if role == "" {
		role = sessdom.RoleUser
	}

	_, err := r.col().Doc(id).Set(ctx, map[string]any{
		"uid":       id,
		"email":     strings.TrimSpace(p.Email),
		"name":      strings.TrimSpace(p.Name),
		"role":      string(role),
		"createdAt": time.Now().UTC(),
		"cart":      cartDocFromDomain(p.Cart),
	})
	return err
}

// MergeCart upserts only the cart field of the profile document.
// Merge semantics keep role and the rest of the profile intact, and create
// the document if registration never managed to write it.
func (r *ProfileRepositoryFS) MergeCart(ctx context.Context, uid string, c cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("profile_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("profile_repository_fs: uid is empty")
	}

	_, err := r.col().Doc(id).Set(ctx, map[string]any{
		"cart": cartDocFromDomain(c),
	}, firestore.MergeAll)
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type profileDoc struct {
	Email string
	Name  string
	Role  string
	Cart  cartDoc
}

type cartDoc struct {
	Items      []cartLineDoc `firestore:"items"`
	TotalPrice float64       `firestore:"totalPrice"`
}

type cartLineDoc struct {
	ItemID   string  `firestore:"id"`
	Name     string  `firestore:"name"`
	Price    float64 `firestore:"price"`
	Image    string  `firestore:"image"`
	Quantity int     `firestore:"quantity"`
}

func profileDocFromSnapshot(snap *firestore.DocumentSnapshot) profileDoc {
	out := profileDoc{}

	raw := snap.Data()
	if raw == nil {
		return out
	}

	out.Email = asString(raw["email"])
	out.Name = asString(raw["name"])
	out.Role = asString(raw["role"])

	cartAny, ok := raw["cart"].(map[string]any)
	if !ok || cartAny == nil {
		return out
	}

	out.Cart.TotalPrice = asFloat(cartAny["totalPrice"])

	itemsAny, ok := cartAny["items"].([]any)
	if !ok {
		return out
	}
	for _, v := range itemsAny {
		mv, ok := v.(map[string]any)
		if !ok {
			continue
		}
		line := cartLineDoc{
			ItemID:   strings.TrimSpace(asString(mv["id"])),
			Name:     asString(mv["name"]),
			Price:    asFloat(mv["price"]),
			Image:    asString(mv["image"]),
			Quantity: asInt(mv["quantity"]),
		}
		if line.ItemID == "" || line.Quantity <= 0 {
			continue
		}
		out.Cart.Items = append(out.Cart.Items, line)
	}

	return out
}

func cartDocFromDomain(c cartdom.Cart) map[string]any {
	items := make([]map[string]any, 0, len(c.Lines))
	for _, l := range c.Lines {
		id := strings.TrimSpace(l.ItemID)
		if id == "" || l.Quantity <= 0 {
			continue
		}
		items = append(items, map[string]any{
			"id":       id,
			"name":     l.Name,
			"price":    l.Price,
			"image":    l.Image,
			"quantity": l.Quantity,
		})
	}
	return map[string]any{
		"items":      items,
		"totalPrice": c.TotalPrice,
	}
}

func (d profileDoc) toDomain() *sessdom.Profile {
	lines := make([]cartdom.Line, 0, len(d.Cart.Items))
	for _, it := range d.Cart.Items {
		lines = append(lines, cartdom.Line{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Price:    it.Price,
			Image:    it.Image,
			Quantity: it.Quantity,
		})
	}

	c := cartdom.New()
	c.Replace(lines, d.Cart.TotalPrice)

	return &sessdom.Profile{
		Email: strings.TrimSpace(d.Email),
		Name:  strings.TrimSpace(d.Name),
		Role:  sessdom.ParseRole(d.Role),
		Cart:  c,
	}
}
