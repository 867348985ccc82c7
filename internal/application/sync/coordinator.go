// internal/application/sync/coordinator.go
package sync

import (
	"context"
	"log"
	"sync"
	"time"

	cartdom "sweetshop/internal/domain/cart"
	sessdom "sweetshop/internal/domain/session"
	"sweetshop/internal/store"
)

// Default resolution bounds. Login-path lookups are individually bounded so a
// slow backend can never block entry into the application; persists run in
// the background and only carry a ceiling to avoid leaking work forever.
const (
	DefaultRoleLookupTimeout = 3 * time.Second
	DefaultCartLoadTimeout   = 3 * time.Second
	DefaultBootTimeout       = 5 * time.Second
	DefaultPersistTimeout    = 10 * time.Second
)

// ProfileSource is the remote per-user profile document: role flag plus the
// saved cart. Implemented by the Firestore adapter.
type ProfileSource interface {
	GetProfile(ctx context.Context, uid string) (*sessdom.Profile, error)
	MergeCart(ctx context.Context, uid string, c cartdom.Cart) error
}

// Config carries the resolution bounds; zero values take the defaults.
// Tests shrink these.
type Config struct {
	RoleLookupTimeout time.Duration
	CartLoadTimeout   time.Duration
	BootTimeout       time.Duration
	PersistTimeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.RoleLookupTimeout <= 0 {
		c.RoleLookupTimeout = DefaultRoleLookupTimeout
	}
	if c.CartLoadTimeout <= 0 {
		c.CartLoadTimeout = DefaultCartLoadTimeout
	}
	if c.BootTimeout <= 0 {
		c.BootTimeout = DefaultBootTimeout
	}
	if c.PersistTimeout <= 0 {
		c.PersistTimeout = DefaultPersistTimeout
	}
	return c
}

// Coordinator bridges the identity provider and the local stores.
//
// Inbound: session-change events from the auth gateway resolve role and
// saved cart concurrently (each under its own timeout, degrading to
// non-admin / empty cart) and hydrate the stores.
//
// Outbound: every cart mutation while a user is present schedules a remote
// persist through a single-slot queue. A newer snapshot supersedes an unsent
// older one, so at most one write is in flight and it always carries the
// newest state; an earlier cart can never overwrite a later one remotely.
type Coordinator struct {
	sessions *store.SessionStore
	carts    *store.CartStore
	profiles ProfileSource
	changes  <-chan *sessdom.Identity
	cfg      Config

	mu          sync.Mutex
	uid         string
	pendingUID  string
	pendingCart *cartdom.Cart

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	resolveOnce  sync.Once
	firstResolve chan struct{}
}

func NewCoordinator(
	sessions *store.SessionStore,
	carts *store.CartStore,
	profiles ProfileSource,
	changes <-chan *sessdom.Identity,
	cfg Config,
) *Coordinator {
	return &Coordinator{
		sessions:     sessions,
		carts:        carts,
		profiles:     profiles,
		changes:      changes,
		cfg:          cfg.withDefaults(),
		kick:         make(chan struct{}, 1),
		done:         make(chan struct{}),
		firstResolve: make(chan struct{}),
	}
}

// Start subscribes to the cart store and launches the event and persist
// loops plus the boot ceiling timer.
func (c *Coordinator) Start() {
	c.carts.Subscribe(c.onCartChanged)

	c.wg.Add(3)
	go c.eventLoop()
	go c.persistLoop()
	go c.bootCeiling()
}

// Stop shuts the loops down. A still-pending cart persist is flushed
// synchronously first so a final quick edit is not lost on exit.
func (c *Coordinator) Stop() {
	close(c.done)
	c.wg.Wait()
	c.flushPending()
}

func (c *Coordinator) eventLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case id := <-c.changes:
			if id != nil {
				c.establishSession(*id)
			} else {
				c.clearSession()
			}
			c.resolveOnce.Do(func() { close(c.firstResolve) })
		}
	}
}

// bootCeiling force-clears the loading flag if no auth resolution arrives in
// time. Availability over consistency: the UI must never hang on a slow or
// silent identity provider.
func (c *Coordinator) bootCeiling() {
	defer c.wg.Done()
	select {
	case <-c.firstResolve:
	case <-c.done:
	case <-time.After(c.cfg.BootTimeout):
		log.Printf("[coordinator] boot ceiling %s hit before first auth resolution", c.cfg.BootTimeout)
		c.sessions.SetLoading(false)
	}
}

// establishSession resolves role and saved cart concurrently and hydrates
// the stores. Outbound persistence is enabled only after hydration so the
// hydration write-back cannot race the load.
func (c *Coordinator) establishSession(id sessdom.Identity) {
	// Persistence off while we hydrate.
	c.mu.Lock()
	c.uid = ""
	c.pendingCart = nil
	c.mu.Unlock()

	roleCh := make(chan sessdom.Role, 1)
	cartCh := make(chan cartdom.Cart, 1)
	go func() { roleCh <- c.resolveRole(id.UID) }()
	go func() { cartCh <- c.loadSavedCart(id.UID) }()
	role := <-roleCh
	saved := <-cartCh

	c.sessions.SetUser(&id)
	c.sessions.SetAdmin(role.IsAdmin())
	c.carts.ReplaceAll(saved.Lines, saved.TotalPrice)

	c.mu.Lock()
	c.uid = id.UID
	c.mu.Unlock()

	log.Printf("[coordinator] session established uid=%s admin=%v lines=%d",
		id.UID, role.IsAdmin(), len(saved.Lines))
}

// clearSession resets session and cart state on logout. The local cart is
// cleared deliberately: keeping it would leak one account's cart into the
// next login on the same device. The remote saved cart is left untouched.
func (c *Coordinator) clearSession() {
	c.mu.Lock()
	c.uid = ""
	c.pendingCart = nil
	c.mu.Unlock()

	c.carts.Clear()
	c.sessions.Clear()
	c.sessions.SetLoading(false)

	log.Printf("[coordinator] session cleared")
}

// resolveRole looks the role up in the profile store, degrading to RoleUser
// on timeout, error or missing profile.
func (c *Coordinator) resolveRole(uid string) sessdom.Role {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RoleLookupTimeout)
	defer cancel()

	p, err := c.profiles.GetProfile(ctx, uid)
	if err != nil {
		log.Printf("[coordinator] role lookup failed uid=%s: %v (defaulting to user)", uid, err)
		return sessdom.RoleUser
	}
	if p == nil {
		return sessdom.RoleUser
	}
	return p.Role
}

// loadSavedCart fetches the persisted cart, degrading to an empty cart on
// timeout, error or missing profile.
func (c *Coordinator) loadSavedCart(uid string) cartdom.Cart {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.CartLoadTimeout)
	defer cancel()

	p, err := c.profiles.GetProfile(ctx, uid)
	if err != nil {
		log.Printf("[coordinator] saved cart load failed uid=%s: %v (starting empty)", uid, err)
		return cartdom.New()
	}
	if p == nil {
		return cartdom.New()
	}
	return p.Cart
}

// onCartChanged is the cart store subscriber. While a user is present it
// drops the snapshot into the single pending slot and wakes the persist
// worker; with no user it does nothing (logout must not wipe the remote
// saved cart with an empty one).
func (c *Coordinator) onCartChanged(snapshot cartdom.Cart) {
	c.mu.Lock()
	if c.uid == "" {
		c.mu.Unlock()
		return
	}
	c.pendingUID = c.uid
	c.pendingCart = &snapshot
	c.mu.Unlock()

	select {
	case c.kick <- struct{}{}:
	default:
	}
}

func (c *Coordinator) persistLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case <-c.kick:
			c.drainPending()
		}
	}
}

// drainPending persists pending snapshots one at a time until the slot is
// empty. Mutations arriving mid-write land in the slot and are picked up by
// the next iteration, so remote state always converges to the newest cart.
func (c *Coordinator) drainPending() {
	for {
		c.mu.Lock()
		if c.pendingCart == nil {
			c.mu.Unlock()
			return
		}
		uid := c.pendingUID
		snapshot := *c.pendingCart
		c.pendingCart = nil
		c.mu.Unlock()

		c.persist(uid, snapshot)
	}
}

// persist is best effort: failures are logged and dropped, never surfaced to
// the user and never retried.
func (c *Coordinator) persist(uid string, snapshot cartdom.Cart) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.PersistTimeout)
	defer cancel()

	if err := c.profiles.MergeCart(ctx, uid, snapshot); err != nil {
		log.Printf("[coordinator] cart persist failed uid=%s: %v", uid, err)
		return
	}
}

func (c *Coordinator) flushPending() {
	c.drainPending()
}
