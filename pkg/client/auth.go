package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// CurrentUserKey is the session storage key holding the cached identity.
const CurrentUserKey = "currentUser"

// Identity is the logged-in user as seen by the client.
type Identity struct {
	ID   uint
	Name string
}

// NameIdentifier is the user id rendered as a string.
func (i Identity) NameIdentifier() string {
	return strconv.FormatUint(uint64(i.ID), 10)
}

// State is either Anonymous (Identity nil) or Authenticated.
type State struct {
	Identity *Identity
}

// Authenticated reports whether the state carries an identity.
func (s State) Authenticated() bool {
	return s.Identity != nil
}

// Anonymous is the state with no cached identity.
var Anonymous = State{}

// AuthProvider tracks the current identity in a SessionStorage and notifies
// subscribers when it changes.
type AuthProvider struct {
	client  *Client
	storage SessionStorage

	mu     sync.Mutex
	nextID int
	subs   map[int]func(State)
}

// NewAuthProvider creates a provider that logs in through c and caches in storage.
func NewAuthProvider(c *Client, storage SessionStorage) *AuthProvider {
	return &AuthProvider{
		client:  c,
		storage: storage,
		subs:    make(map[int]func(State)),
	}
}

// Login posts the credentials. On success the identity is cached and
// subscribers see the Authenticated state. A non-success response returns
// an *APIError with the raw body and leaves the state unchanged.
func (p *AuthProvider) Login(ctx context.Context, userName, password string) error {
	var user UserDto
	in := LoginRequest{UserName: userName, Password: password}
	if err := p.client.do(ctx, http.MethodPost, "/auth/login", nil, in, &user); err != nil {
		return err
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := p.storage.Set(ctx, CurrentUserKey, string(raw)); err != nil {
		return err
	}

	p.notify(stateFor(user))
	return nil
}

// Logout clears the cached identity and notifies subscribers.
func (p *AuthProvider) Logout(ctx context.Context) error {
	if err := p.storage.Set(ctx, CurrentUserKey, ""); err != nil {
		return err
	}
	p.notify(Anonymous)
	return nil
}

// GetState reads the cached identity. Absent or malformed data, or a storage
// failure, reports Anonymous.
func (p *AuthProvider) GetState(ctx context.Context) State {
	raw, err := p.storage.Get(ctx, CurrentUserKey)
	if err != nil || strings.TrimSpace(raw) == "" {
		return Anonymous
	}

	var user *UserDto
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user == nil {
		return Anonymous
	}
	return stateFor(*user)
}

// Subscribe registers fn for state changes. The returned func unregisters it.
func (p *AuthProvider) Subscribe(fn func(State)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *AuthProvider) notify(s State) {
	p.mu.Lock()
	fns := make([]func(State), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func stateFor(u UserDto) State {
	return State{Identity: &Identity{ID: u.ID, Name: u.UserName}}
}
