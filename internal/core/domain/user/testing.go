package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"
	c "userkit/internal/core/domain/common"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeResetSecretGenerator struct {
	Secrets []ResetSecret
	next    int
	lock    sync.Mutex
}

// NewFakeResetSecretGenerator returns the given secrets in order, then keeps
// returning the last one.
func NewFakeResetSecretGenerator(secrets ...string) *FakeResetSecretGenerator {
	g := &FakeResetSecretGenerator{}
	for _, s := range secrets {
		g.Secrets = append(g.Secrets, ResetSecret(s))
	}
	return g
}

func (g *FakeResetSecretGenerator) GenerateResetSecret() ResetSecret {
	g.lock.Lock()
	defer g.lock.Unlock()
	if len(g.Secrets) == 0 {
		panic("no fake reset secrets configured")
	}
	secret := g.Secrets[g.next]
	if g.next < len(g.Secrets)-1 {
		g.next++
	}
	return secret
}

type FakeSessionTokenGenerator struct {
	Token string
}

func NewFakeSessionTokenGenerator(token string) *FakeSessionTokenGenerator {
	return &FakeSessionTokenGenerator{Token: token}
}

func (g *FakeSessionTokenGenerator) GenerateSessionToken() SessionToken {
	return SessionToken(g.Token)
}

type FakeResetLinkSender struct {
	Sent        []User
	SentSecrets []ResetSecret
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeResetLinkSender() *FakeResetLinkSender {
	return &FakeResetLinkSender{}
}

func (s *FakeResetLinkSender) SendResetLink(ctx context.Context, u User, secret ResetSecret) error {
	if s.ReturnError {
		return fmt.Errorf("could not send reset link for user %d", u.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, u)
	s.SentSecrets = append(s.SentSecrets, secret)
	return nil
}

func (s *FakeResetLinkSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeResetLinkSender) LastSentTo() User {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	WriteCount  int
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, existing := range r.Users {
		if existing.Identifier == input.Identifier {
			return u, ErrIdentifierAlreadyExists
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	u = User{
		ID:           maxID + 1,
		Identifier:   input.Identifier,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Roles:        input.Roles,
		IsEnabled:    true,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	r.WriteCount++
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByIdentifier(ctx context.Context, identifier Identifier) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by identifier %s", identifier)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Identifier == identifier {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByIdentifierAndResetSecret(
	ctx context.Context,
	identifier Identifier,
	secret ResetSecret,
) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Identifier == identifier && u.ResetSecret.IsPresent && u.ResetSecret.Value == secret {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetResetSecret(ctx context.Context, id ID, secret ResetSecret) error {
	if r.ReturnError {
		return fmt.Errorf("could not set reset secret for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for i := range r.Users {
		if r.Users[i].ID == id {
			r.Users[i].ResetSecret = c.NewOptional(secret, true)
			r.WriteCount++
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for i := range r.Users {
		if r.Users[i].ID == id {
			r.Users[i].PasswordHash = password
			r.WriteCount++
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPasswordAndClearResetSecret(
	ctx context.Context,
	id ID,
	password PasswordHash,
) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for i := range r.Users {
		if r.Users[i].ID == id {
			r.Users[i].PasswordHash = password
			r.Users[i].ResetSecret = c.Optional[ResetSecret]{}
			r.WriteCount++
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type FakeSessionRepository struct {
	userRepository *FakeUserRepository
	Sessions       map[SessionToken]ID
	lock           sync.Mutex
}

func NewFakeSessionRepository(userRepository *FakeUserRepository) *FakeSessionRepository {
	return &FakeSessionRepository{
		userRepository: userRepository,
		Sessions:       make(map[SessionToken]ID),
	}
}

func (r *FakeSessionRepository) Create(ctx context.Context, input CreateSessionInput) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Sessions[input.Token] = input.UserID
	return nil
}

func (r *FakeSessionRepository) GetUserByToken(ctx context.Context, token SessionToken) (u User, err error) {
	r.lock.Lock()
	userID, ok := r.Sessions[token]
	r.lock.Unlock()
	if !ok {
		return u, ErrUserDoesNotExist
	}
	return r.userRepository.GetByID(ctx, userID)
}

func (r *FakeSessionRepository) Delete(ctx context.Context, token SessionToken) (userID ID, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	userID, ok := r.Sessions[token]
	if !ok {
		return userID, ErrSessionDoesNotExist
	}
	delete(r.Sessions, token)
	return userID, nil
}
