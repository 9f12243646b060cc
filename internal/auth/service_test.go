package auth

import (
	"context"
	"testing"
	"time"

	"dexotix/internal/shared/config"
	"dexotix/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]*users.User),
	}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateUserPassword(ctx context.Context, userID, hashedPassword string) error {
	user, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) UpdateUserProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	user, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	if v, ok := updates["first_name"]; ok {
		user.FirstName = v.(string)
	}
	if v, ok := updates["city"]; ok {
		user.City = v.(string)
	}
	return nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

type fakeSessionStore struct {
	tokens  map[string]string
	intents map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		tokens:  make(map[string]string),
		intents: make(map[string]string),
	}
}

func (s *fakeSessionStore) SaveRefreshToken(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	s.tokens[userID] = refreshToken
	return nil
}

func (s *fakeSessionStore) RefreshTokenMatches(ctx context.Context, userID, refreshToken string) (bool, error) {
	return s.tokens[userID] == refreshToken, nil
}

func (s *fakeSessionStore) SetIntent(ctx context.Context, userID, intent string, ttl time.Duration) error {
	s.intents[userID] = intent
	return nil
}

func (s *fakeSessionStore) GetIntent(ctx context.Context, userID string) (string, error) {
	return s.intents[userID], nil
}

func (s *fakeSessionStore) ClearSession(ctx context.Context, userID string) error {
	delete(s.tokens, userID)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.JWTExpiresIn = 15 * time.Minute
	cfg.JWT.RefreshExpiresIn = 7 * 24 * time.Hour
	cfg.Redis.IntentTTL = 30 * 24 * time.Hour
	return cfg
}

func newAuthService() (Service, *fakeUserRepo, *fakeSessionStore) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	return NewService(repo, sessions, testConfig()), repo, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, sessions := newAuthService()

	registered, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "Asha@Example.com",
		Password:  "supersecret",
		City:      "Bengaluru",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", registered.User.Email)
	assert.Equal(t, "USER", registered.User.Role)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Equal(t, IntentActive, sessions.intents[registered.User.ID])

	// Duplicate registration fails.
	_, err = svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "supersecret",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	loggedIn, err := svc.Login(context.Background(), &LoginRequest{
		Email: "asha@example.com", Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email: "asha@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccessTokenClaims(t *testing.T) {
	svc, _, _ := newAuthService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "USER", claims.Role)

	refreshClaims, err := svc.ValidateToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.Type)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _ := newAuthService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAfterLogout(t *testing.T) {
	svc, _, _ := newAuthService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.User.ID))

	_, err = svc.RefreshToken(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestChangePasswordInvalidatesSession(t *testing.T) {
	svc, _, sessions := newAuthService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "evenmoresecret",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "supersecret",
		NewPassword:     "evenmoresecret",
	})
	require.NoError(t, err)
	assert.NotContains(t, sessions.tokens, resp.User.ID)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email: "asha@example.com", Password: "evenmoresecret",
	})
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newAuthService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	city := "Mumbai"
	profile, err := svc.UpdateProfile(context.Background(), resp.User.ID, &users.ProfileUpdateRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", profile.City)
}
