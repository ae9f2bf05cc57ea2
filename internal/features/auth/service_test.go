package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mhk-dev/bidhaus/internal/pkg/session"
	apperrors "github.com/mhk-dev/bidhaus/pkg/errors"
)

type fakeUserStore struct {
	users map[string]*User

	// allTagsTaken simulates an exhausted tag space
	allTagsTaken bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	f.users[user.ID.Hex()] = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByTagID(ctx context.Context, tagID string) (*User, error) {
	if f.allTagsTaken {
		return &User{TagID: tagID}, nil
	}
	for _, u := range f.users {
		if u.TagID == tagID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByMagicToken(ctx context.Context, token string) (*User, error) {
	for _, u := range f.users {
		if u.MagicLinkToken != nil && *u.MagicLinkToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateNames(ctx context.Context, id primitive.ObjectID, firstName, surname string) error {
	u, ok := f.users[id.Hex()]
	if !ok {
		return errors.New("user not found")
	}
	if firstName != "" {
		u.FirstName = firstName
	}
	if surname != "" {
		u.Surname = surname
	}
	return nil
}

func (f *fakeUserStore) SetMagicLink(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	u, ok := f.users[id.Hex()]
	if !ok {
		return errors.New("user not found")
	}
	u.MagicLinkToken = &token
	u.MagicLinkExpires = &expires
	return nil
}

func (f *fakeUserStore) ClearMagicLink(ctx context.Context, id primitive.ObjectID) error {
	u, ok := f.users[id.Hex()]
	if !ok {
		return errors.New("user not found")
	}
	u.MagicLinkToken = nil
	u.MagicLinkExpires = nil
	return nil
}

type sentMail struct {
	to   string
	link string
}

type fakeMailer struct {
	fail bool
	sent []sentMail
}

func (f *fakeMailer) SendMagicLink(ctx context.Context, to, link string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{to: to, link: link})
	return nil
}

func (f *fakeMailer) SendOutbid(ctx context.Context, to, itemTitle, itemLink string, newAmount, oldAmount float64) error {
	return nil
}

func (f *fakeMailer) SendWinner(ctx context.Context, to, itemTitle string, amount float64) error {
	return nil
}

const appURL = "http://localhost:8080"

func newTestService(store *fakeUserStore, mail *fakeMailer, production bool) *Service {
	return NewService(store, mail, session.NewCodec("test-secret"), appURL, production)
}

func TestRequestMagicLinkCreatesUser(t *testing.T) {
	store := newFakeUserStore()
	mail := &fakeMailer{}
	svc := newTestService(store, mail, false)

	link, err := svc.RequestMagicLink(context.Background(), "new@example.com", "Ada", "Lovelace")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, appURL+"/api/auth/verify?token="))

	user, err := store.GetUserByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "Ada", user.FirstName)
	require.Equal(t, "Lovelace", user.Surname)
	require.Equal(t, session.RoleUser, user.Role)
	require.NotNil(t, user.MagicLinkToken)
	require.NotNil(t, user.MagicLinkExpires)

	tag, err := strconv.Atoi(user.TagID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, tag, 100)
	require.LessOrEqual(t, tag, 999)

	require.Len(t, mail.sent, 1)
	require.Equal(t, "new@example.com", mail.sent[0].to)
	require.Equal(t, link, mail.sent[0].link)
}

func TestRequestMagicLinkExistingUserKeepsTag(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, &fakeMailer{}, false)
	ctx := context.Background()

	_, err := svc.RequestMagicLink(ctx, "ada@example.com", "Ada", "Lovelace")
	require.NoError(t, err)
	first, _ := store.GetUserByEmail(ctx, "ada@example.com")

	_, err = svc.RequestMagicLink(ctx, "ada@example.com", "", "")
	require.NoError(t, err)
	second, _ := store.GetUserByEmail(ctx, "ada@example.com")

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.TagID, second.TagID)
	require.Equal(t, "Ada", second.FirstName)
	require.Len(t, store.users, 1)
}

func TestRequestMagicLinkReplacesPendingToken(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, &fakeMailer{}, false)
	ctx := context.Background()

	firstLink, err := svc.RequestMagicLink(ctx, "ada@example.com", "", "")
	require.NoError(t, err)
	secondLink, err := svc.RequestMagicLink(ctx, "ada@example.com", "", "")
	require.NoError(t, err)
	require.NotEqual(t, firstLink, secondLink)

	// the superseded token no longer works
	firstToken := strings.TrimPrefix(firstLink, appURL+"/api/auth/verify?token=")
	_, _, err = svc.VerifyMagicLink(ctx, firstToken)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRequestMagicLinkTagSpaceExhausted(t *testing.T) {
	store := newFakeUserStore()
	store.allTagsTaken = true
	svc := newTestService(store, &fakeMailer{}, false)

	_, err := svc.RequestMagicLink(context.Background(), "new@example.com", "", "")
	require.ErrorIs(t, err, apperrors.ErrInternal)
	require.Empty(t, store.users)
}

func TestRequestMagicLinkSurvivesMailFailure(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, &fakeMailer{fail: true}, false)

	link, err := svc.RequestMagicLink(context.Background(), "ada@example.com", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, link)
}

func TestRequestMagicLinkProductionHidesDebugLink(t *testing.T) {
	store := newFakeUserStore()
	mail := &fakeMailer{}
	svc := newTestService(store, mail, true)

	link, err := svc.RequestMagicLink(context.Background(), "ada@example.com", "", "")
	require.NoError(t, err)
	require.Empty(t, link)

	// the email still carries the real link
	require.Len(t, mail.sent, 1)
	require.NotEmpty(t, mail.sent[0].link)
}

func TestVerifyMagicLinkIsSingleUse(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, &fakeMailer{}, false)
	ctx := context.Background()

	link, err := svc.RequestMagicLink(ctx, "ada@example.com", "Ada", "Lovelace")
	require.NoError(t, err)
	token := strings.TrimPrefix(link, appURL+"/api/auth/verify?token=")

	cookie, payload, err := svc.VerifyMagicLink(ctx, token)
	require.NoError(t, err)
	require.NotEmpty(t, cookie)
	require.Equal(t, "ada@example.com", payload.Email)
	require.Equal(t, session.RoleUser, payload.Role)
	require.True(t, payload.Expires.After(time.Now()))

	// replaying the same link fails
	_, _, err = svc.VerifyMagicLink(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifyMagicLinkExpired(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, &fakeMailer{}, false)
	ctx := context.Background()

	link, err := svc.RequestMagicLink(ctx, "ada@example.com", "", "")
	require.NoError(t, err)
	token := strings.TrimPrefix(link, appURL+"/api/auth/verify?token=")

	user, _ := store.GetUserByEmail(ctx, "ada@example.com")
	past := time.Now().Add(-time.Minute)
	user.MagicLinkExpires = &past

	_, _, err = svc.VerifyMagicLink(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifyMagicLinkRejectsMissingAndUnknownTokens(t *testing.T) {
	svc := newTestService(newFakeUserStore(), &fakeMailer{}, false)
	ctx := context.Background()

	_, _, err := svc.VerifyMagicLink(ctx, "")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = svc.VerifyMagicLink(ctx, "never-issued")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAdminLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, &fakeMailer{}, false)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, &User{
		Email:    "admin@example.com",
		Role:     session.RoleAdmin,
		Password: string(hash),
	}))

	cookie, payload, err := svc.AdminLogin(ctx, "admin@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, cookie)
	require.Equal(t, session.RoleAdmin, payload.Role)

	_, _, err = svc.AdminLogin(ctx, "admin@example.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, _, err = svc.AdminLogin(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, _, err = svc.AdminLogin(ctx, "admin@example.com", "")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAdminLoginRejectsRegularUsers(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, &fakeMailer{}, false)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, &User{
		Email:    "user@example.com",
		Role:     session.RoleUser,
		Password: string(hash),
	}))

	_, _, err = svc.AdminLogin(ctx, "user@example.com", "hunter22")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
