package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mhk-dev/bidhaus/internal/features/auth"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
	apperrors "github.com/mhk-dev/bidhaus/pkg/errors"
)

type fakeStore struct {
	users map[string]*auth.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*auth.User)}
}

func (f *fakeStore) add(email, tagID string) *auth.User {
	u := &auth.User{
		ID:    primitive.NewObjectID(),
		Email: email,
		Role:  session.RoleUser,
		TagID: tagID,
	}
	f.users[u.ID.Hex()] = u
	return u
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]auth.User, error) {
	var out []auth.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*auth.User, error) {
	return f.users[id], nil
}

func (f *fakeStore) GetUserByTagID(ctx context.Context, tagID string) (*auth.User, error) {
	for _, u := range f.users {
		if u.TagID == tagID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) SetTagID(ctx context.Context, id primitive.ObjectID, tagID string) error {
	u, ok := f.users[id.Hex()]
	if !ok {
		return errors.New("user not found")
	}
	u.TagID = tagID
	return nil
}

func admin() *session.Payload {
	return &session.Payload{ID: "admin-1", Email: "admin@example.com", Role: session.RoleAdmin}
}

func TestListRequiresAdmin(t *testing.T) {
	store := newFakeStore()
	store.add("a@example.com", "101")
	svc := NewService(store)

	_, err := svc.List(context.Background(), nil)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.List(context.Background(), &session.Payload{Role: session.RoleUser})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	list, err := svc.List(context.Background(), admin())
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestUpdateTagID(t *testing.T) {
	store := newFakeStore()
	u := store.add("a@example.com", "101")
	svc := NewService(store)

	require.NoError(t, svc.UpdateTagID(context.Background(), admin(), u.ID.Hex(), "202"))
	require.Equal(t, "202", store.users[u.ID.Hex()].TagID)
}

func TestUpdateTagIDConflict(t *testing.T) {
	store := newFakeStore()
	u := store.add("a@example.com", "101")
	store.add("b@example.com", "202")
	svc := NewService(store)

	err := svc.UpdateTagID(context.Background(), admin(), u.ID.Hex(), "202")
	require.ErrorIs(t, err, apperrors.ErrConflict)
	require.Equal(t, "101", store.users[u.ID.Hex()].TagID)
}

func TestUpdateTagIDOwnTagIsNoOp(t *testing.T) {
	store := newFakeStore()
	u := store.add("a@example.com", "101")
	svc := NewService(store)

	require.NoError(t, svc.UpdateTagID(context.Background(), admin(), u.ID.Hex(), "101"))
	require.Equal(t, "101", store.users[u.ID.Hex()].TagID)
}

func TestUpdateTagIDValidation(t *testing.T) {
	store := newFakeStore()
	u := store.add("a@example.com", "101")
	svc := NewService(store)
	ctx := context.Background()

	err := svc.UpdateTagID(ctx, admin(), u.ID.Hex(), "")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.UpdateTagID(ctx, admin(), primitive.NewObjectID().Hex(), "303")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.UpdateTagID(ctx, &session.Payload{Role: session.RoleUser}, u.ID.Hex(), "303")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
