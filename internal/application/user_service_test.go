package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "root@x.com")
	user := f.register(t, "u@x.com", "U")

	_, err := f.users.List(ctx, user, 0, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := f.users.List(ctx, admin, 0, 0)
	require.NoError(t, err)
	require.Len(t, list.Users, 2)
	assert.Equal(t, "root@x.com", list.Users[0].Email)
	assert.Equal(t, 50, list.Limit, "default limit is reported")

	page, err := f.users.List(ctx, admin, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "u@x.com", page.Users[0].Email)
	assert.Equal(t, 1, page.Limit)
	assert.Equal(t, 1, page.Offset)

	capped, err := f.users.List(ctx, admin, 1000, -3)
	require.NoError(t, err)
	assert.Equal(t, 200, capped.Limit)
	assert.Equal(t, 0, capped.Offset)
}

func TestUserService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "root@x.com")
	a := f.register(t, "a@x.com", "A")
	b := f.register(t, "b@x.com", "B")

	got, err := f.users.Get(ctx, a, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = f.users.Get(ctx, a, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.users.Get(ctx, admin, b.ID)
	assert.NoError(t, err)

	_, err = f.users.Get(ctx, admin, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com", "A")
	b := f.register(t, "b@x.com", "B")

	_, err := f.users.UpdateProfile(ctx, a, b.ID, UpdateProfileInput{Name: "hijack"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "not allowed to edit another user's profile", AsAppError(err).Message)

	got, err := f.users.UpdateProfile(ctx, a, a.ID, UpdateProfileInput{Name: "  Alice  ", Password: "newpass99"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "Alice", f.index.docs[a.ID].Name)

	_, err = f.auth.Login(ctx, "a@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.auth.Login(ctx, "a@x.com", "newpass99")
	assert.NoError(t, err)
}

func TestUserService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "root@x.com")
	a := f.register(t, "a@x.com", "A")

	err := f.users.Delete(ctx, a, a.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "only admins can delete users", AsAppError(err).Message)

	err = f.users.Delete(ctx, admin, admin.ID)
	require.Error(t, err)
	assert.Equal(t, "admins cannot delete themselves", AsAppError(err).Message)

	assert.ErrorIs(t, f.users.Delete(ctx, admin, 999), ErrNotFound)

	require.NoError(t, f.users.Delete(ctx, admin, a.ID))
	_, err = f.users.Get(ctx, admin, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, f.index.docs, a.ID)
	assert.Contains(t, f.events.types(), EventUserDeleted)
}

func TestUserService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "root@x.com")
	a := f.register(t, "a@x.com", "A")

	_, err := f.users.Search(ctx, a, "a@x.com", 10)
	assert.ErrorIs(t, err, ErrForbidden)

	hits, err := f.users.Search(ctx, admin, "a@x.com", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, a.ID, hits[0].ID)

	f.users.Index = nil
	hits, err = f.users.Search(ctx, admin, "a@x.com", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
