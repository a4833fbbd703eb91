package repository_test

import (
	"context"
	"testing"

	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUsers(t *testing.T, users repository.UserRepository, names ...string) {
	t.Helper()
	ctx := context.Background()
	for _, n := range names {
		require.NoError(t, users.Create(ctx, &models.User{Username: n, Email: n + "@x.io", HashedPassword: "h"}))
	}
}

func TestFriendRepositoryCreateFriendshipIsOrderedAndDeduped(t *testing.T) {
	db := newTestDB(t)
	friends := repository.NewFriendRepository(db)
	users := repository.NewUserRepository(db)
	seedUsers(t, users, "bob", "alice")
	ctx := context.Background()

	var created *models.Friendship
	err := friends.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = friends.CreateFriendship(ctx, tx, "bob", "alice")
		return err
	})
	require.NoError(t, err)
	require.Equal(t, "alice", created.User1Username)
	require.Equal(t, "bob", created.User2Username)

	byReverse, err := friends.FindFriendship(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Equal(t, created.ID, byReverse.ID)

	byOriginal, err := friends.FindFriendship(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Equal(t, created.ID, byOriginal.ID)
}

func TestFriendRepositoryListFriends(t *testing.T) {
	db := newTestDB(t)
	friends := repository.NewFriendRepository(db)
	users := repository.NewUserRepository(db)
	seedUsers(t, users, "alice", "bob", "carol")
	ctx := context.Background()

	err := friends.Transaction(ctx, func(tx *gorm.DB) error {
		_, err := friends.CreateFriendship(ctx, tx, "alice", "bob")
		return err
	})
	require.NoError(t, err)

	list, err := friends.ListFriends(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "bob", list[0].Username)

	empty, err := friends.ListFriends(ctx, "carol")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestFriendRepositoryRequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	friends := repository.NewFriendRepository(db)
	users := repository.NewUserRepository(db)
	seedUsers(t, users, "alice", "bob")
	ctx := context.Background()

	req, err := friends.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Equal(t, models.FriendRequestPending, req.Status)

	received, err := friends.ListReceived(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, received, 1)

	sent, err := friends.ListSent(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sent, 1)

	require.NoError(t, friends.SetRequestStatus(ctx, req.ID, models.FriendRequestRejected))
	reread, err := friends.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.FriendRequestRejected, reread.Status)

	err = friends.Transaction(ctx, func(tx *gorm.DB) error {
		return friends.DeleteRequest(ctx, tx, req.ID)
	})
	require.NoError(t, err)

	_, err = friends.FindRequestByID(ctx, req.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFriendRepositorySearchExcludesSelfFriendsAndRequested(t *testing.T) {
	db := newTestDB(t)
	friends := repository.NewFriendRepository(db)
	users := repository.NewUserRepository(db)
	seedUsers(t, users, "alice", "bob", "carol", "dave")
	ctx := context.Background()

	_, err := friends.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	err = friends.Transaction(ctx, func(tx *gorm.DB) error {
		_, err := friends.CreateFriendship(ctx, tx, "alice", "carol")
		return err
	})
	require.NoError(t, err)

	results, err := friends.Search(ctx, "", "alice", 20)
	require.NoError(t, err)

	names := make([]string, len(results))
	for i, u := range results {
		names[i] = u.Username
	}
	require.NotContains(t, names, "alice")
	require.NotContains(t, names, "bob")
	require.NotContains(t, names, "carol")
	require.Contains(t, names, "dave")
}
