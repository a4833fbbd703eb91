package service_test

import (
	"context"
	"testing"

	"github.com/ayaka01/chimeo-core/internal/apierr"
	"github.com/ayaka01/chimeo-core/internal/database"
	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/repository"
	"github.com/ayaka01/chimeo-core/internal/service"

	"github.com/stretchr/testify/require"
)

func newSocialService(t *testing.T) (service.SocialService, repository.UserRepository) {
	t.Helper()
	db, err := database.NewTestDB()
	require.NoError(t, err)
	users := repository.NewUserRepository(db)
	friends := repository.NewFriendRepository(db)
	ctx := context.Background()
	for _, u := range []string{"alice", "bob", "carol"} {
		require.NoError(t, users.Create(ctx, &models.User{Username: u, Email: u + "@x.io", HashedPassword: "h"}))
	}
	return service.NewSocialService(friends, users), users
}

func TestSocialServiceSendRequestCreatesPending(t *testing.T) {
	svc, _ := newSocialService(t)
	ctx := context.Background()

	resp, err := svc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Equal(t, models.FriendRequestPending, resp.Status)

	friends, err := svc.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	require.False(t, friends, "expected not yet friends after a single request")
}

func TestSocialServiceAutoAcceptOnReverseRequest(t *testing.T) {
	svc, _ := newSocialService(t)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	resp, err := svc.SendRequest(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Equal(t, models.FriendRequestAccepted, resp.Status)

	friends, err := svc.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, friends, "expected alice and bob to be friends after auto-accept")

	aliceFriends, err := svc.ListFriends(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	require.Equal(t, "bob", aliceFriends[0].Username)
}

func TestSocialServiceSendRequestRejectsSelf(t *testing.T) {
	svc, _ := newSocialService(t)
	_, err := svc.SendRequest(context.Background(), "alice", "alice")
	require.ErrorIs(t, err, apierr.ErrCannotFriendSelf)
}

func TestSocialServiceSendRequestUnknownRecipient(t *testing.T) {
	svc, _ := newSocialService(t)
	_, err := svc.SendRequest(context.Background(), "alice", "ghost")
	require.ErrorIs(t, err, apierr.ErrUserNotFound)
}

func TestSocialServiceSendRequestDuplicate(t *testing.T) {
	svc, _ := newSocialService(t)
	ctx := context.Background()
	_, err := svc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = svc.SendRequest(ctx, "alice", "bob")
	require.ErrorIs(t, err, apierr.ErrFriendRequestAlreadyExists)
}

func TestSocialServiceAcceptAndRejectRequest(t *testing.T) {
	svc, _ := newSocialService(t)
	ctx := context.Background()

	resp, err := svc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	other, err := svc.AcceptRequest(ctx, resp.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, "alice", other.Username)

	friends, err := svc.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, friends)

	resp2, err := svc.SendRequest(ctx, "alice", "carol")
	require.NoError(t, err)
	rejectedOther, err := svc.RejectRequest(ctx, resp2.ID, "carol")
	require.NoError(t, err)
	require.Equal(t, "alice", rejectedOther.Username)

	friendsWithCarol, err := svc.AreFriends(ctx, "alice", "carol")
	require.NoError(t, err)
	require.False(t, friendsWithCarol)
}

func TestSocialServiceAcceptRequestWrongUser(t *testing.T) {
	svc, _ := newSocialService(t)
	ctx := context.Background()
	resp, err := svc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = svc.AcceptRequest(ctx, resp.ID, "carol")
	require.ErrorIs(t, err, apierr.ErrNotAuthorized)
}

func TestSocialServiceAcceptRequestUnknownID(t *testing.T) {
	svc, _ := newSocialService(t)
	_, err := svc.AcceptRequest(context.Background(), "does-not-exist", "bob")
	require.ErrorIs(t, err, apierr.ErrFriendRequestNotFound)
}

func TestSocialServiceSearchExcludesKnownRelations(t *testing.T) {
	svc, _ := newSocialService(t)
	ctx := context.Background()
	_, err := svc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	results, err := svc.Search(ctx, "", "alice")
	require.NoError(t, err)

	names := make([]string, len(results))
	for i, u := range results {
		names[i] = u.Username
	}
	require.NotContains(t, names, "alice")
	require.NotContains(t, names, "bob")
}
