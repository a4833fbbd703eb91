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
	"gorm.io/gorm"
)

func newMessageService(t *testing.T) service.MessageService {
	t.Helper()
	db, err := database.NewTestDB()
	require.NoError(t, err)
	users := repository.NewUserRepository(db)
	friends := repository.NewFriendRepository(db)
	messages := repository.NewMessageRepository(db)
	ctx := context.Background()
	for _, u := range []string{"alice", "bob", "carol"} {
		require.NoError(t, users.Create(ctx, &models.User{Username: u, Email: u + "@x.io", HashedPassword: "h"}))
	}
	require.NoError(t, friends.Transaction(ctx, func(tx *gorm.DB) error {
		_, err := friends.CreateFriendship(ctx, tx, "alice", "bob")
		return err
	}))

	social := service.NewSocialService(friends, users)
	return service.NewMessageService(messages, users, social)
}

func TestMessageServiceSendRequiresFriendship(t *testing.T) {
	svc := newMessageService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)

	_, err = svc.Send(ctx, "carol", "alice", "hey")
	require.ErrorIs(t, err, apierr.ErrForbidden)
}

func TestMessageServiceSendUnknownRecipient(t *testing.T) {
	svc := newMessageService(t)
	_, err := svc.Send(context.Background(), "alice", "ghost", "hi")
	require.ErrorIs(t, err, apierr.ErrUserNotFound)
}

func TestMessageServiceListPendingFIFO(t *testing.T) {
	svc := newMessageService(t)
	ctx := context.Background()

	first, err := svc.Send(ctx, "alice", "bob", "one")
	require.NoError(t, err)
	second, err := svc.Send(ctx, "alice", "bob", "two")
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, first.ID, pending[0].ID)
	require.Equal(t, second.ID, pending[1].ID)
}

func TestMessageServiceAckDeletesRow(t *testing.T) {
	svc := newMessageService(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)

	acked, err := svc.Ack(ctx, msg.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, msg.ID, acked.ID)

	pending, err := svc.ListPending(ctx, "bob")
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestMessageServiceAckWrongRecipientForbidden(t *testing.T) {
	svc := newMessageService(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)

	_, err = svc.Ack(ctx, msg.ID, "carol")
	require.ErrorIs(t, err, apierr.ErrForbidden)

	pending, err := svc.ListPending(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, pending, 1, "expected message to survive wrong-recipient ack")
}

func TestMessageServiceAckUnknownMessage(t *testing.T) {
	svc := newMessageService(t)
	_, err := svc.Ack(context.Background(), "does-not-exist", "bob")
	require.ErrorIs(t, err, apierr.ErrMessageNotFound)
}
