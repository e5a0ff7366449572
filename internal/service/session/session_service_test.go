package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql/mysqltest"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

func seedUsers(t *testing.T, fakes *mysqltest.Fakes, uuids ...string) {
	t.Helper()
	for _, uuid := range uuids {
		require.NoError(t, fakes.Users.CreateUser(&model.User{
			Uuid:      uuid,
			Firstname: uuid[1:],
			Email:     uuid + "@example.com",
			Status:    model.PresenceOffline,
		}))
	}
}

func TestOpenSessionBothDirectionsSameKey(t *testing.T) {
	fakes := mysqltest.NewFakes()
	seedUsers(t, fakes, "Ualice", "Ubob")
	svc := NewService(fakes.Repos)
	ctx := context.Background()

	first, err := svc.OpenSession(ctx, "Ualice", "Ubob")
	require.NoError(t, err)
	second, err := svc.OpenSession(ctx, "Ubob", "Ualice")
	require.NoError(t, err)

	assert.Equal(t, "Ualice_Ubob", first.SessionId)
	assert.Equal(t, first.SessionId, second.SessionId)
	assert.Equal(t, "Ubob", first.Peer.Uuid)
	assert.Equal(t, "Ualice", second.Peer.Uuid)

	// Exactly one row exists no matter how many times either side opens.
	sessions, err := fakes.Sessions.FindByParticipant("Ualice")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestOpenSessionRejectsSelf(t *testing.T) {
	fakes := mysqltest.NewFakes()
	seedUsers(t, fakes, "Ualice")
	svc := NewService(fakes.Repos)

	_, err := svc.OpenSession(context.Background(), "Ualice", "Ualice")
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestOpenSessionRejectsUnknownPeer(t *testing.T) {
	fakes := mysqltest.NewFakes()
	seedUsers(t, fakes, "Ualice")
	svc := NewService(fakes.Repos)

	_, err := svc.OpenSession(context.Background(), "Ualice", "Ughost")
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestAuthorize(t *testing.T) {
	fakes := mysqltest.NewFakes()
	seedUsers(t, fakes, "Ualice", "Ubob")
	svc := NewService(fakes.Repos)
	ctx := context.Background()

	opened, err := svc.OpenSession(ctx, "Ualice", "Ubob")
	require.NoError(t, err)

	peer, err := svc.Authorize(ctx, "Ualice", opened.SessionId)
	require.NoError(t, err)
	assert.Equal(t, "Ubob", peer)

	_, err = svc.Authorize(ctx, "Ueve", opened.SessionId)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	_, err = svc.Authorize(ctx, "Ualice", "Ualice_Ughost")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}
