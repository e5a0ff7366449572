package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "sent", StatusSent.String())
	assert.Equal(t, "delivered", StatusDelivered.String())
	assert.Equal(t, "read", StatusRead.String())
	assert.Equal(t, "unknown", Status(9).String())
}

func TestUnread(t *testing.T) {
	assert.True(t, StatusSent.Unread())
	assert.True(t, StatusDelivered.Unread())
	assert.False(t, StatusRead.Unread())
}

func TestCanAdvanceForwardOnly(t *testing.T) {
	assert.True(t, CanAdvance(StatusSent, StatusDelivered))
	assert.True(t, CanAdvance(StatusSent, StatusRead))
	assert.True(t, CanAdvance(StatusDelivered, StatusRead))

	// No regressions, no self-transitions.
	assert.False(t, CanAdvance(StatusDelivered, StatusSent))
	assert.False(t, CanAdvance(StatusRead, StatusDelivered))
	assert.False(t, CanAdvance(StatusRead, StatusRead))
	assert.False(t, CanAdvance(StatusSent, Status(5)))
}

func TestCheckAdvanceReceiverOnly(t *testing.T) {
	// The sender cannot advance their own message.
	err := CheckAdvance("Usender", "Ureceiver", "Usender", StatusSent, StatusDelivered)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// A third party cannot either.
	err = CheckAdvance("Usender", "Ureceiver", "Uother", StatusSent, StatusRead)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// The receiver can.
	require.NoError(t, CheckAdvance("Usender", "Ureceiver", "Ureceiver", StatusSent, StatusDelivered))
	require.NoError(t, CheckAdvance("Usender", "Ureceiver", "Ureceiver", StatusDelivered, StatusRead))
}

func TestCheckAdvanceRetryIsNoop(t *testing.T) {
	err := CheckAdvance("Usender", "Ureceiver", "Ureceiver", StatusRead, StatusRead)
	assert.ErrorIs(t, err, ErrNoop)

	err = CheckAdvance("Usender", "Ureceiver", "Ureceiver", StatusRead, StatusDelivered)
	assert.ErrorIs(t, err, ErrNoop)
}

func TestCheckAdvanceInvalidTarget(t *testing.T) {
	err := CheckAdvance("Usender", "Ureceiver", "Ureceiver", StatusSent, StatusSent)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	err = CheckAdvance("Usender", "Ureceiver", "Ureceiver", StatusSent, Status(7))
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestCheckDeleteSenderOnly(t *testing.T) {
	require.NoError(t, CheckDelete("Usender", "Usender"))

	err := CheckDelete("Usender", "Ureceiver")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}
