package entry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentryboot/sentryboot/config"
	"github.com/sentryboot/sentryboot/entry"
)

func TestStaysResidentOnTouchBaud(t *testing.T) {
	require.True(t, entry.ShouldStayResident(config.AppValidMagic, entry.LineCoding{BaudRate: 1200}))
}

func TestStaysResidentWhenMarkerMissing(t *testing.T) {
	require.True(t, entry.ShouldStayResident(0xFFFFFFFF, entry.LineCoding{BaudRate: 115200}))
}

func TestJumpsWhenMarkerValidAndNoTouch(t *testing.T) {
	require.False(t, entry.ShouldStayResident(config.AppValidMagic, entry.LineCoding{BaudRate: 115200}))
}

func TestHostLauncherRecordsJumpWithoutExiting(t *testing.T) {
	l := entry.NewHost()
	l.Jump()
	require.True(t, l.Jumped)
}
