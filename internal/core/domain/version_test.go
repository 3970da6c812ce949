package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jasmin/internal/core/domain"
)

var gateStart = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestVersionGate_Token(t *testing.T) {
	local := time.FixedZone("CEST", 2*60*60)
	g := domain.NewVersionGate(gateStart.In(local))

	assert.Equal(t, "261019-1200", g.Token())
	assert.Equal(t, gateStart, g.Started())
	assert.True(t, g.Peer().Before(gateStart.AddDate(-9, 0, 0)))
}

func TestVersionGate_Check(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantExpire bool
		wantErr    error
	}{
		{name: "own token", token: "261019-1200", wantExpire: true},
		{name: "no expires", token: domain.NoExpires, wantExpire: false},
		{name: "four minutes later", token: "261019-1204", wantExpire: true},
		{name: "four minutes earlier", token: "261019-1156", wantExpire: true},
		{name: "garbage", token: "yesterday", wantErr: domain.ErrInvalidVersion},
		{name: "invalid month", token: "261319-1200", wantErr: domain.ErrInvalidVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewVersionGate(gateStart)
			expire, err := g.Check(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExpire, expire)
		})
	}
}

func TestVersionGate_Check_SameStartupKeepsPeer(t *testing.T) {
	g := domain.NewVersionGate(gateStart)
	peer := g.Peer()

	_, err := g.Check("261019-1204")
	require.NoError(t, err)
	assert.Equal(t, peer, g.Peer())
}

func TestVersionGate_Check_NewerTokenBecomesPeer(t *testing.T) {
	g := domain.NewVersionGate(gateStart)

	expire, err := g.Check("261020-0800")
	require.NoError(t, err)
	assert.True(t, expire)
	assert.Equal(t, time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC), g.Peer())

	// Tokens near the peer start are current.
	_, err = g.Check("261020-0803")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC), g.Peer())
}

func TestVersionGate_Check_Retention(t *testing.T) {
	g := domain.NewVersionGate(gateStart)
	_, err := g.Check("261019-1300")
	require.NoError(t, err)

	// Exactly seven days before the older start time is still served.
	expire, err := g.Check("261012-1200")
	require.NoError(t, err)
	assert.True(t, expire)

	_, err = g.Check("261012-1159")
	require.ErrorIs(t, err, domain.ErrStaleVersion)

	_, err = g.Check("260101-0000")
	require.ErrorIs(t, err, domain.ErrStaleVersion)
}
