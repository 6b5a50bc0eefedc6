package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acdm_platform/platform"
)

func TestRegisterUnderOwner(t *testing.T) {
	r := setupPlatformTest(t)
	// The owner is seeded as the referral root at construction.
	assert.NoError(t, r.p.Register(alice, ownerAddress))
}

func TestRegisterChainDepth(t *testing.T) {
	r := setupPlatformTest(t)
	r.registerChain(alice, bob, carol)
	assert.NoError(t, r.p.Register(dave, carol))
}

func TestRegisterUnknownReferrer(t *testing.T) {
	r := setupPlatformTest(t)
	assert.ErrorIs(t, r.p.Register(alice, bob), platform.ErrReferrerNotRegistered)
}

func TestRegisterSelf(t *testing.T) {
	r := setupPlatformTest(t)
	assert.ErrorIs(t, r.p.Register(alice, alice), platform.ErrSelfReferral)
}

func TestRegisterTwice(t *testing.T) {
	r := setupPlatformTest(t)
	require.NoError(t, r.p.Register(alice, ownerAddress))
	assert.ErrorIs(t, r.p.Register(alice, ownerAddress), platform.ErrAlreadyRegistered)

	// Switching referrers is not possible either.
	require.NoError(t, r.p.Register(bob, ownerAddress))
	assert.ErrorIs(t, r.p.Register(alice, bob), platform.ErrAlreadyRegistered)
}

func TestRegisterEmitsEvent(t *testing.T) {
	r := setupPlatformTest(t)
	require.NoError(t, r.p.Register(alice, ownerAddress))
	evs := r.rec.ByKind(platform.EventReferralRegistered)
	require.Len(t, evs, 1)
	assert.Equal(t, alice.String(), evs[0].Account)
	assert.Equal(t, ownerAddress.String(), evs[0].Counterparty)
}
