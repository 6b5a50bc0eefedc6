package platform

import (
	"fmt"

	"acdm_platform/ledger"
)

// ReferralRegistry maps a participant to at most one upstream referrer.
// Edges are fixed at first registration and never removed.
type ReferralRegistry struct {
	*env
}

// rootMarker is stored for bootstrap accounts that joined without a referrer.
const rootMarker = "-"

// RegisterRoot seeds a bootstrap account that has no upstream referrer.
// Called once at construction for the platform owner.
func (r *ReferralRegistry) RegisterRoot(acct ledger.Address) {
	if r.st.Get(referralKey(acct)) != nil {
		return
	}
	r.st.Set(referralKey(acct), rootMarker)
}

// Register records the caller's referral edge permanently.
func (r *ReferralRegistry) Register(acct, referrer ledger.Address) error {
	if acct == referrer {
		return ErrSelfReferral
	}
	if r.st.Get(referralKey(acct)) != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, acct)
	}
	if r.st.Get(referralKey(referrer)) == nil {
		return fmt.Errorf("%w: %s", ErrReferrerNotRegistered, referrer)
	}
	r.st.Set(referralKey(acct), referrer.String())
	r.events.emitReferralRegistered(acct, referrer, r.now())
	return nil
}

// IsRegistered reports whether the account joined the referral program.
func (r *ReferralRegistry) IsRegistered(acct ledger.Address) bool {
	return r.st.Get(referralKey(acct)) != nil
}

// ReferrerOf returns the upstream referrer, or false for unregistered
// accounts and bootstrap roots.
func (r *ReferralRegistry) ReferrerOf(acct ledger.Address) (ledger.Address, bool) {
	ptr := r.st.Get(referralKey(acct))
	if ptr == nil || *ptr == rootMarker {
		return "", false
	}
	return ledger.Address(*ptr), true
}
