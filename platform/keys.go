package platform

import "acdm_platform/ledger"

// Storage key prefixes. Keys are a prefix byte plus either a little-endian
// id or the raw address string, which keeps same-kind records contiguous.
const (
	// kStake houses encoded Position structs per account.
	kStake byte = 0x01
	// kVoteLock counts outstanding votes per account to guard unstakes.
	kVoteLock byte = 0x02
	// kProposal contains encoded Proposal records.
	kProposal byte = 0x10
	// kOrder contains encoded Order records.
	kOrder byte = 0x20
	// kReferral maps an account to its fixed upstream referrer.
	kReferral byte = 0x30
	// kRole stores the treasury capability bitmask per account.
	kRole byte = 0x40
)

// roundStateKey is a single well-known slot; exactly one round is live.
const roundStateKey = "round:current"

// openOrdersKey indexes the ids of active orders for listings.
const openOrdersKey = "idx:orders:open"

// packU64LEInline sprinkles a uint64 into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

func addrKey(prefix byte, addr ledger.Address) string {
	s := addr.String()
	buf := make([]byte, 0, 1+len(s))
	buf = append(buf, prefix)
	buf = append(buf, s...)
	return string(buf)
}

func idKey(prefix byte, id uint64) string {
	var buf [9]byte
	buf[0] = prefix
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

func stakeKey(addr ledger.Address) string    { return addrKey(kStake, addr) }
func voteLockKey(addr ledger.Address) string { return addrKey(kVoteLock, addr) }
func referralKey(addr ledger.Address) string { return addrKey(kReferral, addr) }
func roleKey(addr ledger.Address) string     { return addrKey(kRole, addr) }
func proposalKey(id uint64) string           { return idKey(kProposal, id) }
func orderKey(id uint64) string              { return idKey(kOrder, id) }
