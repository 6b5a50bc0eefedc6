package platform

import (
	"strconv"
	"strings"
)

// Counter keys for generating sequential ids.
const (
	// ProposalsCount holds an integer counter for proposals.
	ProposalsCount = "count:props"
	// OrdersCount holds an integer counter for orders.
	OrdersCount = "count:orders"
)

// getCount reads the string counter under the key and defaults to zero, nothing magical here.
func (e *env) getCount(key string) uint64 {
	ptr := e.st.Get(key)
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.ParseUint(*ptr, 10, 64)
	return n
}

// nextID hands out the current counter value and bumps it, so ids start at 0.
func (e *env) nextID(key string) uint64 {
	n := e.getCount(key)
	e.st.Set(key, strconv.FormatUint(n+1, 10))
	return n
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// splitIDList parses a comma-joined id index back into numbers.
func splitIDList(raw string) []uint64 {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]uint64, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.ParseUint(p, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// joinIDList is the inverse of splitIDList.
func joinIDList(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ",")
}
