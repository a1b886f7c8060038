package enums

// SubscriptionStatus labels a store's subscription plan state. Legacy rows
// may carry no status at all; readers must treat that as StatusUnknown and
// fail open.
type SubscriptionStatus string

const (
	SubscriptionStatusTrial    SubscriptionStatus = "trial"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusUnknown  SubscriptionStatus = "unknown"
)

// String implements fmt.Stringer.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// Blocks reports whether the status alone (absent an expiry) denies service.
func (s SubscriptionStatus) Blocks() bool {
	return s == SubscriptionStatusExpired || s == SubscriptionStatusInactive
}
