package events

// Topic constants for domain events emitted by the marketplace.
const (
	TopicBookingCreated   = "booking.created"
	TopicBookingConfirmed = "booking.confirmed"
	TopicBookingCancelled = "booking.cancelled"
	TopicPromoRedeemed    = "promo.redeemed"
	TopicPaymentFailed    = "payment.failed"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicBookingCreated,
		TopicBookingConfirmed,
		TopicBookingCancelled,
		TopicPromoRedeemed,
		TopicPaymentFailed,
	}
}
