package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/backend-glam/internal/events"
)

func extractRecipient(payload map[string]any) string {
	keys := []string{"email", "recipient", "customerEmail", "providerEmail"}
	for _, key := range keys {
		if val, ok := payload[key]; ok {
			if s, ok := val.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func subjectFor(topic string) string {
	switch topic {
	case events.TopicBookingCreated:
		return "Booking diterima"
	case events.TopicBookingConfirmed:
		return "Booking dikonfirmasi"
	case events.TopicBookingCancelled:
		return "Booking dibatalkan"
	case events.TopicPromoRedeemed:
		return "Promo berhasil digunakan"
	case events.TopicPaymentFailed:
		return "Pembayaran gagal"
	default:
		return fmt.Sprintf("Notifikasi %s", topic)
	}
}

func bodyFor(topic string, payload map[string]any, occurred time.Time) string {
	summary := fmt.Sprintf("Event %s terjadi pada %s.", topic, occurred.Format(time.RFC3339))
	if bookingID, ok := payload["bookingId"].(string); ok && bookingID != "" {
		summary += fmt.Sprintf("\nID Booking: %s", bookingID)
	}
	if serviceName, ok := payload["serviceName"].(string); ok && serviceName != "" {
		summary += fmt.Sprintf("\nLayanan: %s", serviceName)
	}
	if total, ok := payload["totalAmount"].(string); ok && total != "" {
		currency := "IDR"
		if c, ok := payload["currency"].(string); ok && c != "" {
			currency = c
		}
		summary += fmt.Sprintf("\nTotal: %s %s", currency, total)
	}
	if code, ok := payload["promotionCode"].(string); ok && code != "" {
		summary += fmt.Sprintf("\nKode promo: %s", code)
	}
	if note, ok := payload["message"].(string); ok && note != "" {
		summary += "\n" + note
	}
	return summary
}
