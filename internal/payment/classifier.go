// Package payment maps free-text payment method strings recorded on orders to
// the closed set of channels used for accounting.
package payment

import (
	"strings"

	"github.com/courierdesk/ledger/internal/domain"
)

// Substrings that identify the internal cash collectors. They are checked
// before anything else, so "card" style inputs also land here.
var onHandAliases = []string{"car", "emad", "cae"}

var paymobMarkers = []string{
	"paymob", "pay mob", "باي موب", "بايموب",
	"visa", "mastercard", "card", "credit", "debit",
}

// Classify returns the canonical channel for a raw payment method. Matching
// is case-insensitive and the first rule that applies wins.
func Classify(raw string) domain.Channel {
	ch, _ := ClassifyWithSignal(raw)
	return ch
}

// ClassifyWithSignal is Classify plus a flag that is false when a non-empty
// input matched no rule and fell back to ChannelOther.
func ClassifyWithSignal(raw string) (domain.Channel, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return domain.ChannelOther, true
	}

	if containsAny(s, onHandAliases) {
		return domain.ChannelOnHand, true
	}
	if strings.Contains(s, "valu") {
		return domain.ChannelValu, true
	}

	switch s {
	case "visa_machine":
		return domain.ChannelVisaMachine, true
	case "instapay":
		return domain.ChannelInstapay, true
	case "wallet":
		return domain.ChannelWallet, true
	case "on_hand", "on hand":
		return domain.ChannelOnHand, true
	}

	if s == "paymob" || containsAny(s, paymobMarkers) {
		return domain.ChannelPaymob, true
	}

	switch {
	case s == "cash", s == "cod", s == "cash_on_delivery",
		strings.Contains(s, "cash on delivery"):
		return domain.ChannelCash, true
	}

	return domain.ChannelOther, false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
