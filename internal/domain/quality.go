package domain

// DataQuality collects non-fatal problems found while building a report.
// All record methods are safe on a nil receiver.
type DataQuality struct {
	UnrecognizedMethods    map[string]int `json:"unrecognized_payment_methods,omitempty"`
	UnknownStatuses        map[string]int `json:"unknown_statuses,omitempty"`
	MalformedSplitPayments []string       `json:"malformed_split_payments,omitempty"`
	NegativePartialAmounts []string       `json:"negative_partial_amounts,omitempty"`
	Warnings               []string       `json:"warnings,omitempty"`
}

func (q *DataQuality) RecordUnrecognizedMethod(raw string) {
	if q == nil {
		return
	}
	if q.UnrecognizedMethods == nil {
		q.UnrecognizedMethods = make(map[string]int)
	}
	q.UnrecognizedMethods[raw]++
}

func (q *DataQuality) RecordUnknownStatus(status OrderStatus) {
	if q == nil {
		return
	}
	if q.UnknownStatuses == nil {
		q.UnknownStatuses = make(map[string]int)
	}
	q.UnknownStatuses[string(status)]++
}

func (q *DataQuality) RecordMalformedSplit(orderID string) {
	if q == nil {
		return
	}
	q.MalformedSplitPayments = append(q.MalformedSplitPayments, orderID)
}

func (q *DataQuality) RecordNegativePartial(orderID string) {
	if q == nil {
		return
	}
	q.NegativePartialAmounts = append(q.NegativePartialAmounts, orderID)
}

func (q *DataQuality) Warn(msg string) {
	if q == nil {
		return
	}
	q.Warnings = append(q.Warnings, msg)
}

func (q *DataQuality) Clean() bool {
	return q == nil || (len(q.UnrecognizedMethods) == 0 &&
		len(q.UnknownStatuses) == 0 &&
		len(q.MalformedSplitPayments) == 0 &&
		len(q.NegativePartialAmounts) == 0 &&
		len(q.Warnings) == 0)
}
