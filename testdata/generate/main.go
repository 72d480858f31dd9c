package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierdesk/ledger/internal/domain"
)

// Raw payment strings as they show up in the order database, typos included.
var paymentMethods = []string{
	"cash", "Cash", "COD", "cash on delivery", "paymob", "Paymob Online", "valu", "ValU",
	"visa_machine", "instapay", "wallet", "on_hand", "Mastercard", "bank transfer",
}

var statusWeights = []struct {
	status domain.OrderStatus
	weight int
}{
	{domain.StatusPending, 8},
	{domain.StatusAssigned, 15},
	{domain.StatusDelivered, 45},
	{domain.StatusCanceled, 8},
	{domain.StatusPartial, 8},
	{domain.StatusReturn, 5},
	{domain.StatusReceivingPart, 4},
	{domain.StatusHandToHand, 5},
	{"lost_in_transit", 2},
}

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()

	// Date range: 2025-03-01 to 2025-03-14.
	startDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	dayRange := 14

	couriers := make([]string, 8)
	for i := range couriers {
		couriers[i] = fmt.Sprintf("C%03d", i+1)
	}

	orders := make([]domain.Order, 0, 200)
	for i := 1; i <= 200; i++ {
		assignedAt := startDate.AddDate(0, 0, rng.Intn(dayRange)).Add(
			time.Duration(8+rng.Intn(12))*time.Hour + time.Duration(rng.Intn(60))*time.Minute,
		)
		updatedAt := assignedAt.Add(time.Duration(30+rng.Intn(600)) * time.Minute)
		createdAt := assignedAt.Add(-time.Duration(10+rng.Intn(120)) * time.Minute)

		total := randomAmount(rng, 40, 1500)
		o := domain.Order{
			ID:                fmt.Sprintf("ORD-%05d", i),
			OrderNumber:       fmt.Sprintf("%d", 100000+i),
			TotalOrderFees:    domain.NewAmount(total),
			DeliveryFee:       domain.NewAmount(randomAmount(rng, 15, 60)),
			Status:            pickStatus(rng),
			PaymentMethod:     paymentMethods[rng.Intn(len(paymentMethods))],
			AssignedCourierID: couriers[rng.Intn(len(couriers))],
			AssignedAt:        &assignedAt,
			UpdatedAt:         &updatedAt,
			CreatedAt:         &createdAt,
		}

		if rng.Float64() < 0.15 {
			o.AdminDeliveryFee = domain.NewAmount(randomAmount(rng, 5, 20))
		}
		if rng.Float64() < 0.10 {
			o.ExtraFee = domain.NewAmount(randomAmount(rng, 5, 30))
		}

		switch o.Status {
		case domain.StatusPartial, domain.StatusHandToHand, domain.StatusReceivingPart:
			paid := total.Mul(decimal.NewFromFloat(0.2 + rng.Float64()*0.6)).Round(2)
			// Some clients store partial collections as negative adjustments.
			if rng.Float64() < 0.1 {
				paid = paid.Neg()
			}
			o.PartialPaidAmount = domain.NewAmount(paid)
		}

		if rng.Float64() < 0.12 {
			addSplitPayments(rng, &o, total)
		}
		if rng.Float64() < 0.10 {
			addHoldFee(rng, &o, updatedAt)
		}
		if o.Status == domain.StatusHandToHand || rng.Float64() < 0.05 {
			o.CollectedBy = "courier"
		}

		orders = append(orders, o)
	}

	writeJSONFile(filepath.Join(baseDir, "orders.json"), map[string]any{
		"exported_at": startDate.AddDate(0, 0, dayRange).Format(time.RFC3339),
		"orders":      orders,
	})
	fmt.Printf("Generated %d orders -> orders.json\n", len(orders))

	writeOrdersCSV(filepath.Join(baseDir, "orders_update.csv"), rng, orders)
}

func randomAmount(rng *rand.Rand, lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + rng.Float64()*(hi-lo)).Round(2)
}

func pickStatus(rng *rand.Rand) domain.OrderStatus {
	total := 0
	for _, sw := range statusWeights {
		total += sw.weight
	}
	roll := rng.Intn(total)
	for _, sw := range statusWeights {
		if roll < sw.weight {
			return sw.status
		}
		roll -= sw.weight
	}
	return domain.StatusDelivered
}

func addSplitPayments(rng *rand.Rand, o *domain.Order, total decimal.Decimal) {
	o.PaymentSubType = domain.SplitPaymentSubType
	first := total.Mul(decimal.NewFromFloat(0.3 + rng.Float64()*0.4)).Round(2)
	items := []domain.OtherPayment{
		{Method: "cash", Amount: domain.NewAmount(first)},
		{Method: []string{"instapay", "wallet", "visa_machine", "paymob"}[rng.Intn(4)], Amount: domain.NewAmount(total.Sub(first))},
	}

	switch roll := rng.Float64(); {
	case roll < 0.6:
		o.OtherPayments = domain.NewOtherPayments(items)
	case roll < 0.9:
		// Older clients saved the list as a JSON string.
		raw, _ := json.Marshal(items)
		quoted, _ := json.Marshal(string(raw))
		o.OtherPayments = domain.RawOtherPayments(string(quoted))
	default:
		o.OtherPayments = domain.RawOtherPayments(`"[{method: cash"`)
	}
}

func addHoldFee(rng *rand.Rand, o *domain.Order, at time.Time) {
	amount := domain.NewAmount(randomAmount(rng, 10, 80))
	created := at.Add(time.Duration(rng.Intn(48)) * time.Hour)
	o.HoldFeeAmount = amount
	o.HoldFeeComment = []string{"damaged package", "missing item", "late return", "customer complaint"}[rng.Intn(4)]
	o.HoldFeeCreatedBy = fmt.Sprintf("admin-%d", 1+rng.Intn(3))
	o.HoldFeeCreatedAt = &created
	o.HoldFeeAddedAt = &created

	if rng.Float64() < 0.35 {
		removed := created.Add(time.Duration(1+rng.Intn(72)) * time.Hour)
		o.HoldFeeRemovedAt = &removed
		return
	}
	o.HoldFee = amount
}

// writeOrdersCSV re-exports a sample of orders with later statuses, the way
// the dispatch spreadsheet sends corrections.
func writeOrdersCSV(path string, rng *rand.Rand, orders []domain.Order) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"id", "order_number", "status", "payment_method", "total_order_fees", "delivery_fee",
		"assigned_courier_id", "assigned_at", "updated_at",
	}
	if err := w.Write(header); err != nil {
		panic(err)
	}

	count := 0
	for _, o := range orders {
		// Rows replace the stored order, so skip orders whose hold or split
		// data the sheet does not carry.
		if o.NormalizedStatus() != domain.StatusAssigned || o.HasHoldHistory() || o.IsSplitPayment() {
			continue
		}
		if rng.Float64() < 0.5 {
			continue
		}
		updated := o.UpdatedAt.Add(24 * time.Hour)
		row := []string{
			o.ID, o.OrderNumber, string(domain.StatusDelivered), o.PaymentMethod,
			o.TotalOrderFees.Dec().StringFixed(2), o.DeliveryFee.Dec().StringFixed(2),
			o.AssignedCourierID, o.AssignedAt.Format(time.RFC3339), updated.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			panic(err)
		}
		count++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		panic(err)
	}

	fmt.Printf("Generated %d CSV corrections -> orders_update.csv\n", count)
}

func writeJSONFile(path string, v any) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		panic(err)
	}
}

func findTestdataDir() string {
	for _, c := range []string{"testdata", "../../testdata", ".."} {
		if info, err := os.Stat(filepath.Join(c, "generate")); err == nil && info.IsDir() {
			return c
		}
	}
	return "testdata"
}
