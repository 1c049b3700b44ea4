// Package allocation distributes a shipment-level freight cost across all
// invoice line items proportionally to their FOB value and derives the
// insurance and CIF customs values.
package allocation

import "aforo/internal/domain"

// insuranceRate is the fixed 1.5% insurance applied to every item's FOB value.
const insuranceRate = 0.015

// Allocate recomputes the derived fields of every line item across the given
// invoices for a single shipment-level freight cost. It returns deep copies;
// the inputs are never mutated. The computation reads only quantity,
// unit price, and declared total price, so repeated calls with unchanged
// inputs yield identical output.
//
// Per item:
//
//	fob        = total_price if > 0, else quantity * unit_price
//	freight    = shipment_freight * fob / total_fob_shipment (0 when the total is 0)
//	insurance  = fob * 1.5%
//	cif        = fob + freight + insurance
func Allocate(shipmentFreightCost float64, invoices []domain.InvoiceRecord) []domain.InvoiceRecord {
	out := cloneInvoices(invoices)

	totalFOB := 0.0
	for i := range out {
		for j := range out[i].Items {
			item := &out[i].Items[j]
			item.FOBValue = fobValue(item)
			totalFOB += item.FOBValue
		}
	}

	// Degenerate basis: fall back to quantity*unit_price across all items.
	// A zero fallback is still valid and yields zero proportions everywhere.
	if totalFOB == 0 {
		for i := range out {
			for _, item := range out[i].Items {
				totalFOB += item.Quantity * item.UnitPrice
			}
		}
	}

	for i := range out {
		for j := range out[i].Items {
			item := &out[i].Items[j]

			proportion := 0.0
			if totalFOB > 0 {
				proportion = item.FOBValue / totalFOB
			}

			item.FreightProportional = shipmentFreightCost * proportion
			item.InsuranceCalculated = item.FOBValue * insuranceRate
			item.CIFValueCorrected = item.FOBValue + item.FreightProportional + item.InsuranceCalculated
		}
	}

	return out
}

// fobValue prefers the declared item total; zero or negative totals fall back
// to quantity times unit price.
func fobValue(item *domain.LineItem) float64 {
	if item.TotalPrice > 0 {
		return item.TotalPrice
	}
	return item.Quantity * item.UnitPrice
}

func cloneInvoices(invoices []domain.InvoiceRecord) []domain.InvoiceRecord {
	out := make([]domain.InvoiceRecord, len(invoices))
	for i, inv := range invoices {
		out[i] = inv
		out[i].Items = make([]domain.LineItem, len(inv.Items))
		copy(out[i].Items, inv.Items)
	}
	return out
}
