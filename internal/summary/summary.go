// Package summary groups transactions into the per-truck, per-customer and
// overall figures shown on the reporting pages. Money is accumulated with
// shopspring/decimal and converted to float64 only for the response.
package summary

import (
	"sort"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/shopspring/decimal"
)

type TruckSummary struct {
	TruckID    string `json:"truckId"`
	TruckName  string `json:"truckName"`
	DriverName string `json:"driverName,omitempty"`

	Transactions           []models.TruckTransaction `json:"transactions"`
	AdditionalTransactions []models.TruckTransaction `json:"additionalTransactions"`

	TotalCost           float64 `json:"totalCost"`
	TotalSellingPrice   float64 `json:"totalSellingPrice"`
	TotalAdditionalCost float64 `json:"totalAdditionalCost"`
	Margin              float64 `json:"margin"`
}

type CustomerSummary struct {
	CustomerID        string  `json:"customerId,omitempty"`
	Initial           string  `json:"initial"`
	Count             int     `json:"count"`
	TotalCost         float64 `json:"totalCost"`
	TotalSellingPrice float64 `json:"totalSellingPrice"`
	Margin            float64 `json:"margin"`
}

type Overview struct {
	Range               models.DateRange `json:"range"`
	TransactionCount    int              `json:"transactionCount"`
	TruckRevenue        float64          `json:"truckRevenue"`
	TruckCost           float64          `json:"truckCost"`
	TruckAdditionalCost float64          `json:"truckAdditionalCost"`
	AdditionalCost      float64          `json:"additionalCost"`
	NetMargin           float64          `json:"netMargin"`
}

type truckAgg struct {
	summary    TruckSummary
	cost       decimal.Decimal
	selling    decimal.Decimal
	additional decimal.Decimal
}

// GroupByTruck returns one group per known truck plus one for every other
// truckId seen in txs. ADDITIONAL_TRANSACTIONs have no truck and are
// ignored. Groups are ordered by truck name, transactions newest first.
func GroupByTruck(trucks []models.Truck, txs []models.Transaction) []TruckSummary {
	groups := make(map[string]*truckAgg, len(trucks))
	for _, t := range trucks {
		id := t.ID.Hex()
		groups[id] = &truckAgg{summary: TruckSummary{TruckID: id, TruckName: t.Name, DriverName: t.DriverName}}
	}

	for _, tx := range txs {
		if tx.TruckID == "" || tx.TransactionType == models.TransactionTypeAdditional {
			continue
		}
		g, ok := groups[tx.TruckID]
		if !ok {
			g = &truckAgg{summary: TruckSummary{TruckID: tx.TruckID, TruckName: tx.TruckID}}
			groups[tx.TruckID] = g
		}

		switch tx.TransactionType {
		case models.TransactionTypeTruck:
			g.summary.Transactions = append(g.summary.Transactions, tx.TruckView())
			g.cost = g.cost.Add(decimal.NewFromFloat(tx.Cost))
			g.selling = g.selling.Add(decimal.NewFromFloat(tx.SellingPrice))
		case models.TransactionTypeTruckAdditional:
			g.summary.AdditionalTransactions = append(g.summary.AdditionalTransactions, tx.TruckView())
			g.additional = g.additional.Add(decimal.NewFromFloat(tx.Cost))
		}
	}

	out := make([]TruckSummary, 0, len(groups))
	for _, g := range groups {
		s := g.summary
		if s.Transactions == nil {
			s.Transactions = []models.TruckTransaction{}
		}
		if s.AdditionalTransactions == nil {
			s.AdditionalTransactions = []models.TruckTransaction{}
		}
		newestFirst(s.Transactions)
		newestFirst(s.AdditionalTransactions)

		s.TotalCost = g.cost.InexactFloat64()
		s.TotalSellingPrice = g.selling.InexactFloat64()
		s.TotalAdditionalCost = g.additional.InexactFloat64()
		s.Margin = g.selling.Sub(g.cost).Sub(g.additional).InexactFloat64()
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TruckName != out[j].TruckName {
			return out[i].TruckName < out[j].TruckName
		}
		return out[i].TruckID < out[j].TruckID
	})
	return out
}

type customerAgg struct {
	summary CustomerSummary
	cost    decimal.Decimal
	selling decimal.Decimal
}

// GroupByCustomer totals TRUCK_TRANSACTIONs per customer initial, ordered
// by initial.
func GroupByCustomer(txs []models.Transaction) []CustomerSummary {
	groups := map[string]*customerAgg{}
	for _, tx := range txs {
		if tx.TransactionType != models.TransactionTypeTruck {
			continue
		}
		initial := models.NormalizeInitial(tx.CustomerInitial())
		g, ok := groups[initial]
		if !ok {
			g = &customerAgg{summary: CustomerSummary{Initial: initial}}
			groups[initial] = g
		}
		if g.summary.CustomerID == "" && tx.Customer != nil {
			g.summary.CustomerID = tx.Customer.CustomerID
		}

		g.summary.Count++
		g.cost = g.cost.Add(decimal.NewFromFloat(tx.Cost))
		g.selling = g.selling.Add(decimal.NewFromFloat(tx.SellingPrice))
	}

	out := make([]CustomerSummary, 0, len(groups))
	for _, g := range groups {
		s := g.summary
		s.TotalCost = g.cost.InexactFloat64()
		s.TotalSellingPrice = g.selling.InexactFloat64()
		s.Margin = g.selling.Sub(g.cost).InexactFloat64()
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Initial < out[j].Initial })
	return out
}

// Summarize totals every kind of transaction in rng. Net margin is truck
// revenue minus all costs.
func Summarize(rng models.DateRange, txs []models.Transaction) Overview {
	var revenue, truckCost, truckAdditional, additional decimal.Decimal
	for _, tx := range txs {
		cost := decimal.NewFromFloat(tx.Cost)
		switch tx.TransactionType {
		case models.TransactionTypeTruck:
			revenue = revenue.Add(decimal.NewFromFloat(tx.SellingPrice))
			truckCost = truckCost.Add(cost)
		case models.TransactionTypeTruckAdditional:
			truckAdditional = truckAdditional.Add(cost)
		case models.TransactionTypeAdditional:
			additional = additional.Add(cost)
		}
	}

	return Overview{
		Range:               rng,
		TransactionCount:    len(txs),
		TruckRevenue:        revenue.InexactFloat64(),
		TruckCost:           truckCost.InexactFloat64(),
		TruckAdditionalCost: truckAdditional.InexactFloat64(),
		AdditionalCost:      additional.InexactFloat64(),
		NetMargin:           revenue.Sub(truckCost).Sub(truckAdditional).Sub(additional).InexactFloat64(),
	}
}

func newestFirst(views []models.TruckTransaction) {
	sort.SliceStable(views, func(i, j int) bool { return views[i].Date.After(views[j].Date) })
}

// MaskTrucks zeroes selling prices and margins for roles that may not see
// them. The slice is modified in place.
func MaskTrucks(role models.UserRole, groups []TruckSummary) {
	if role.CanSeeMargins() {
		return
	}
	for i := range groups {
		g := &groups[i]
		g.TotalSellingPrice = 0
		g.Margin = 0
		models.MaskTruckViews(role, g.Transactions)
	}
}

func MaskCustomers(role models.UserRole, groups []CustomerSummary) {
	if role.CanSeeMargins() {
		return
	}
	for i := range groups {
		groups[i].TotalSellingPrice = 0
		groups[i].Margin = 0
	}
}

func MaskOverview(role models.UserRole, o *Overview) {
	if role.CanSeeMargins() {
		return
	}
	o.TruckRevenue = 0
	o.NetMargin = 0
}
