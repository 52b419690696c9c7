package summary

import (
	"testing"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func day(d int) time.Time { return time.Date(2024, 3, d, 8, 0, 0, 0, time.UTC) }

func tx(kind models.TransactionType, truckID, initial string, d int, cost, selling float64) models.Transaction {
	t := models.Transaction{
		ID:              primitive.NewObjectID(),
		Date:            day(d),
		TransactionType: kind,
		TruckID:         truckID,
		Cost:            cost,
		SellingPrice:    selling,
	}
	if initial != "" {
		t.Customer = &models.CustomerRef{CustomerID: "id-" + initial, Initial: initial}
	}
	return t
}

func TestGroupByTruck(t *testing.T) {
	b1234 := models.Truck{ID: primitive.NewObjectID(), Name: "B 1234 XY", DriverName: "Asep"}
	b9 := models.Truck{ID: primitive.NewObjectID(), Name: "B 9 AA"}
	idle := models.Truck{ID: primitive.NewObjectID(), Name: "Z 1 ZZ"}

	txs := []models.Transaction{
		tx(models.TransactionTypeTruck, b1234.ID.Hex(), "ABC", 1, 0.1, 0.3),
		tx(models.TransactionTypeTruck, b1234.ID.Hex(), "ABC", 4, 0.2, 0.4),
		tx(models.TransactionTypeTruckAdditional, b1234.ID.Hex(), "", 2, 0.05, 0),
		tx(models.TransactionTypeTruck, b9.ID.Hex(), "DEF", 3, 100, 150),
		tx(models.TransactionTypeTruck, "retired", "DEF", 3, 10, 20),
		tx(models.TransactionTypeAdditional, "", "", 3, 999, 0),
	}

	groups := GroupByTruck([]models.Truck{idle, b1234, b9}, txs)

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.TruckName
	}
	want := []string{"B 1234 XY", "B 9 AA", "Z 1 ZZ", "retired"}
	if len(names) != len(want) {
		t.Fatalf("groups = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("groups = %v, want %v", names, want)
		}
	}

	g := groups[0]
	if g.DriverName != "Asep" || len(g.Transactions) != 2 || len(g.AdditionalTransactions) != 1 {
		t.Fatalf("group = %+v", g)
	}
	if !g.Transactions[0].Date.Equal(day(4)) {
		t.Errorf("transactions not newest first: %v", g.Transactions[0].Date)
	}
	if g.Transactions[0].Customer != "ABC" {
		t.Errorf("customer not flattened: %q", g.Transactions[0].Customer)
	}
	// 0.1 + 0.2 is exactly 0.3 once summed as decimals.
	if g.TotalCost != 0.3 || g.TotalSellingPrice != 0.7 || g.TotalAdditionalCost != 0.05 {
		t.Errorf("totals = %v / %v / %v", g.TotalCost, g.TotalSellingPrice, g.TotalAdditionalCost)
	}
	if g.Margin != 0.35 {
		t.Errorf("margin = %v, want 0.35", g.Margin)
	}

	if empty := groups[2]; empty.Transactions == nil || empty.AdditionalTransactions == nil || empty.Margin != 0 {
		t.Errorf("idle truck group = %+v", empty)
	}
	if groups[3].TruckID != "retired" || groups[3].Margin != 10 {
		t.Errorf("unknown truck group = %+v", groups[3])
	}
}

func TestMarginInvariant(t *testing.T) {
	truck := models.Truck{ID: primitive.NewObjectID(), Name: "B 1"}
	id := truck.ID.Hex()
	var txs []models.Transaction
	for i := 1; i <= 20; i++ {
		txs = append(txs,
			tx(models.TransactionTypeTruck, id, "ABC", i, float64(i*115)/100, float64(i*235)/100),
			tx(models.TransactionTypeTruckAdditional, id, "", i, 0.45, 0),
		)
	}

	g := GroupByTruck([]models.Truck{truck}, txs)[0]
	if g.TotalCost != 241.5 || g.TotalSellingPrice != 493.5 || g.TotalAdditionalCost != 9 {
		t.Fatalf("totals = %v / %v / %v", g.TotalCost, g.TotalSellingPrice, g.TotalAdditionalCost)
	}
	if g.Margin != 243 {
		t.Fatalf("margin = %v, want 243", g.Margin)
	}
}

func TestGroupByCustomer(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeTruck, "t1", "DEF", 1, 10, 15),
		tx(models.TransactionTypeTruck, "t1", "ABC", 2, 1.1, 2.2),
		tx(models.TransactionTypeTruck, "t2", "ABC", 3, 2.2, 3.3),
		tx(models.TransactionTypeTruckAdditional, "t2", "ABC", 3, 50, 0),
		tx(models.TransactionTypeTruck, "t2", "", 3, 1, 1),
	}

	got := GroupByCustomer(txs)
	if len(got) != 3 {
		t.Fatalf("got %d groups: %+v", len(got), got)
	}
	if got[0].Initial != "" || got[1].Initial != "ABC" || got[2].Initial != "DEF" {
		t.Fatalf("order = %+v", got)
	}
	abc := got[1]
	if abc.Count != 2 || abc.CustomerID != "id-ABC" || abc.TotalCost != 3.3 || abc.TotalSellingPrice != 5.5 || abc.Margin != 2.2 {
		t.Fatalf("ABC = %+v", abc)
	}
}

func TestSummarize(t *testing.T) {
	rng := models.DateRange{Start: day(1), End: day(31)}
	txs := []models.Transaction{
		tx(models.TransactionTypeTruck, "t1", "ABC", 1, 100, 180),
		tx(models.TransactionTypeTruckAdditional, "t1", "", 2, 20, 0),
		tx(models.TransactionTypeAdditional, "", "", 3, 15.5, 0),
	}

	o := Summarize(rng, txs)
	if o.TransactionCount != 3 || o.TruckRevenue != 180 || o.TruckCost != 100 ||
		o.TruckAdditionalCost != 20 || o.AdditionalCost != 15.5 || o.NetMargin != 44.5 {
		t.Fatalf("overview = %+v", o)
	}
}

func TestMasking(t *testing.T) {
	truck := models.Truck{ID: primitive.NewObjectID(), Name: "B 1"}
	txs := []models.Transaction{tx(models.TransactionTypeTruck, truck.ID.Hex(), "ABC", 1, 100, 180)}

	tests := []struct {
		role   models.UserRole
		masked bool
	}{
		{models.RoleAdmin, false},
		{models.RoleUser, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			trucks := GroupByTruck([]models.Truck{truck}, txs)
			MaskTrucks(tt.role, trucks)
			customers := GroupByCustomer(txs)
			MaskCustomers(tt.role, customers)
			o := Summarize(models.DateRange{}, txs)
			MaskOverview(tt.role, &o)

			hidden := trucks[0].TotalSellingPrice == 0 && trucks[0].Margin == 0 &&
				trucks[0].Transactions[0].SellingPrice == 0 &&
				customers[0].TotalSellingPrice == 0 && customers[0].Margin == 0 &&
				o.TruckRevenue == 0 && o.NetMargin == 0
			if hidden != tt.masked {
				t.Fatalf("masked = %v, want %v", hidden, tt.masked)
			}
			if trucks[0].TotalCost != 100 {
				t.Errorf("cost must stay visible, got %v", trucks[0].TotalCost)
			}
		})
	}
}
