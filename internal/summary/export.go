package summary

import (
	"bytes"
	"fmt"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	sheetTrucks  = "Trucks"
	sheetDetails = "Transactions"
)

// WriteWorkbook renders grouped truck summaries as an xlsx workbook: one
// totals row per truck, and every transaction on a second sheet. Selling
// price and margin columns are left out when showMargins is false.
func WriteWorkbook(groups []TruckSummary, showMargins bool) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTrucks); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetDetails); err != nil {
		return nil, err
	}

	totalsHeader := []any{"Truck", "Driver", "Trips", "Total Cost", "Additional Cost"}
	if showMargins {
		totalsHeader = append(totalsHeader, "Selling Price", "Margin")
	}
	if err := f.SetSheetRow(sheetTrucks, "A1", &totalsHeader); err != nil {
		return nil, err
	}

	detailHeader := []any{"Truck", "Date", "Type", "Customer", "Destination", "Container No", "Invoice No", "Cost"}
	if showMargins {
		detailHeader = append(detailHeader, "Selling Price")
	}
	if err := f.SetSheetRow(sheetDetails, "A1", &detailHeader); err != nil {
		return nil, err
	}

	detailRow := 2
	for i, g := range groups {
		row := []any{g.TruckName, g.DriverName, len(g.Transactions), g.TotalCost, g.TotalAdditionalCost}
		if showMargins {
			row = append(row, g.TotalSellingPrice, g.Margin)
		}
		if err := f.SetSheetRow(sheetTrucks, cell(1, i+2), &row); err != nil {
			return nil, err
		}

		for _, views := range [][]models.TruckTransaction{g.Transactions, g.AdditionalTransactions} {
			for _, t := range views {
				line := []any{
					g.TruckName, t.Date.Format("2006-01-02"), string(t.TransactionType),
					t.Customer, t.Destination, t.ContainerNo, t.InvoiceNo, t.Cost,
				}
				if showMargins {
					line = append(line, t.SellingPrice)
				}
				if err := f.SetSheetRow(sheetDetails, cell(1, detailRow), &line); err != nil {
					return nil, err
				}
				detailRow++
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
