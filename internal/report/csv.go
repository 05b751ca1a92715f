package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

var (
	tdmReportHeaders  = []string{"Sector", "Region", "Main Exchange", "Code", "MSAN", "Cabinet", "Box", "Status", "Inspector", "Date"}
	ftthReportHeaders = []string{"Sector", "Region", "Main Exchange", "Code", "MSAN", "Passive Cabinet", "Box", "Status", "Inspector", "Date"}
	loginHeaders      = []string{"Date", "Day", "User Name", "Role", "First Login Time", "Status"}
)

// InventoryFileName is the download name of an exchange inventory export.
func InventoryFileName(n inventory.Network, now time.Time) string {
	return fmt.Sprintf("%s_inventory_export_%s.csv", n.Lower(), now.Format("2006-01-02"))
}

// ReportFileName is the download name of a detailed inventory report.
func ReportFileName(n inventory.Network, now time.Time) string {
	return fmt.Sprintf("%s_Detailed_Report_%s.csv", n, now.Format("2006-01-02"))
}

// LoginFileName is the download name of the login activity report.
func LoginFileName(now time.Time) string {
	return fmt.Sprintf("Login_Activity_Report_%s.csv", now.Format("2006-01-02"))
}

// WriteInventory writes items using the network's export columns.
func WriteInventory(w io.Writer, def inventory.Definition, items []inventory.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(def.Headers()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, it := range items {
		if err := cw.Write(def.Row(it)); err != nil {
			return fmt.Errorf("write row %s: %w", it.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInventoryReport writes a detailed report.
func WriteInventoryReport(w io.Writer, n inventory.Network, rows []InventoryRow) error {
	headers := tdmReportHeaders
	if n == inventory.FTTH {
		headers = ftthReportHeaders
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		status := "Pending"
		if r.Visited() {
			status = "Visited"
		}
		record := []string{
			r.Sector, r.Region, r.MainExchange, r.ExchangeCode, r.MSANCode, r.Cabinet, r.BoxNumber,
			status, orDash(r.InspectorName), orDash(r.LastInspectionDate),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLoginReport writes the login activity report.
func WriteLoginReport(w io.Writer, rows []LoginRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(loginHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Date, r.Day, r.UserName, r.UserRole, r.Time, string(r.Status)}); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
