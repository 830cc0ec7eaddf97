package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/service"
)

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printBusinesses(list []domain.Business, selected int64) {
	if len(list) == 0 {
		fmt.Println("No businesses yet. Create one with 'finhealth businesses -create <name>'.")
		return
	}
	w := newTabWriter()
	fmt.Fprintln(w, "  \tID\tNAME\tINDUSTRY")
	for _, b := range list {
		marker := " "
		if b.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", marker, b.ID, b.Name, b.Industry)
	}
	w.Flush()
}

func printSnapshot(snap service.Snapshot) {
	fmt.Printf("Dashboard for business %d (refreshed %s)\n\n", snap.BusinessID, snap.RefreshedAt.Format("2006-01-02 15:04:05"))

	if snap.Score != nil {
		fmt.Printf("Health score: %.0f (%s)\n", snap.Score.HealthScore, snap.Score.Rating)
	}
	if k := snap.Kpis; k != nil {
		fmt.Printf("Revenue %.2f | Expenses %.2f | Net profit %.2f | Net cashflow %.2f",
			k.TotalRevenue, k.TotalExpenses, k.NetProfitSimple, k.NetCashflow)
		if k.ExpenseRatio != nil {
			fmt.Printf(" | Expense ratio %.1f%%", *k.ExpenseRatio)
		}
		fmt.Println()
	}

	points, err := domain.MergeSeries(snap.Monthly, snap.Forecast)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot merge series: %v\n", err)
	} else if len(points) > 0 {
		fmt.Println()
		printSeries(points)
	}

	if len(snap.Risks) > 0 {
		fmt.Println("\nRisks:")
		for _, r := range snap.Risks {
			fmt.Printf("  - %s\n", r.Display())
		}
	}
	if len(snap.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range snap.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
	if len(snap.Gst) > 0 {
		fmt.Println("\nGST:")
		w := newTabWriter()
		fmt.Fprintln(w, "  MONTH\tSALES\tPURCHASES")
		for _, g := range snap.Gst {
			fmt.Fprintf(w, "  %s\t%.2f\t%.2f\n", g.Month, g.GstSales, g.GstPurchases)
		}
		w.Flush()
	}
	if snap.Summary != "" {
		fmt.Printf("\n%s\n", snap.Summary)
	}
}

// printSeries renders the merged actuals+forecast series in chronological
// order, with forecast-only months visually distinct.
func printSeries(points []domain.MergedSeriesPoint) {
	w := newTabWriter()
	fmt.Fprintln(w, "MONTH\tREVENUE\tEXPENSES\tPROFIT\tFCST REVENUE\tFCST CASHFLOW")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Month,
			cell(p.Revenue), cell(p.Expenses), cell(p.ProfitSimple),
			cell(p.ForecastRevenue), cell(p.ForecastNetCashflow),
		)
	}
	w.Flush()
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
