// Command sheetcheck fetches the configured sheet exports once, runs them
// through normalization and aggregation, and prints a summary. Useful for
// verifying URLs and sheet structure before deploying the service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/nxscrypto/bayview-dashboard/internal/adapters/fetch"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/aggregate"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/normalize"
)

const defaultTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	var (
		leadURL   = flag.String("leads", os.Getenv("BAYVIEW_LEAD_CSV_URL"), "Lead-intake CSV export URL")
		rentalURL = flag.String("rentals", os.Getenv("BAYVIEW_RENTAL_CSV_URL"), "Room-rental CSV export URL")
		timeout   = flag.Duration("timeout", defaultTimeout, "Per-request timeout")
		asJSON    = flag.Bool("json", false, "Print the full snapshot as JSON")
	)
	flag.Parse()

	if *leadURL == "" || *rentalURL == "" {
		os.Stderr.WriteString("both -leads and -rentals URLs are required " +
			"(or BAYVIEW_LEAD_CSV_URL / BAYVIEW_RENTAL_CSV_URL)\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout))
	defer cancel()

	client := fetch.NewClient(fetch.WithTimeout(*timeout))

	leadRows, err := client.Fetch(ctx, *leadURL)
	if err != nil {
		os.Stderr.WriteString("lead fetch failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	rentalRows, err := client.Fetch(ctx, *rentalURL)
	if err != nil {
		os.Stderr.WriteString("rental fetch failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	leads, leadsSkipped := normalize.Leads(leadRows)
	rentals, rentalsSkipped := normalize.Rentals(rentalRows)

	snapshot := aggregate.NewBuilder().Build(leads, rentals)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			os.Stderr.WriteString("encode failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		return
	}

	fmt.Printf("leads:    %d rows fetched, %d parsed, %d skipped\n",
		len(leadRows), len(leads), leadsSkipped)
	fmt.Printf("rentals:  %d rows fetched, %d parsed, %d skipped\n",
		len(rentalRows), len(rentals), rentalsSkipped)
	fmt.Printf("overview: %d leads, %d booked, rate %.3f\n",
		snapshot.Overview.TotalLeads, snapshot.Overview.Booked, snapshot.Overview.BookingRate)
	fmt.Printf("revenue:  $%.2f leads + $%.2f rental = $%.2f\n",
		snapshot.Revenue.LeadTotal, snapshot.Revenue.RentalTotal, snapshot.Revenue.Total)
	fmt.Printf("forecast: low $%.2f / medium $%.2f / high $%.2f\n",
		snapshot.Forecast.Low, snapshot.Forecast.Medium, snapshot.Forecast.High)
}
