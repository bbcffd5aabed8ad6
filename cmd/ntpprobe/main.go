// ABOUTME: One-shot sync diagnostic
// ABOUTME: Prints the resulting anchor and optionally cross-checks against beevik/ntp
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	beevik "github.com/beevik/ntp"
	"github.com/tinysync/tinysync-go/pkg/ntp"
)

var (
	server  = flag.String("server", ntp.DefaultServer, "NTP server hostname or address")
	port    = flag.Int("port", ntp.DefaultPort, "NTP server port")
	timeout = flag.Duration("timeout", ntp.DefaultTimeout, "Response timeout per exchange")
	compare = flag.Bool("compare", false, "Cross-check the result against a reference NTP query")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	client := ntp.New(ntp.Config{
		Server:  *server,
		Port:    *port,
		Timeout: *timeout,
	})

	fmt.Printf("Syncing with %s:%d...\n", *server, *port)

	start := time.Now()
	if err := client.Begin(); err != nil {
		log.Fatalf("Sync failed: %v", err)
	}
	elapsed := time.Since(start)

	cal := client.NowCalendar()
	fmt.Printf("Synced in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  millis:   %d\n", client.NowMillis())
	fmt.Printf("  seconds:  %d\n", client.NowSeconds())
	fmt.Printf("  calendar: %s %04d-%02d-%02d %02d:%02d:%02d UTC\n",
		cal.Weekday, cal.Year, cal.Month, cal.Day, cal.Hour, cal.Minute, cal.Second)

	if *compare {
		resp, err := beevik.QueryWithOptions(*server, beevik.QueryOptions{Timeout: *timeout})
		if err != nil {
			log.Fatalf("Reference query failed: %v", err)
		}
		ref := resp.Time
		ours := time.UnixMilli(int64(client.NowMillis())).UTC()
		delta := ours.Sub(ref)

		fmt.Printf("Reference: %s (stratum %d, offset %v)\n",
			ref.UTC().Format(time.RFC3339), resp.Stratum, resp.ClockOffset.Round(time.Millisecond))
		fmt.Printf("Disagreement with reference: %v\n", delta.Round(time.Millisecond))
	}

	client.End()
}
