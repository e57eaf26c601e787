package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/countdown"
)

// This tool prints every catalog date of a year, with the countdown from a
// reference day, to eyeball the rule engine against a printed calendar.

func main() {
	year := flag.Int("year", time.Now().Year(), "Year to generate dates for")
	from := flag.String("from", "", "Reference day for countdowns (YYYY-MM-DD, default today)")
	lang := flag.String("lang", "en", "Countdown language")
	flag.Parse()

	today := calendar.FromTime(time.Now())
	if *from != "" {
		d, err := calendar.ParseDate(*from)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -from: %v\n", err)
			os.Exit(2)
		}
		today = d
	}

	formatter, err := countdown.ParseLocale(*lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -lang: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("=== Date Generator for %d (from %s) ===\n\n", *year, today)

	// Key dates
	easter := calendar.CalculateEaster(*year)
	fmt.Println("Key Dates:")
	fmt.Printf("  Easter:          %s (%s)\n", easter, easter.Weekday())
	for n := 1; n <= 4; n++ {
		d, err := calendar.CalculateAdvent(*year, n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "advent %d: %v\n", n, err)
			os.Exit(1)
		}
		fmt.Printf("  %s Advent:      %s\n", humanize.Ordinal(n), d)
	}
	fmt.Println()

	// All catalog entries, in calendar order
	type row struct {
		entry calendar.Entry
		date  calendar.Date
	}
	var rows []row
	for _, e := range calendar.DefaultCatalog().Entries() {
		d, err := calendar.Resolve(e.Rule, *year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", e.ID, err)
			continue
		}
		rows = append(rows, row{e, d})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tID\tNAME\tRULE\tCOUNTDOWN")
	for _, r := range rows {
		b := countdown.Between(today, r.date)
		text := formatter.Format(b)
		if r.date.Before(today) {
			text = fmt.Sprintf("%d days ago", calendar.DayDifference(r.date, today))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.date, r.date.Weekday().String()[:3], r.entry.ID, r.entry.Name, r.entry.Describe(), text)
	}
	tw.Flush()

	// DST status per region
	fmt.Println()
	fmt.Println("Daylight saving:")
	for _, region := range calendar.Regions() {
		active, err := region.IsDSTActive(today)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", region.ID, err)
			continue
		}
		next, season, err := region.NextChange(today)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", region.ID, err)
			continue
		}
		fmt.Printf("  %-12s active=%-5v next %s switch on %s\n", region.Name, active, season, next)
	}
}
