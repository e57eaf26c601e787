package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/countdown-api/internal/calendar"
)

// This tool queries /api/v1/rules for every day of a year range and checks
// each returned occurrence against the invariants of the rule engine.

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type RulesResponse struct {
	Today string     `json:"today"`
	Rules []RuleView `json:"rules"`
}

type RuleView struct {
	ID        string  `json:"id"`
	Category  string  `json:"category"`
	Next      *string `json:"next"`
	Last      *string `json:"last"`
	DaysUntil *int    `json:"days_until"`
}

// Failure is one violated check.
type Failure struct {
	Date     string `json:"date"`
	RuleID   string `json:"rule_id,omitempty"`
	Category string `json:"category,omitempty"`
	Error    string `json:"error"`
}

// CategoryStats tracks checks per rule category
type CategoryStats struct {
	Category string `json:"category"`
	Checks   int    `json:"checks"`
	Failed   int    `json:"failed"`
}

// Analysis summarizes a run.
type Analysis struct {
	TotalDays   int
	TotalChecks int
	TotalFailed int
	ByCategory  map[string]*CategoryStats
	Failures    []Failure
}

// maxGap bounds the distance between a rule's last and next occurrence.
// Easter moves by up to 35 days between consecutive years.
const maxGap = 366 + 35

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to test")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Countdown API - Rule Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	analysis := testAllDates(client, *baseURL, *startYear, endYear, *verbose)

	printSummary(analysis, *startYear, endYear)
	printFailures(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func testAllDates(client *http.Client, baseURL string, startYear, endYear int, verbose bool) *Analysis {
	analysis := &Analysis{ByCategory: map[string]*CategoryStats{}}

	first := calendar.MustDate(startYear, time.January, 1)
	last := calendar.MustDate(endYear, time.December, 31)
	totalDays := calendar.DayDifference(first, last) + 1

	fmt.Printf("Testing %d days...\n\n", totalDays)

	lastProgress := -1
	for day := first; !day.After(last); day = day.AddDays(1) {
		failures, checks := testDate(client, baseURL, day, analysis.ByCategory)
		analysis.TotalDays++
		analysis.TotalChecks += checks
		analysis.TotalFailed += len(failures)
		analysis.Failures = append(analysis.Failures, failures...)

		progress := (analysis.TotalDays * 100) / totalDays
		if progress != lastProgress && progress%5 == 0 {
			fmt.Printf("  Progress: %d%% (%d/%d) - Failures: %d\n", progress, analysis.TotalDays, totalDays, analysis.TotalFailed)
			lastProgress = progress
		}

		if verbose {
			status := "✓"
			if len(failures) > 0 {
				status = "✗"
			}
			fmt.Printf("  %s %s: %d checks\n", status, day, checks)
			for _, f := range failures {
				fmt.Printf("      %s: %s\n", f.RuleID, f.Error)
			}
		}
	}

	fmt.Println()
	return analysis
}

func testDate(client *http.Client, baseURL string, day calendar.Date, stats map[string]*CategoryStats) ([]Failure, int) {
	fail := func(msg string) []Failure {
		return []Failure{{Date: day.String(), Error: msg}}
	}

	resp, err := client.Get(fmt.Sprintf("%s/api/v1/rules?date=%s", baseURL, day))
	if err != nil {
		return fail(fmt.Sprintf("Connection error: %v", err)), 0
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Sprintf("Read error: %v", err)), 0
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fail(fmt.Sprintf("Parse error: %v", err)), 0
	}
	if !apiResp.Success {
		errMsg := "Unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fail(errMsg), 0
	}

	var data RulesResponse
	if err := json.Unmarshal(apiResp.Data, &data); err != nil {
		return fail(fmt.Sprintf("Parse error: %v", err)), 0
	}

	var failures []Failure
	for _, rule := range data.Rules {
		s, ok := stats[rule.Category]
		if !ok {
			s = &CategoryStats{Category: rule.Category}
			stats[rule.Category] = s
		}
		s.Checks++

		if msg := checkRule(day, rule); msg != "" {
			s.Failed++
			failures = append(failures, Failure{Date: day.String(), RuleID: rule.ID, Category: rule.Category, Error: msg})
		}
	}
	return failures, len(data.Rules)
}

// checkRule returns a description of the first violated invariant, or "".
func checkRule(day calendar.Date, rule RuleView) string {
	if rule.Next == nil || rule.DaysUntil == nil {
		return "missing next occurrence"
	}
	next, err := calendar.ParseDate(*rule.Next)
	if err != nil {
		return fmt.Sprintf("bad next date: %v", err)
	}
	if next.Before(day) {
		return fmt.Sprintf("next %s is before %s", next, day)
	}
	if got := calendar.DayDifference(day, next); got != *rule.DaysUntil {
		return fmt.Sprintf("days_until %d, expected %d", *rule.DaysUntil, got)
	}

	if rule.Last == nil {
		return ""
	}
	last, err := calendar.ParseDate(*rule.Last)
	if err != nil {
		return fmt.Sprintf("bad last date: %v", err)
	}
	if last.After(day) {
		return fmt.Sprintf("last %s is after %s", last, day)
	}
	if gap := calendar.DayDifference(last, next); gap > maxGap {
		return fmt.Sprintf("gap of %d days between %s and %s", gap, last, next)
	}
	return ""
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Printf("Summary %d-%d\n", startYear, endYear)
	fmt.Println("================================================================")
	fmt.Printf("Days tested:   %d\n", analysis.TotalDays)
	fmt.Printf("Rule checks:   %d\n", analysis.TotalChecks)
	fmt.Printf("Failures:      %d\n", analysis.TotalFailed)
	if analysis.TotalChecks > 0 {
		fmt.Printf("Success rate:  %.2f%%\n", float64(analysis.TotalChecks-analysis.TotalFailed)/float64(analysis.TotalChecks)*100)
	}
	fmt.Println()

	categories := make([]string, 0, len(analysis.ByCategory))
	for c := range analysis.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Printf("%-14s %8s %8s\n", "CATEGORY", "CHECKS", "FAILED")
	for _, c := range categories {
		s := analysis.ByCategory[c]
		fmt.Printf("%-14s %8d %8d\n", c, s.Checks, s.Failed)
	}
	fmt.Println()
}

func printFailures(analysis *Analysis) {
	if len(analysis.Failures) == 0 {
		return
	}

	fmt.Println("Failures (first 50):")
	for i, f := range analysis.Failures {
		if i >= 50 {
			break
		}
		rule := f.RuleID
		if rule == "" {
			rule = "(request)"
		}
		fmt.Printf("  %s | %-22s | %s\n", f.Date, rule, f.Error)
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string                    `json:"generated_at"`
		Summary     map[string]interface{}    `json:"summary"`
		ByCategory  map[string]*CategoryStats `json:"by_category"`
		Failures    []Failure                 `json:"failures"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]interface{}{
			"total_days":   analysis.TotalDays,
			"total_checks": analysis.TotalChecks,
			"total_failed": analysis.TotalFailed,
		},
		ByCategory: analysis.ByCategory,
		Failures:   analysis.Failures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
