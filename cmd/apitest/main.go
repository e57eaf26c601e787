package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
	Today  string `json:"today"`
}

// Countdown mirrors the y/m/w/d breakdown.
type Countdown struct {
	Years  int `json:"y"`
	Months int `json:"m"`
	Weeks  int `json:"w"`
	Days   int `json:"d"`
}

// Snapshot holds the fields of an evaluated event the suite checks.
type Snapshot struct {
	Kind          string    `json:"kind"`
	Today         string    `json:"today"`
	Countdown     Countdown `json:"countdown"`
	CountdownText string    `json:"countdown_text"`
	Rule          *struct {
		Next      string `json:"next"`
		Last      string `json:"last"`
		DaysUntil int    `json:"days_until"`
	} `json:"rule,omitempty"`
	Interval *struct {
		DaysUntil        int     `json:"days_until"`
		RemainingPercent float64 `json:"remaining_percent"`
		Active           bool    `json:"active"`
	} `json:"interval,omitempty"`
}

// RuleResponse is the response for /api/v1/rules/{id}
type RuleResponse struct {
	Snapshot Snapshot `json:"snapshot"`
}

// EasterResponse is the response for /api/v1/easter/{year}
type EasterResponse struct {
	Year   int    `json:"year"`
	Easter string `json:"easter"`
}

// DSTResponse is the response for /api/v1/dst/{region}
type DSTResponse struct {
	Active     bool   `json:"active"`
	NextChange string `json:"next_change"`
	NextSeason string `json:"next_season"`
	LastChange string `json:"last_change"`
}

// CountdownResponse is the response for /api/v1/countdown
type CountdownResponse struct {
	Days      int       `json:"days"`
	Countdown Countdown `json:"countdown"`
	Text      string    `json:"text"`
}

// EventResponse is a stored event.
type EventResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// StatusResponse is the response for /api/v1/events/{id}/status
type StatusResponse struct {
	Event    EventResponse `json:"event"`
	Snapshot Snapshot      `json:"snapshot"`
	Cached   bool          `json:"cached"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Countdown API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testRules()
	tr.testEaster()
	tr.testDST()
	tr.testCountdown()
	tr.testEvents()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (server day %s)", health.Today))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testRules() {
	tr.printSection("Rule Resolution")

	testCases := []struct {
		rule     string
		date     string
		wantNext string
		wantText string
	}{
		{"christmas_day", "2026-10-17", "2026-12-25", "2 months, 1 week, 2 days"},
		{"easter", "2026-04-06", "2027-03-28", ""},
		{"advent_1", "2026-10-17", "2026-11-29", ""},
		{"advent_4", "2023-12-01", "2023-12-24", ""},
		{"dst_eu_winter", "2026-10-17", "2026-10-25", "1 week, 1 day"},
		{"dst_usa_summer", "2026-01-01", "2026-03-08", ""},
		{"new_year", "2026-12-31", "2027-01-01", "1 day"},
	}

	for _, tc := range testCases {
		name := fmt.Sprintf("%s@%s", tc.rule, tc.date)

		var data RuleResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/rules/%s?date=%s", tc.rule, tc.date), &data); err != nil {
			tr.recordError(name, err.Error())
			continue
		}
		if data.Snapshot.Rule == nil {
			tr.recordError(name, "missing rule state")
			continue
		}

		got := data.Snapshot.Rule.Next
		switch {
		case got != tc.wantNext:
			tr.recordError(name, fmt.Sprintf("Expected next %s, got %s", tc.wantNext, got))
		case tc.wantText != "" && data.Snapshot.CountdownText != tc.wantText:
			tr.recordError(name, fmt.Sprintf("Expected text %q, got %q", tc.wantText, data.Snapshot.CountdownText))
		default:
			tr.recordSuccess(fmt.Sprintf("%s: next %s (%s)", name, got, data.Snapshot.CountdownText))
		}
	}
}

func (tr *TestRunner) testEaster() {
	tr.printSection("Easter")

	known := map[int]string{
		1961: "1961-04-02",
		2019: "2019-04-21",
		2025: "2025-04-20",
		2026: "2026-04-05",
		2027: "2027-03-28",
		2038: "2038-04-25",
	}

	for year, want := range known {
		var data EasterResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/easter/%d", year), &data); err != nil {
			tr.recordError(fmt.Sprintf("Easter %d", year), err.Error())
			continue
		}
		if data.Easter == want {
			tr.recordSuccess(fmt.Sprintf("Easter %d: %s", year, data.Easter))
		} else {
			tr.recordError(fmt.Sprintf("Easter %d", year), fmt.Sprintf("Expected %s, got %s", want, data.Easter))
		}
	}
}

func (tr *TestRunner) testDST() {
	tr.printSection("Daylight Saving")

	testCases := []struct {
		path       string
		wantActive bool
		wantNext   string
	}{
		{"/api/v1/dst/eu?date=2026-10-17", true, "2026-10-25"},
		{"/api/v1/dst/usa?date=2026-12-01", false, "2027-03-14"},
		{"/api/v1/dst/australia?date=2026-01-15", true, "2026-04-05"},
		{"/api/v1/dst?tz=Europe/Vienna&date=2026-01-15", false, "2026-03-29"},
	}

	for _, tc := range testCases {
		var data DSTResponse
		if err := tr.getData(tc.path, &data); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		if data.Active != tc.wantActive || data.NextChange != tc.wantNext {
			tr.recordError(tc.path, fmt.Sprintf("Expected active=%v next=%s, got active=%v next=%s",
				tc.wantActive, tc.wantNext, data.Active, data.NextChange))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: active=%v, next %s on %s", tc.path, data.Active, data.NextSeason, data.NextChange))
	}
}

func (tr *TestRunner) testCountdown() {
	tr.printSection("Countdown Breakdown")

	testCases := []struct {
		from, to string
		want     Countdown
	}{
		{"2026-10-17", "2026-10-17", Countdown{}},
		{"2026-10-17", "2026-10-25", Countdown{Weeks: 1, Days: 1}},
		{"2026-10-17", "2027-11-21", Countdown{Years: 1, Months: 1, Days: 5}},
		{"2026-10-17", "2026-01-01", Countdown{}},
	}

	for _, tc := range testCases {
		name := tc.from + " -> " + tc.to

		var data CountdownResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/countdown?from=%s&to=%s", tc.from, tc.to), &data); err != nil {
			tr.recordError(name, err.Error())
			continue
		}
		if data.Countdown != tc.want {
			tr.recordError(name, fmt.Sprintf("Expected %+v, got %+v", tc.want, data.Countdown))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s", name, data.Text))
	}
}

func (tr *TestRunner) testEvents() {
	tr.printSection("Tracked Events")

	name := fmt.Sprintf("apitest trip %d", time.Now().UnixNano())
	body := map[string]string{
		"name":       name,
		"kind":       "trip",
		"start_date": "2030-07-01",
		"end_date":   "2030-07-11",
	}

	var created EventResponse
	if err := tr.send(http.MethodPost, "/api/v1/events", body, http.StatusCreated, &created); err != nil {
		tr.recordError("Create event", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Created %s (%s)", created.ID, created.Kind))

	defer func() {
		if err := tr.send(http.MethodDelete, "/api/v1/events/"+created.ID, nil, http.StatusOK, nil); err != nil {
			tr.recordError("Delete event", err.Error())
			return
		}
		tr.recordSuccess("Deleted " + created.ID)
	}()

	if err := tr.send(http.MethodPost, "/api/v1/events", body, http.StatusConflict, nil); err != nil {
		tr.recordError("Duplicate event", err.Error())
	} else {
		tr.recordSuccess("Duplicate name rejected with 409")
	}

	var status StatusResponse
	if err := tr.getData("/api/v1/events/"+created.ID+"/status?date=2030-07-06", &status); err != nil {
		tr.recordError("Event status", err.Error())
		return
	}
	if iv := status.Snapshot.Interval; iv == nil || !iv.Active || iv.RemainingPercent != 50 {
		tr.recordError("Event status", fmt.Sprintf("Expected active at 50%%, got %+v", status.Snapshot.Interval))
	} else {
		tr.recordSuccess(fmt.Sprintf("Mid-trip status: %.1f%% remaining", iv.RemainingPercent))
	}

	resp, err := tr.getRaw("/api/v1/calendar.ics?years=1")
	if err != nil {
		tr.recordError("Calendar feed", err.Error())
		return
	}
	defer resp.Body.Close()
	feed, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK && bytes.Contains(feed, []byte("UID:"+created.ID)) {
		tr.recordSuccess("Calendar feed contains the new event")
	} else {
		tr.recordError("Calendar feed", fmt.Sprintf("HTTP %d, event missing", resp.StatusCode))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	testCases := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/rules/no_such_rule", http.StatusNotFound},
		{"/api/v1/rules/easter?date=2026-02-30", http.StatusBadRequest},
		{"/api/v1/rules/easter?date=2026-2-3", http.StatusBadRequest},
		{"/api/v1/easter/0", http.StatusBadRequest},
		{"/api/v1/dst/atlantis", http.StatusNotFound},
		{"/api/v1/countdown", http.StatusBadRequest},
		{"/api/v1/events/does-not-exist", http.StatusNotFound},
		{"/api/v1/calendar.ics?years=50", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		resp, err := tr.getRaw(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == tc.wantStatus {
			tr.recordSuccess(fmt.Sprintf("%s -> %d", tc.path, resp.StatusCode))
		} else {
			tr.recordError(tc.path, fmt.Sprintf("Expected HTTP %d, got %d", tc.wantStatus, resp.StatusCode))
		}
	}
}

// =============================================================================
// HTTP Helpers
// =============================================================================

func (tr *TestRunner) getData(path string, target interface{}) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return tr.decode(resp, http.StatusOK, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) send(method, path string, body interface{}, wantStatus int, target interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}

	resp, err := tr.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return tr.decode(resp, wantStatus, target)
}

func (tr *TestRunner) decode(resp *http.Response, wantStatus int, target interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if tr.verbose {
		fmt.Printf("    %s %s -> %d\n", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w (body: %s)", err, string(body))
	}

	if resp.StatusCode != wantStatus {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("HTTP %d (want %d): %s", resp.StatusCode, wantStatus, errMsg)
	}

	if target == nil || len(apiResp.Data) == 0 {
		return nil
	}
	return json.Unmarshal(apiResp.Data, target)
}

// =============================================================================
// Output
// =============================================================================

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key for mutating endpoints")
	verbose := flag.Bool("v", false, "Verbose output (show every request)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
