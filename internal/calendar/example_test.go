package calendar_test

import (
	"fmt"
	"time"

	"github.com/zapponejosh/countdown-api/internal/calendar"
)

func ExampleCalculateEaster() {
	fmt.Println(calendar.CalculateEaster(2025))
	fmt.Println(calendar.CalculatePentecost(2025))
	// Output:
	// 2025-04-20
	// 2025-06-08
}

func ExampleNextOccurrence() {
	rule := calendar.Fixed{Month: time.February, Day: 29}
	next, err := calendar.NextOccurrence(rule, calendar.MustParseDate("2025-03-01"))
	if err != nil {
		panic(err)
	}
	fmt.Println(next)
	// Output: 2026-02-28
}

func ExampleCalculateAdvent() {
	for n := 1; n <= 4; n++ {
		d, _ := calendar.CalculateAdvent(2025, n)
		fmt.Println(n, d)
	}
	// Output:
	// 1 2025-11-30
	// 2 2025-12-07
	// 3 2025-12-14
	// 4 2025-12-21
}
