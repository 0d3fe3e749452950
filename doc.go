// Package dpm prices interest-rate cashflow legs from contractual terms and
// market curves.
//
// The numeric core lives in the calendar, daycount, interest, interpolation,
// termstructure, rates and solver packages. The valuation package composes
// them into a priced leg or swap; marketdata, calendar/holidays and report
// supply inputs and render outputs around it.
package dpm
