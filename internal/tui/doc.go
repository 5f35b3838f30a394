// Package tui implements the paddock terminal dashboard.
//
// It is built with Charmbracelet's BubbleTea, Lipgloss and Bubbles, with
// bubblezone for mouse targets and glamour for event rules.
//
// Component architecture:
//
//	model.go       root model, loaders, message routing, Init/Update/View
//	theme.go       centralized color + style definitions
//	keys.go        key bindings and help
//	header.go      navigation bar + footer status line
//	dashboard.go   last race / series cards and the tab strip
//	eventlist.go   upcoming and available event cards
//	standings.go   series picker and championship table
//	detail.go      event detail with schedule and rules
//	sections.go    calendar, series and driver lists
//	helpers.go     status flags, truncation, scrolling
package tui
