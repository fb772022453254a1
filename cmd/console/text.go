package main

import (
	"strings"

	"golang.org/x/text/width"
)

// displayWidth counts terminal cells, treating East Asian wide and
// fullwidth runes as two cells so CJK labels line up.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

// padDisplay right-pads s with spaces to the given cell width.
func padDisplay(s string, cells int) string {
	if pad := cells - displayWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
