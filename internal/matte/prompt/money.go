package prompt

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCents renders minor units as dollars with digit grouping, e.g.
// 123456 -> "$1,234.56".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + printer.Sprintf("$%d", cents/100) + fmt.Sprintf(".%02d", cents%100)
}

// Percent renders part/whole as a whole-number percentage.
func Percent(part, whole int64) string {
	if whole <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", (part*100+whole/2)/whole)
}
