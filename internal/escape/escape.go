// Package escape converts user-entered text into resource-script string
// literal syntax and back.
package escape

import "strings"

var formatter = strings.NewReplacer(
	`\`, `\\`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	`"`, `""`,
)

var parser = strings.NewReplacer(
	`\\`, `\`,
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`""`, `"`,
)

// Format escapes value for use between the quotes of a STRINGTABLE entry.
func Format(value string) string {
	return formatter.Replace(value)
}

// Parse reverses Format for display.
func Parse(value string) string {
	return parser.Replace(value)
}
