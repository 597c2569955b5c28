package warehouse

import "strings"

// QuoteLiteral renders a string as a single-quoted SQL literal, doubling any
// embedded quotes. The Statement Execution API and DESCRIBE/UPDATE paths work
// on string-built statements, so every interpolated value goes through here.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Identifier quoting differs per dialect: Databricks and BigQuery use
// backticks, Snowflake uses double quotes. Each gateway exposes its own
// QuoteIdent built on these.

func backtickIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func doubleQuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
