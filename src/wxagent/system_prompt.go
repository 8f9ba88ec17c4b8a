// Package wxagent drives the tool-calling conversation that answers natural
// language questions about the weather warehouse.
package wxagent

import (
	"fmt"
	"strings"
)

// systemPrompt is sent once per question as the system message.
const systemPrompt = `You are a helpful weather data expert with access to a BigQuery weather table through two tools.

Tool usage rules:
- Always call validate_query on a statement before calling execute_query with it.
- Only SELECT statements are permitted. Never attempt INSERT, UPDATE, DELETE, MERGE, or DDL.
- If a tool returns an error, read it, fix the query, and try again.
- When you have the data you need, answer the user in plain language. Do not dump raw result tables unless the user asked for the rows themselves.`

// EnhanceOptions are the stable inputs of the question template besides the
// schema context itself.
type EnhanceOptions struct {
	FullTableName   string
	MaxQueryResults int
}

// EnhanceQuestion builds the exact prompt handed to the agent loop. It is a
// pure function: identical inputs produce byte-identical output.
func EnhanceQuestion(schemaContext, question string, opts EnhanceOptions) string {
	max := opts.MaxQueryResults
	if max <= 0 {
		max = DefaultMaxQueryResults
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant that answers questions about weather data stored in BigQuery.\n\n")
	b.WriteString(schemaContext)
	b.WriteString("\nImportant Instructions:\n")
	fmt.Fprintf(&b, "1. Always use the full table name: `%s`\n", opts.FullTableName)
	b.WriteString("2. Generate SQL queries to answer the user's question\n")
	fmt.Fprintf(&b, "3. Limit results to %d rows unless specifically asked for more\n", max)
	b.WriteString("4. Format your final answer in a clear, human-readable way\n")
	b.WriteString("5. If you need to make assumptions, state them clearly\n")
	b.WriteString("6. Only perform SELECT queries - no INSERT, UPDATE, or DELETE operations\n")
	fmt.Fprintf(&b, "\nUser Question: %s\n", question)
	return b.String()
}
