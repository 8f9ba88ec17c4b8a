package schemactx

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// introspect builds a human-readable schema description from live table
// metadata.
func (p *Provider) introspect(ctx context.Context) (string, error) {
	fields, err := p.config.Gateway.TableSchema(ctx)
	if err != nil {
		return "", err
	}
	info, err := p.config.Gateway.TableInfo(ctx)
	if err != nil {
		return "", err
	}

	description := info.Description
	if description == "" {
		description = "Current weather data from various locations"
	}

	var b strings.Builder
	b.WriteString("# Weather Data Table Schema\n\n")
	fmt.Fprintf(&b, "**Table**: `%s`\n", info.FullTableID)
	fmt.Fprintf(&b, "**Description**: %s\n", description)
	fmt.Fprintf(&b, "**Total Rows**: %d\n", info.NumRows)
	if !info.LastModified.IsZero() {
		fmt.Fprintf(&b, "**Last Modified**: %s\n", info.LastModified.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	b.WriteString("\n## Available Fields:\n\n")

	for _, field := range fields {
		desc := field.Description
		if desc == "" {
			desc = fieldDescription(field.Name)
		}
		fmt.Fprintf(&b, "- **%s** (%s): %s", field.Name, field.Type, desc)
		switch field.Mode {
		case "REPEATED":
			b.WriteString(" [ARRAY]")
		case "REQUIRED":
			b.WriteString(" [REQUIRED]")
		}
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// queryGuidelines is appended to every schema description regardless of
// source.
func (p *Provider) queryGuidelines() string {
	full := p.config.Gateway.TableID()
	return fmt.Sprintf(`
## Query Guidelines:

1. Always use the full table name in queries: `+"`%s`"+`
2. Use appropriate WHERE clauses to filter data
3. Consider using LIMIT to restrict result size
4. Use aggregation functions (AVG, MAX, MIN, COUNT) for analytics
5. Format timestamps appropriately for time-based queries
6. Use LIKE for partial text matching on location fields

## Example Queries:

`+"```sql"+`
-- Get current weather for a specific location
SELECT * FROM `+"`%s`"+`
WHERE location = 'Toronto'
LIMIT 10;

-- Get average temperature by location
SELECT location, AVG(temperature) as avg_temp
FROM `+"`%s`"+`
GROUP BY location;

-- Get recent weather data
SELECT * FROM `+"`%s`"+`
WHERE timestamp >= TIMESTAMP_SUB(CURRENT_TIMESTAMP(), INTERVAL 24 HOUR)
ORDER BY timestamp DESC;
`+"```"+`
`, full, full, full, full)
}

// fieldDescriptions covers common weather fields that carry no description
// in the table metadata.
var fieldDescriptions = map[string]string{
	"location":          "Geographic location name",
	"city":              "City name",
	"province":          "Province or state",
	"country":           "Country name",
	"latitude":          "Latitude coordinate",
	"longitude":         "Longitude coordinate",
	"temperature":       "Temperature reading",
	"temp":              "Temperature reading",
	"feels_like":        "Perceived temperature",
	"humidity":          "Humidity percentage",
	"pressure":          "Atmospheric pressure",
	"wind_speed":        "Wind speed",
	"wind_direction":    "Wind direction",
	"weather_condition": "Weather condition description",
	"condition":         "Weather condition",
	"precipitation":     "Precipitation amount",
	"visibility":        "Visibility distance",
	"timestamp":         "Data timestamp",
	"date":              "Date of observation",
	"time":              "Time of observation",
	"updated_at":        "Last update timestamp",
	"created_at":        "Record creation timestamp",
}

func fieldDescription(name string) string {
	lower := strings.ToLower(name)
	if desc, ok := fieldDescriptions[lower]; ok {
		return desc
	}
	// Deterministic partial-match order, since the context text must be
	// stable for the process lifetime.
	keys := make([]string, 0, len(fieldDescriptions))
	for key := range fieldDescriptions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(lower, key) {
			return fieldDescriptions[key]
		}
	}
	return "Data field"
}
