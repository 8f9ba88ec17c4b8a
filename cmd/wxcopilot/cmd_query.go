package main

import (
	"context"
	"fmt"
	"strings"

	"wxcopilot/src/app"
	"wxcopilot/src/warehouse"
)

// QueryCmd runs a raw SELECT statement, bypassing the model. The read-only
// gate still applies.
type QueryCmd struct {
	SQL      []string `arg:"" help:"The SELECT statement to execute"`
	Validate bool     `help:"Dry-run only, report bytes scanned without executing"`
}

func (q *QueryCmd) Run(cli *CLI) error {
	ctx := context.Background()

	application, _, err := buildApp(ctx, cli, app.Options{DisableStore: true})
	if err != nil {
		return err
	}
	defer application.Close()

	sql := strings.Join(q.SQL, " ")

	if q.Validate {
		bytes, err := application.Gateway.Validate(ctx, sql)
		if err != nil {
			return err
		}
		fmt.Printf("Query is valid. Estimated bytes processed: %d\n", bytes)
		return nil
	}

	result, err := application.Gateway.Execute(ctx, sql)
	if err != nil {
		return err
	}
	fmt.Println(warehouse.FormatResult(result))
	return nil
}
