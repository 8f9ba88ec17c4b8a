package main

import (
	"context"
	"fmt"

	"wxcopilot/src/app"
)

// SchemaCmd prints the schema context the model sees
type SchemaCmd struct {
	Samples bool `help:"Include sample rows"`
}

func (s *SchemaCmd) Run(cli *CLI) error {
	ctx := context.Background()

	application, _, err := buildApp(ctx, cli, app.Options{DisableStore: true})
	if err != nil {
		return err
	}
	defer application.Close()

	fmt.Println(application.Schema.GetContext(ctx, s.Samples))
	return nil
}
