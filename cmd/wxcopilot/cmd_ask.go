package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"wxcopilot/src/app"
)

// AskCmd asks a single question and exits
type AskCmd struct {
	Text []string `arg:"" help:"The question to ask"`
	JSON bool     `help:"Emit the full response as JSON"`
}

func (a *AskCmd) Run(cli *CLI) error {
	ctx := context.Background()

	application, _, err := buildApp(ctx, cli, app.Options{DisableStore: true})
	if err != nil {
		return err
	}
	defer application.Close()

	resp := application.Copilot.ProcessTurn(ctx, strings.Join(a.Text, " "))

	if a.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Answer)
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}
