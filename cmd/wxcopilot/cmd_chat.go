package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"wxcopilot/src/app"
	"wxcopilot/src/copilot"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	assistantStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
)

// ChatCmd starts an interactive chat session
type ChatCmd struct {
	Resume    bool   `short:"r" help:"Resume the last persisted session"`
	SessionID string `help:"Resume a specific session by ID"`
	NoHistory bool   `help:"Disable transcript persistence"`
	ShowSQL   bool   `help:"Show executed SQL after each answer" default:"true" negatable:""`
}

func (c *ChatCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, _, err := buildApp(ctx, cli, app.Options{
		SessionID:    c.SessionID,
		ResumeLast:   c.Resume,
		DisableStore: c.NoHistory,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	printWelcome(a)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Print(promptStyle.Render("you> ") + " ")

		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		resp := a.Copilot.ProcessTurn(ctx, line)
		renderResponse(resp, c.ShowSQL)

		if ctx.Err() != nil {
			break
		}
	}

	fmt.Println("\nGoodbye!")
	return nil
}

func printWelcome(a *app.App) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("4"))).
		Row("Table", a.Config.FullTableName()).
		Row("Model", a.Config.Model).
		Row("Session", a.SessionID())

	fmt.Println(titleStyle.Render("Weather Copilot"))
	fmt.Println(t.Render())
	fmt.Println("Ask a question about the weather data, or type /help for commands. Type exit to leave.")
	fmt.Println()
}

func renderResponse(resp *copilot.Response, showSQL bool) {
	switch {
	case resp.IsCommand && resp.Success:
		fmt.Println(commandStyle.Render(resp.Answer))
	case resp.Success:
		fmt.Println(assistantStyle.Render(resp.Answer))
		if showSQL && len(resp.SQLQueries) > 0 {
			for _, q := range resp.SQLQueries {
				fmt.Println(footerStyle.Render("sql: " + q))
			}
		}
	default:
		fmt.Println(errorStyle.Render(resp.Answer))
	}
	fmt.Println()
}
