package copilot

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

const historyContentLimit = 200

const helpText = `Available commands:
  /help     Show this help message
  /schema   Show the warehouse table schema and query guidelines
  /history  Show the conversation history
  /clear    Clear the conversation history
  /status   Show session and connection status

Anything else is treated as a question about the weather data, for example:
  What was the hottest day in Toronto last July?
  Show the average wind speed by month for 2023.`

// dispatchCommand handles a slash command. Matching is case-insensitive and
// ignores surrounding whitespace; /reset is an alias for /clear.
func (c *Copilot) dispatchCommand(ctx context.Context, input string) *Response {
	name := strings.ToLower(strings.TrimPrefix(strings.Fields(input)[0], "/"))

	c.logger.Debug("dispatching command", "command", name)

	switch name {
	case "help":
		return commandOK(helpText)
	case "schema":
		return commandOK(c.schema.GetContext(ctx, false))
	case "history":
		return commandOK(c.formatHistory())
	case "clear", "reset":
		c.session.Clear()
		if c.store != nil {
			if err := c.store.ClearSession(ctx, c.sessionID); err != nil {
				c.logger.Warn("failed to clear persisted turns", "error", err)
			}
		}
		return commandOK("Conversation history cleared.")
	case "status":
		return commandOK(c.statusReport(ctx))
	default:
		return &Response{
			Answer:    fmt.Sprintf("Unknown command: /%s. Type /help for available commands.", name),
			Success:   false,
			IsCommand: true,
			Error:     fmt.Sprintf("unknown command %q", name),
		}
	}
}

func commandOK(answer string) *Response {
	return &Response{Answer: answer, Success: true, IsCommand: true}
}

// formatHistory renders retained turns as a numbered list, truncating long
// entries at historyContentLimit characters.
func (c *Copilot) formatHistory() string {
	turns := c.session.Turns()
	if len(turns) == 0 {
		return "No conversation history yet."
	}

	var b strings.Builder
	b.WriteString("Conversation history:\n")
	for i, t := range turns {
		content := t.Content
		// character budget, so truncate on rune boundaries
		if runes := []rune(content); len(runes) > historyContentLimit {
			content = string(runes[:historyContentLimit]) + "..."
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, titleRole(t.Role), content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func titleRole(role string) string {
	if role == "" {
		return "Unknown"
	}
	return strings.ToUpper(role[:1]) + role[1:]
}

// statusReport summarizes the session and warehouse connectivity. The
// connection check and host lookup are best-effort and never fail the
// command.
func (c *Copilot) statusReport(ctx context.Context) string {
	connection := "connected"
	if err := c.gateway.Ping(ctx); err != nil {
		connection = fmt.Sprintf("unreachable (%v)", err)
	}

	var b strings.Builder
	b.WriteString("Session status:\n")
	fmt.Fprintf(&b, "  Table:      %s\n", c.gateway.TableID())
	fmt.Fprintf(&b, "  Model:      %s\n", c.modelID)
	fmt.Fprintf(&b, "  Turns:      %d retained (%d total this session)\n", c.session.Len(), c.session.Count())
	fmt.Fprintf(&b, "  Max rows:   %d\n", c.maxResults)
	fmt.Fprintf(&b, "  Warehouse:  %s", connection)

	if info, err := host.InfoWithContext(ctx); err == nil {
		fmt.Fprintf(&b, "\n  Host:       %s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch)
	}
	return b.String()
}
