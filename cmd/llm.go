package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/cookiz/internal/llm"
	"github.com/abhisek/cookiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM requests made by game generation",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")

		s, done, err := openStoreOnly(cmd)
		if err != nil {
			return err
		}
		defer done()

		opts := store.QueryOpts{Limit: limit}
		if failed {
			// Filtered after the query; fetch everything.
			opts.Limit = 0
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		rows := llmEventRows(events, failed, limit)
		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(out, "No LLM requests recorded.")
			return nil
		}
		fmt.Fprintln(out, plainTable("ID", "When", "Model", "Tokens", "Latency", "Result").Rows(rows...))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and answer of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, done, err := openStoreOnly(cmd)
		if err != nil {
			return err
		}
		defer done()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		writeLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmUsageCmd = &cobra.Command{
	Use:     "usage",
	Aliases: []string{"stats"},
	Short:   "Show token usage and estimated cost",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, done, err := openStoreOnly(cmd)
		if err != nil {
			return err
		}
		defer done()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		purposes := plainTable("Purpose", "Calls", "Input", "Output", "Avg latency")
		for _, st := range byPurpose {
			purposes.Row(st.Purpose, strconv.Itoa(st.Calls), strconv.Itoa(st.InputTokens),
				strconv.Itoa(st.OutputTokens), fmt.Sprintf("%dms", st.AvgLatencyMs))
		}
		fmt.Fprintln(out, purposes)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}
		rows, unpriced := costRows(byModel)
		fmt.Fprintln(out)
		fmt.Fprintln(out, plainTable("Model", "Calls", "Input", "Output", "Cost").Rows(rows...))
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "No pricing for %s; the total leaves them out.\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func plainTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(_, _ int) lipgloss.Style { return lipgloss.NewStyle().Padding(0, 1) })
}

// llmEventRows renders events newest first. failedOnly keeps failed
// requests; limit caps the rows (0 for all).
func llmEventRows(events []store.LLMEventRecord, failedOnly bool, limit int) [][]string {
	var rows [][]string
	for _, e := range events {
		if failedOnly && e.Success {
			continue
		}
		if limit > 0 && len(rows) == limit {
			break
		}
		result := "ok"
		if !e.Success {
			result = firstLine(e.ErrorMessage, 40)
		}
		rows = append(rows, []string{
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format("Jan 02 15:04"),
			e.Model,
			fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
			fmt.Sprintf("%dms", e.LatencyMs),
			result,
		})
	}
	return rows
}

// costRows prices each model and appends a total row. Models missing from
// the price table are listed in unpriced.
func costRows(usage []store.LLMModelUsage) (rows [][]string, unpriced []string) {
	var total float64
	for _, mu := range usage {
		cost := "?"
		if c := llm.LookupCost(mu.Model); c != nil {
			usd := c.Cost(mu.InputTokens, mu.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		rows = append(rows, []string{mu.Model, strconv.Itoa(mu.Calls),
			strconv.Itoa(mu.InputTokens), strconv.Itoa(mu.OutputTokens), cost})
	}
	rows = append(rows, []string{"total", "", "", "", formatCost(total)})
	return rows, unpriced
}

func writeLLMEvent(w io.Writer, e *store.LLMEventRecord) {
	fmt.Fprintf(w, "#%d  %s  %s via %s  (%s)\n", e.ID,
		e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Model, e.Provider, e.Purpose)
	fmt.Fprintf(w, "%d in / %d out tokens, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
	if !e.Success {
		fmt.Fprintf(w, "Failed: %s\n", e.ErrorMessage)
	}

	fmt.Fprintln(w, "\n=== request")
	fmt.Fprintln(w, orNotCaptured(e.RequestBody))
	fmt.Fprintln(w, "=== response")
	// Game JSON is stored compact; indent it when it parses.
	var pretty bytes.Buffer
	if json.Indent(&pretty, []byte(e.ResponseBody), "", "  ") == nil {
		fmt.Fprintln(w, pretty.String())
		return
	}
	fmt.Fprintln(w, orNotCaptured(e.ResponseBody))
}

func orNotCaptured(s string) string {
	if s == "" {
		return "(not captured)"
	}
	return s
}

func firstLine(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > n {
		return s[:n-1] + "…"
	}
	return s
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().Bool("failed", false, "Only show failed or rejected requests")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmUsageCmd)
}
