package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ViralGen/internal/usecase"
	xhttp "ViralGen/pkg/http"
	"ViralGen/pkg/util"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	var (
		url     string
		timeout time.Duration
		logs    int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a running signal engine's state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := xhttp.NewClient(xhttp.WithTimeout(timeout))
			var st usecase.SignalStatus
			err := client.SendAndParse(cmd.Context(), &xhttp.RequestOptions{
				Method: http.MethodGet,
				URL:    strings.TrimRight(url, "/") + "/api/status",
			}, &st)
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}
			renderStatus(cmd.OutOrStdout(), st, logs)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:3000", "Signal engine base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	cmd.Flags().IntVar(&logs, "logs", 10, "Operator log lines to show")
	return cmd
}

func renderStatus(w io.Writer, st usecase.SignalStatus, logLines int) {
	autopilot := "off"
	if st.Scheduler.Armed {
		autopilot = "next scan in " + util.FormatCountdown(st.Scheduler.Countdown)
	}
	if st.Scheduler.Busy {
		autopilot += " (scanning)"
	}
	fmt.Fprintf(w, "Autopilot: %s\nGemini key: %s\nTelegram: %s\n\n",
		autopilot, orDash(st.Config.GeminiKey), orDash(st.Config.TGChatID))

	rows := make([][]string, 0, len(st.Signals))
	for _, s := range st.Signals {
		rows = append(rows, []string{
			s.ID,
			s.Pair,
			string(s.Action),
			fmt.Sprint(s.Entry),
			fmt.Sprint(s.TP),
			fmt.Sprint(s.SL),
			s.CreatedAt().Format("15:04:05"),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"ID", "Pair", "Action", "Entry", "TP", "SL", "Time"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))

	if logLines > len(st.Logs) {
		logLines = len(st.Logs)
	}
	for _, e := range st.Logs[:logLines] {
		fmt.Fprintf(w, "[%s] %s: %s\n", e.Time, e.Type, e.Content)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
