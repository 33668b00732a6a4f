package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/telekom/mailgate/pkg/mgctl/client"
)

func WriteAccountTable(w io.Writer, accounts []client.AccountSummary) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tPROVIDER\tSENDER\tDEFAULT\tENABLED\tREASON")
	for _, a := range accounts {
		def := ""
		if a.Default {
			def = "*"
		}
		enabled := "yes"
		if !a.Enabled {
			enabled = "no"
		}
		reason := a.Reason
		if reason == "" {
			reason = "-"
		}
		sender := a.Sender
		if sender == "" {
			sender = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.Name, a.Provider, sender, def, enabled, reason)
	}
	_ = tw.Flush()
}

// WriteSendResult renders the human-readable summary of one send. Blind-copy
// results show the single envelope, individual results one line per recipient.
func WriteSendResult(w io.Writer, result *client.SendResult) {
	if result.Mode == "bcc" {
		_, _ = fmt.Fprintf(w, "Sent as blind copy to %d recipients (message id %s)\n", len(result.Accepted), result.MessageID)
		for _, r := range result.Rejected {
			_, _ = fmt.Fprintf(w, "  rejected: %s\n", r)
		}
		return
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RECIPIENT\tSTATUS\tMESSAGE_ID\tERROR")
	for _, o := range result.OK {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Recipient, o.Status, orDash(o.MessageID), orDash(o.Error))
	}
	for _, o := range result.Fail {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Recipient, o.Status, orDash(o.MessageID), orDash(o.Error))
	}
	_ = tw.Flush()

	summary := fmt.Sprintf("Sent %d of %d", result.TotalSent, result.Recipients())
	if result.DurationSeconds > 0 {
		summary += fmt.Sprintf(" in %.1fs", result.DurationSeconds)
	}
	_, _ = fmt.Fprintln(w, summary)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
