package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"

	"github.com/spf13/cobra"
	"github.com/telekom/mailgate/pkg/mgctl/client"
	"github.com/telekom/mailgate/pkg/mgctl/output"
)

func NewSendCommand() *cobra.Command {
	var (
		to           []string
		subject      string
		template     string
		html         string
		htmlFile     string
		contextJSON  string
		contextFile  string
		fromName     string
		individual   bool
		delaySeconds int
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send mail through the relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}

			recipients, err := parseRecipients(to)
			if err != nil {
				return err
			}
			body, err := resolveBody(html, htmlFile)
			if err != nil {
				return err
			}
			reqContext, err := parseContext(contextJSON, contextFile)
			if err != nil {
				return err
			}

			req := client.SendRequest{
				Recipients:   recipients,
				Subject:      subject,
				Template:     template,
				HTML:         body,
				Context:      reqContext,
				FromName:     fromName,
				Individual:   individual,
				DelaySeconds: delaySeconds,
			}

			// Reject a bad --output before any mail goes out.
			format, err := output.ParseFormat(rt.OutputFormat())
			if err != nil {
				return err
			}

			result, err := apiClient.Messages().Send(context.Background(), rt.ResolveAccount(), req)
			if err != nil {
				return err
			}

			if format == output.FormatTable {
				output.WriteSendResult(rt.Writer(), result)
			} else if err := output.WriteObject(rt.Writer(), format, result); err != nil {
				return err
			}

			// Partial failure still answers 207, so surface it in the exit code.
			if failures := result.Failures(); failures > 0 {
				return fmt.Errorf("%d of %d recipients failed", failures, result.Recipients())
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&to, "to", nil, "Recipient, either an email or 'Name <email>' (repeatable)")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&template, "template", "", "Server-side template name")
	cmd.Flags().StringVar(&html, "html", "", "Inline HTML body")
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "Path to an HTML body file")
	cmd.Flags().StringVar(&contextJSON, "context-data", "", "Template context as a JSON object")
	cmd.Flags().StringVar(&contextFile, "context-file", "", "Path to a JSON file with the template context")
	cmd.Flags().StringVar(&fromName, "from-name", "", "Display name override for the From header")
	cmd.Flags().BoolVar(&individual, "individual", false, "Send one message per recipient instead of a blind copy")
	cmd.Flags().IntVar(&delaySeconds, "delay", 0, "Seconds to pause between individual sends")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func parseRecipients(to []string) ([]client.Recipient, error) {
	recipients := make([]client.Recipient, 0, len(to))
	for _, raw := range to {
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", raw, err)
		}
		recipients = append(recipients, client.Recipient{Email: addr.Address, Name: addr.Name})
	}
	return recipients, nil
}

func resolveBody(inline, file string) (string, error) {
	if inline != "" && file != "" {
		return "", errors.New("--html and --html-file are mutually exclusive")
	}
	if file == "" {
		return inline, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read html file: %w", err)
	}
	return string(data), nil
}

func parseContext(inline, file string) (map[string]any, error) {
	if inline != "" && file != "" {
		return nil, errors.New("--context-data and --context-file are mutually exclusive")
	}
	var raw []byte
	switch {
	case inline != "":
		raw = []byte(inline)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read context file: %w", err)
		}
		raw = data
	default:
		return nil, nil
	}
	var ctx map[string]any
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, fmt.Errorf("context must be a JSON object: %w", err)
	}
	return ctx, nil
}
