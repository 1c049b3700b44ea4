package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"aforo/internal/domain"
	"aforo/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESNotifier creates a new SES-backed Notifier.
func NewSESNotifier(region, fromAddress, fromName string) (port.Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesNotifier{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesNotifier) BatchFinished(ctx context.Context, recipient string, batch *domain.Batch) error {
	subject := fmt.Sprintf("Batch %q finished: %s", batch.Name, batch.Status)
	htmlBody := buildBatchFinishedHTML(batch)
	textBody := buildBatchFinishedText(batch)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildBatchFinishedText(batch *domain.Batch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Batch %q finished with status %s.\n\n", batch.Name, batch.Status)
	fmt.Fprintf(&sb, "Files processed: %d of %d\n", batch.ProcessedFiles, batch.TotalFiles)
	fmt.Fprintf(&sb, "Files failed: %d\n", batch.FailedFiles)
	if len(batch.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range batch.Errors {
			fmt.Fprintf(&sb, "- %s: %s\n", e.Filename, e.Error)
		}
	}
	return sb.String()
}

func buildBatchFinishedHTML(batch *domain.Batch) string {
	var errRows strings.Builder
	for _, e := range batch.Errors {
		fmt.Fprintf(&errRows, `<tr><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px; color: #B91C1C;">%s</td></tr>`, e.Filename, e.Error)
	}
	errTable := ""
	if errRows.Len() > 0 {
		errTable = fmt.Sprintf(`<h3 style="color: #333;">Errors</h3><table style="border-collapse: collapse;">%s</table>`, errRows.String())
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Batch %q finished</h2>
  <p>Status: <strong>%s</strong></p>
  <p>Files processed: %d of %d · Files failed: %d</p>
  %s
</body>
</html>`, batch.Name, batch.Status, batch.ProcessedFiles, batch.TotalFiles, batch.FailedFiles, errTable)
}
