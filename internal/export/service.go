package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/render"
)

// Service writes render snapshots to disk for the document renderer.
type Service struct {
	dir string
	now func() time.Time
}

// NewService creates a Service writing into dir.
func NewService(dir string) *Service {
	return &Service{dir: dir, now: time.Now}
}

// Export writes snap as JSON and returns the path of the written file.
func (s *Service) Export(ctx context.Context, snap render.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	path := filepath.Join(s.dir, s.filename(snap))

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// Format: YYYYMMDD_<invoice number>_<theme>.json
func (s *Service) filename(snap render.Snapshot) string {
	number := snap.Record.InvoiceNumber
	if strings.TrimSpace(number) == "" {
		number = "invoice"
	}

	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, number)

	return fmt.Sprintf("%s_%s_%s.json", s.now().Format("20060102"), safe, snap.Theme)
}

// EmailBody renders a plain-text summary of snap suitable for a cover email.
func EmailBody(snap render.Snapshot) string {
	var sb strings.Builder

	r := snap.Record

	fmt.Fprintf(&sb, "Invoice %s for %s\n", r.InvoiceNumber, r.To.Name)
	fmt.Fprintf(&sb, "Issued %s, due %s\n\n", r.IssueDate, r.DueDate)

	for _, l := range snap.Lines {
		fmt.Fprintf(&sb, "* %s | %s x %s | %s\n",
			l.Description, formatQuantity(l.Quantity), l.UnitPriceText, l.AmountText)
	}

	sb.WriteString("\n")

	for _, sl := range snap.Summary {
		fmt.Fprintf(&sb, "%s: %s\n", sl.Label, sl.Text)
	}

	if snap.Signatory != "" {
		fmt.Fprintf(&sb, "\n%s\n", snap.Signatory)
	}

	return sb.String()
}

func formatQuantity(q float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", q), "0"), ".")
}
