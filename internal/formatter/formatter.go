// package formatter renders a saved session for humans and scripts (plain text, JSON, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/getlrc/internal/models"
	"github.com/desertthunder/getlrc/internal/shared"
)

// Format names an output format accepted by --format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// ParseFormat accepts a format name case-insensitively; "md" is an alias for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Render converts sess to the given format.
func Render(sess *models.Session, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return ExportToText(sess)
	case FormatJSON:
		return ExportToJSON(sess)
	case FormatCSV:
		return ExportToCSV(sess)
	case FormatMarkdown:
		return ExportToMarkdown(sess)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts the session log to CSV with columns: Index, Filename, Status
func ExportToCSV(sess *models.Session) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Filename", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, entry := range sess.LogHistory {
		record := []string{strconv.Itoa(i + 1), entry.Filename, entry.Status.String()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON emits the session in its persisted shape, indented.
func ExportToJSON(sess *models.Session) ([]byte, error) {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToMarkdown converts the session to a summary table followed by the activity log
func ExportToMarkdown(sess *models.Session) ([]byte, error) {
	var buf bytes.Buffer
	c := sess.Counts()

	fmt.Fprintf(&buf, "# Session %s\n\n", sessionName(sess))
	fmt.Fprintf(&buf, "**Root**: `%s`\n\n", sess.RootPath)
	if !sess.UpdatedAt.IsZero() {
		fmt.Fprintf(&buf, "**Updated**: %s\n\n", sess.UpdatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&buf, "**Progress**: %d/%d (%.1f%%)\n\n", sess.Processed(), sess.Total(), sess.Percent()*100)

	buf.WriteString("| Outcome | Files |\n|---|---:|\n")
	fmt.Fprintf(&buf, "| Downloaded | %d |\n", c.Downloaded)
	fmt.Fprintf(&buf, "| Cached miss | %d |\n", c.Cached)
	fmt.Fprintf(&buf, "| Already existed | %d |\n", c.Existing)
	fmt.Fprintf(&buf, "| Failed | %d |\n", c.Failed)
	fmt.Fprintf(&buf, "| Pending | %d |\n\n", len(sess.PendingFiles))

	if len(sess.LogHistory) > 0 {
		buf.WriteString("## Recent activity\n\n")
		for _, entry := range sess.LogHistory {
			fmt.Fprintf(&buf, "- `%s` %s\n", entry.Status.Symbol(), escapeMarkdown(entry.Filename))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts the session to plain text format
func ExportToText(sess *models.Session) ([]byte, error) {
	var buf bytes.Buffer
	c := sess.Counts()

	fmt.Fprintf(&buf, "Session: %s\n", sessionName(sess))
	fmt.Fprintf(&buf, "Root: %s\n", sess.RootPath)
	if !sess.UpdatedAt.IsZero() {
		fmt.Fprintf(&buf, "Updated: %s\n", sess.UpdatedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(&buf, "Progress: %d/%d (%.1f%%)\n", sess.Processed(), sess.Total(), sess.Percent()*100)
	fmt.Fprintf(&buf, "Downloaded: %d  Cached: %d  Existing: %d  Failed: %d  Pending: %d\n",
		c.Downloaded, c.Cached, c.Existing, c.Failed, len(sess.PendingFiles))

	if len(sess.LogHistory) > 0 {
		buf.WriteString("\n")
		for _, entry := range sess.LogHistory {
			buf.WriteString(entry.Line())
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// WriteExport renders sess and writes it to path.
func WriteExport(sess *models.Session, f Format, path string) error {
	data, err := Render(sess, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func sessionName(sess *models.Session) string {
	if sess.ID == "" {
		return "(unnamed)"
	}
	return sess.ID
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
