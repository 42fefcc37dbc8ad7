// Package backup writes the plain-text export of the document and manages
// snapshots of the local SQLite database.
package backup

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
)

// exportSections are the export line labels in output order.
var exportSections = []struct {
	label string
	key   string
}{
	{"Tasks", constants.KeyTasks},
	{"Time", constants.KeyTimeSessions},
	{"Notes", constants.KeyNotes},
	{"Citations", constants.KeyCitations},
	{"Timetable", constants.KeyTimetable},
}

// Export renders the document as "Label: <json>" lines.
func Export(doc models.Document) ([]byte, error) {
	doc.Normalize()
	encoded, err := doc.Encode()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, s := range exportSections {
		fmt.Fprintf(&buf, "%s: %s\n", s.label, encoded[s.key])
	}
	return buf.Bytes(), nil
}

// WriteExport writes the export to dir/unidash-backup.csv and returns the
// file path.
func WriteExport(doc models.Document, dir string) (string, error) {
	data, err := Export(doc)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, constants.ExportFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// ParseExport reads an export back into a document. Sections that are
// absent keep their empty default.
func ParseExport(r io.Reader) (models.Document, error) {
	byLabel := make(map[string]string, len(exportSections))
	for _, s := range exportSections {
		byLabel[s.label] = s.key
	}

	raw := make(map[string]json.RawMessage)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		label, body, ok := strings.Cut(text, ": ")
		if !ok {
			return models.Document{}, fmt.Errorf("line %d: expected \"Label: <json>\"", line)
		}
		key, known := byLabel[label]
		if !known {
			return models.Document{}, fmt.Errorf("line %d: unknown section %q", line, label)
		}
		raw[key] = json.RawMessage(body)
	}
	if err := sc.Err(); err != nil {
		return models.Document{}, err
	}
	return models.DecodeDocument(raw)
}
