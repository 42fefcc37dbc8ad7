package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/unidash/internal/backup"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/importer"
)

// ExportCmd writes unidash-backup.csv.
type ExportCmd struct {
	Dir string `short:"o" help:"Directory to write the export to." default:"." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	path, err := backup.WriteExport(ctx.Service.Document(), c.Dir)
	if err != nil {
		return err
	}
	ctx.printf("✓ Exported to %s\n", path)
	return nil
}

// exportKeys are the document keys an export file carries.
var exportKeys = []string{
	constants.KeyTasks,
	constants.KeyTimeSessions,
	constants.KeyNotes,
	constants.KeyCitations,
	constants.KeyTimetable,
}

// ImportCmd loads a YAML file of tasks, timetable and citations, or an
// export file, which replaces the exported keys wholesale.
type ImportCmd struct {
	File string `arg:"" help:"YAML file or unidash-backup.csv export." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	switch strings.ToLower(filepath.Ext(c.File)) {
	case ".yaml", ".yml":
		res, err := importer.Import(ctx.Context(), ctx.Service, data)
		if err != nil {
			return err
		}
		ctx.printf("✓ Imported %d tasks, %d timetable slots, %d citations\n", res.Tasks, res.Slots, res.Citations)
		return nil
	}

	doc, err := backup.ParseExport(bytes.NewReader(data))
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup(ctx.Context())
	if err := ctx.Service.PatchDocument(ctx.Context(), doc, exportKeys); err != nil {
		return err
	}
	ctx.printf("✓ Restored %d tasks, %d sessions, %d notes, %d citations from %s\n",
		len(doc.Tasks), len(doc.TimeSessions), len(doc.Notes), len(doc.Citations), filepath.Base(c.File))
	return nil
}
