package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/dashboard"
)

var errNoClipboard = errors.New("no system clipboard available")

// ClipWatchCmd stages new clipboard copies until interrupted.
type ClipWatchCmd struct{}

func (c *ClipWatchCmd) Run(ctx *Context) error {
	if ctx.Clipboard == nil {
		return errNoClipboard
	}
	ctx.println("Watching the clipboard. Press Ctrl+C to stop.")
	err := ctx.clipboardWatcher().Run(ctx.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ClipTakeCmd resolves the staged copy: save it as a note, print a search
// URL for it, or discard it.
type ClipTakeCmd struct {
	Action string `arg:"" optional:"" help:"save, search or dismiss. Omit to show the staged text." enum:"show,save,search,dismiss" default:"show"`
}

func (c *ClipTakeCmd) Run(ctx *Context) error {
	if c.Action == "show" {
		text, err := ctx.Service.PeekStaged(ctx.Context())
		if errors.Is(err, dashboard.ErrNothingStaged) {
			ctx.println("Nothing staged.")
			return nil
		}
		if err != nil {
			return err
		}
		ctx.printf("Staged: %s\n", clipboard.Preview(text))
		return nil
	}

	text, err := ctx.Service.TakeStaged(ctx.Context())
	if errors.Is(err, dashboard.ErrNothingStaged) {
		ctx.println("Nothing staged.")
		return nil
	}
	if err != nil {
		return err
	}

	switch c.Action {
	case "save":
		note, err := ctx.Service.SaveClipAsNote(ctx.Context(), text)
		if err != nil {
			return err
		}
		ctx.printf("✓ Saved as note %d\n", note.ID)
	case "search":
		ctx.println(dashboard.SearchURL(text))
	case "dismiss":
		ctx.println("Dismissed.")
	default:
		return fmt.Errorf("unknown action: %s", c.Action)
	}
	return nil
}
