package cli

import (
	"github.com/julianstephens/unidash/internal/models"
)

type CiteAddCmd struct {
	Source string `arg:"" help:"Source to cite (title, URL, author...)."`
	Format string `short:"f" help:"Citation format (APA|MLA)." default:"APA"`
}

func (c *CiteAddCmd) Run(ctx *Context) error {
	format, err := models.ParseCitationFormat(c.Format)
	if err != nil {
		return err
	}
	cite, err := ctx.Service.AddCitation(ctx.Context(), c.Source, format)
	if err != nil {
		return err
	}
	ctx.printf("Added citation %d: %s\n", cite.ID, cite.Text)
	if ctx.Clipboard != nil {
		ctx.println("Copied to clipboard.")
	}
	return nil
}

type CiteListCmd struct{}

func (c *CiteListCmd) Run(ctx *Context) error {
	cites := ctx.Service.Citations()
	if len(cites) == 0 {
		ctx.println("No citations found")
		return nil
	}
	for _, cite := range cites {
		ctx.printf("  %d  %s\n", cite.ID, cite.Text)
	}
	return nil
}

type CiteCopyCmd struct {
	ID string `arg:"" help:"Citation ID."`
}

func (c *CiteCopyCmd) Run(ctx *Context) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	cite, err := ctx.Service.CopyCitation(id)
	if err != nil {
		return err
	}
	ctx.printf("Copied: %s\n", cite.Text)
	return nil
}
