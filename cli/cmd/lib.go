package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
	"github.com/ardnew/htmldsl/store"
)

// Lib manages the template library, a database of named templates.
type Lib struct {
	Put    LibPut    `cmd:"" help:"Store a template under a name."`
	Get    LibGet    `cmd:"" help:"Print the source of a stored template."`
	List   LibList   `cmd:"" help:"List stored templates."                      aliases:"ls"`
	Rm     LibRm     `cmd:"" help:"Remove a stored template."`
	Render LibRender `cmd:"" help:"Render a stored template."`
}

// LibFlags locates the library database.
type LibFlags struct {
	DB string `default:"${library}" help:"Template library database" placeholder:"FILE" type:"path"`
}

func (f *LibFlags) open(ctx context.Context) (*store.Library, error) {
	if err := os.MkdirAll(filepath.Dir(f.DB), 0o700); err != nil {
		return nil, store.ErrOpen.Wrap(err).With(slog.String("dsn", f.DB))
	}

	return store.Open(ctx, f.DB, store.WithLogger(log.Default()))
}

// LibPut stores a template.
type LibPut struct {
	LibFlags `embed:""`

	Name    string   `arg:"" help:"Template name"`
	Sources []string `arg:"" default:"-" help:"Template files, or '-' for stdin" name:"source" optional:""`
}

// Run executes the lib put command.
func (c *LibPut) Run(ctx context.Context) error {
	src, err := openSources(c.Sources)
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return ErrSource.Wrap(err)
	}

	lib, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer lib.Close()

	return lib.Put(ctx, c.Name, string(data))
}

// LibGet prints the source of a template.
type LibGet struct {
	LibFlags `embed:""`

	Name string `arg:"" help:"Template name"`
}

// Run executes the lib get command.
func (c *LibGet) Run(ctx context.Context) error {
	lib, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer lib.Close()

	e, err := lib.Get(ctx, c.Name)
	if err != nil {
		return err
	}

	return writeOutput(ctx, stdinSource, func(w io.Writer) error {
		_, err := io.WriteString(w, e.Source)

		return err
	})
}

// LibList prints the names of stored templates.
type LibList struct {
	LibFlags `embed:""`

	Long   bool   `help:"Include the time each template was last stored" short:"l"`
	Prefix string `arg:"" help:"Only list names with this prefix" optional:""`
}

// Run executes the lib list command.
func (c *LibList) Run(ctx context.Context) error {
	lib, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer lib.Close()

	entries, err := lib.List(ctx, c.Prefix)
	if err != nil {
		return err
	}

	return writeOutput(ctx, stdinSource, func(w io.Writer) error {
		if !c.Long {
			for _, e := range entries {
				if _, err := fmt.Fprintln(w, e.Name); err != nil {
					return err
				}
			}

			return nil
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Updated.Local().Format(time.DateTime))
		}

		return tw.Flush()
	})
}

// LibRm removes templates.
type LibRm struct {
	LibFlags `embed:""`

	Names []string `arg:"" help:"Template names" name:"name"`
}

// Run executes the lib rm command.
func (c *LibRm) Run(ctx context.Context) error {
	lib, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer lib.Close()

	for _, name := range c.Names {
		if err := lib.Delete(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

// LibRender renders a stored template.
type LibRender struct {
	LibFlags    `embed:""`
	EnvFlags    `embed:""`
	OutputFlags `embed:""`

	Name string `arg:"" help:"Template name"`
}

// Run executes the lib render command.
func (c *LibRender) Run(ctx context.Context) error {
	lib, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer lib.Close()

	tmpl, err := lib.Template(ctx, c.Name, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	env, err := c.env(ctx)
	if err != nil {
		return err
	}

	return c.render(ctx, tmpl, env)
}
