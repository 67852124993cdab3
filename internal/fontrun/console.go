package fontrun

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// console prints the user-facing progress lines of a run.
type console struct {
	out   io.Writer
	cyan  *color.Color
	dim   *color.Color
	green *color.Color
}

func newConsole(out io.Writer, enabled bool) *console {
	if out == nil {
		out = io.Discard
	}
	c := &console{
		out:   out,
		cyan:  color.New(color.FgCyan),
		dim:   color.New(color.Faint),
		green: color.New(color.FgGreen),
	}
	for _, col := range []*color.Color{c.cyan, c.dim, c.green} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *console) creating(dir string) {
	fmt.Fprintf(c.out, "Creating font directory at: %s\n", c.cyan.Sprint(dir))
}

func (c *console) writing(slug string) {
	fmt.Fprintf(c.out, "%s %s\n", c.dim.Sprint("Writing fonts.css file for"), c.cyan.Sprint(slug))
}

func (c *console) finished(path string) {
	fmt.Fprintf(c.out, "%s %s\n", c.dim.Sprint("Finished writing fonts.css file to"), c.dim.Sprint(path))
}

func (c *console) converted(slug, style string) {
	fmt.Fprintf(c.out, " %s %s%s\n", c.green.Sprint("+"), slug, c.dim.Sprint("=="+style))
}
