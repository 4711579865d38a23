// Package console is the line-oriented terminal the menu talks through.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"stockbot/internal/render"
)

const clearScreen = "\033[2J\033[H"

type Console struct {
	in  *bufio.Reader
	out io.Writer

	Renderer render.Renderer
	// ClearScreen enables the ANSI clear before each main menu.
	ClearScreen bool
}

func New(in io.Reader, out io.Writer, r render.Renderer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, Renderer: r}
}

// Prompt prints label and returns the next line without its line ending.
// io.EOF is returned only when no input at all was available.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) Print(s string) {
	fmt.Fprint(c.out, s)
}

func (c *Console) Panel(title, body string) {
	c.Print(c.Renderer.Panel(title, body))
}

func (c *Console) Table(title string, headers []string, rows [][]string) {
	c.Print(c.Renderer.Table(title, headers, rows))
}

func (c *Console) Status(level render.Level, text string) {
	c.Print(c.Renderer.Status(level, text))
}

// Pause waits for Enter. End of input is not an error here.
func (c *Console) Pause() {
	if _, err := c.Prompt("Press Enter to return to the main menu."); err == nil {
		return
	}
	fmt.Fprintln(c.out)
}

func (c *Console) Clear() {
	if c.ClearScreen {
		fmt.Fprint(c.out, clearScreen)
	}
}
