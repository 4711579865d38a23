// Package render turns panels, tables and status lines into strings. The
// console loop only ever writes what a Renderer returns.
package render

import (
	"strings"
	"text/tabwriter"
)

type Level int

const (
	Info Level = iota
	Success
	Warning
	Failure
)

type Renderer interface {
	Panel(title, body string) string
	Table(title string, headers []string, rows [][]string) string
	Status(level Level, text string) string
}

// Plain renders undecorated text. Used when output is not a terminal and in tests.
type Plain struct{}

func (Plain) Panel(title, body string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("== " + title + " ==\n")
	}
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n")
	return b.String()
}

func (Plain) Table(title string, headers []string, rows [][]string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	for _, row := range rows {
		w.Write([]byte(strings.Join(row, "\t") + "\n"))
	}
	w.Flush()
	return b.String()
}

func (Plain) Status(level Level, text string) string {
	switch level {
	case Failure:
		return "error: " + text + "\n"
	case Warning:
		return "warning: " + text + "\n"
	}
	return text + "\n"
}
