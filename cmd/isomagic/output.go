package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"isomagic/internal/renamer"
)

// outcomeKind picks the label and colour of a status line or a status cell.
type outcomeKind int

const (
	kindPlain outcomeKind = iota
	kindInfo
	kindOK
	kindWarn
	kindError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiCyan   = "\x1b[36m"
)

var kindStyles = map[outcomeKind]struct{ label, color string }{
	kindPlain: {label: "INFO"},
	kindInfo:  {label: "INFO", color: ansiBlue},
	kindOK:    {label: "OK", color: ansiGreen},
	kindWarn:  {label: "WARN", color: ansiYellow},
	kindError: {label: "ERROR", color: ansiRed},
}

// actionKind colours the status of a rename, prune or placeholder action.
// Planned actions are cyan so dry runs read apart from real changes.
func actionKind(status string) outcomeKind {
	switch renamer.Status(status) {
	case renamer.StatusRenamed, renamer.StatusRemoved, "created":
		return kindOK
	case renamer.StatusPlanned:
		return kindInfo
	case renamer.StatusAlreadyTagged, renamer.StatusConflict, renamer.StatusKept:
		return kindWarn
	case renamer.StatusFailed:
		return kindError
	default:
		return kindPlain
	}
}

func actionColor(status string) string {
	if renamer.Status(status) == renamer.StatusPlanned {
		return ansiCyan
	}
	return kindStyles[actionKind(status)].color
}

func paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + ansiReset
}

// shouldColorize reports whether w is a terminal and NO_COLOR is unset.
func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

// printer writes the human-readable output of a command.
type printer struct {
	w        io.Writer
	colorize bool
}

func newPrinter(w io.Writer) printer {
	return printer{w: w, colorize: shouldColorize(w)}
}

// status prints an aligned "label: [KIND] message" line.
func (p printer) status(label string, kind outcomeKind, message string) {
	style := kindStyles[kind]
	line := fmt.Sprintf("%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if p.colorize {
		line = paint(style.color, line)
	}
	fmt.Fprintln(p.w, line)
}

// count prints a tally line, green when anything changed.
func (p printer) count(label string, n int, detail string) {
	kind := kindInfo
	if n > 0 {
		kind = kindOK
	}
	message := fmt.Sprint(n)
	if detail != "" {
		message += " " + detail
	}
	p.status(label, kind, message)
}

func (p printer) section(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if p.colorize {
		line = paint(ansiBlue, line)
		rule = paint(ansiBlue, rule)
	}
	fmt.Fprintln(p.w, line)
	fmt.Fprintln(p.w, rule)
}

type column struct {
	header string
	right  bool
	// status marks the column holding action statuses; its cells are coloured
	// on terminals.
	status bool
}

func (p printer) table(columns []column, rows [][]string) {
	if len(columns) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if c.right {
			configs[i].Align = text.AlignRight
		}
		if c.status && p.colorize {
			configs[i].Transformer = func(val any) string {
				s := fmt.Sprint(val)
				return paint(actionColor(s), s)
			}
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	fmt.Fprintln(p.w, tw.Render())
}

// printJSON writes v as indented JSON. HTML escaping is off so names holding
// "&" or "<" come out as they are on disk.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
