package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"go.mau.fi/util/variationselector"

	"emojikbd/internal/config"
	"emojikbd/internal/glyph"
	"emojikbd/internal/translate"
)

// input joins args, or reads stdin line by line when there are none.
// Each returned element is translated on its own.
func (a *app) input(args []string) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}
	var lines []string
	scanner := bufio.NewScanner(a.stdin)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

type translation struct {
	Source  string `json:"source"`
	Display string `json:"display"`
}

func (a *app) cmdEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	qualified := fs.Bool("qualified", false, "add emoji presentation selectors")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lines, err := a.input(fs.Args())
	if err != nil {
		return err
	}

	out := make([]translation, 0, len(lines))
	for _, line := range lines {
		display := translate.Default.Display(line)
		if *qualified {
			display = variationselector.Add(display)
		}
		out = append(out, translation{Source: line, Display: display})
	}

	if a.jsonOut {
		return a.writeJSON(out)
	}
	for _, t := range out {
		fmt.Fprintln(a.stdout, t.Display)
	}
	return nil
}

func (a *app) cmdDecode(args []string) error {
	lines, err := a.input(args)
	if err != nil {
		return err
	}

	out := make([]translation, 0, len(lines))
	for _, line := range lines {
		out = append(out, translation{Source: translate.Default.Source(line), Display: line})
	}

	if a.jsonOut {
		return a.writeJSON(out)
	}
	for _, t := range out {
		fmt.Fprintln(a.stdout, t.Source)
	}
	return nil
}

type tableEntry struct {
	Letter string `json:"letter"`
	Glyph  string `json:"glyph"`
}

func (a *app) cmdTable(args []string) error {
	fs := flag.NewFlagSet("table", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	layout := fs.String("layout", "", "print as keyboard rows of this layout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *layout != "" {
		return a.printLayout(*layout)
	}

	entries := glyph.Default.Entries()
	if a.jsonOut {
		out := make([]tableEntry, len(entries))
		for i, e := range entries {
			out[i] = tableEntry{Letter: string(e.Letter), Glyph: e.Glyph}
		}
		return a.writeJSON(out)
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LETTER\tGLYPH")
	for _, e := range entries {
		fmt.Fprintf(w, "%c\t%s\n", e.Letter, e.Glyph)
	}
	return w.Flush()
}

func (a *app) printLayout(name string) error {
	rows, ok := glyph.Layout(name)
	if !ok {
		return fmt.Errorf("unknown layout %q (valid: %s)", name, strings.Join(glyph.Layouts(), ", "))
	}

	if a.jsonOut {
		out := make([][]tableEntry, len(rows))
		for i, row := range rows {
			for _, l := range row {
				out[i] = append(out[i], tableEntry{Letter: string(l), Glyph: translate.Default.Unit(l)})
			}
		}
		return a.writeJSON(out)
	}

	for _, row := range rows {
		var glyphs, letters []string
		for _, l := range row {
			glyphs = append(glyphs, translate.Default.Unit(l))
			letters = append(letters, " "+string(l))
		}
		fmt.Fprintln(a.stdout, strings.Join(glyphs, " "))
		fmt.Fprintln(a.stdout, strings.Join(letters, " "))
	}
	return nil
}

func (a *app) cmdLayouts() error {
	names := glyph.Layouts()
	if a.jsonOut {
		return a.writeJSON(names)
	}
	for _, name := range names {
		marker := ""
		if name == glyph.DefaultLayout {
			marker = " (default)"
		}
		fmt.Fprintf(a.stdout, "%s%s\n", name, marker)
	}
	return nil
}

type checkReport struct {
	Text        string `json:"text"`
	Units       int    `json:"units"`
	Glyphs      int    `json:"glyphs"`
	Passthrough int    `json:"passthrough"`
	Source      string `json:"source"`
}

func check(text string) checkReport {
	r := checkReport{Text: text, Source: translate.Default.Source(text)}
	for _, unit := range translate.Units(text) {
		r.Units++
		if _, ok := translate.Default.Letter(unit); ok {
			r.Glyphs++
		} else {
			r.Passthrough++
		}
	}
	return r
}

func (a *app) cmdCheck(args []string) error {
	lines, err := a.input(args)
	if err != nil {
		return err
	}

	reports := make([]checkReport, 0, len(lines))
	for _, line := range lines {
		reports = append(reports, check(line))
	}

	if a.jsonOut {
		return a.writeJSON(reports)
	}
	for _, r := range reports {
		fmt.Fprintf(a.stdout, "Text:        %s\n", r.Text)
		fmt.Fprintf(a.stdout, "Units:       %d\n", r.Units)
		fmt.Fprintf(a.stdout, "Glyphs:      %d\n", r.Glyphs)
		fmt.Fprintf(a.stdout, "Passthrough: %d\n", r.Passthrough)
		fmt.Fprintf(a.stdout, "Source:      %s\n", r.Source)
	}
	return nil
}

func (a *app) configPathOrDefault() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.ConfigPath()
}

func (a *app) cmdConfig(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: emojictl config init|show|validate|schema")
	}
	path := a.configPathOrDefault()

	switch args[0] {
	case "init":
		_, created, err := config.LoadOrCreate(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(a.stdout, "Wrote default config to %s\n", path)
		} else {
			fmt.Fprintf(a.stdout, "Config already exists at %s\n", path)
		}
		return nil

	case "show":
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if a.jsonOut {
			return a.writeJSON(cfg.Clone())
		}
		fmt.Fprintf(a.stdout, "# %s\n", path)
		if err := toml.NewEncoder(a.stdout).Encode(cfg.Clone()); err != nil {
			return fmt.Errorf("encode TOML: %w", err)
		}
		return nil

	case "validate":
		if _, err := config.Load(path); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s: OK\n", path)
		return nil

	case "schema":
		_, err := io.WriteString(a.stdout, config.Schema())
		return err

	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}
