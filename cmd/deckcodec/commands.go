package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/deckcodec"
	"github.com/tsawler/deckcodec/format"
	"github.com/tsawler/deckcodec/model"
)

// deckSummary is the inspect output.
type deckSummary struct {
	Name     string         `json:"name" yaml:"name"`
	Width    int            `json:"width" yaml:"width"`
	Height   int            `json:"height" yaml:"height"`
	Title    string         `json:"title,omitempty" yaml:"title,omitempty"`
	Author   string         `json:"author,omitempty" yaml:"author,omitempty"`
	Created  *time.Time     `json:"created,omitempty" yaml:"created,omitempty"`
	Modified *time.Time     `json:"modified,omitempty" yaml:"modified,omitempty"`
	Slides   []slideSummary `json:"slides" yaml:"slides"`
	Warnings []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type slideSummary struct {
	Number   int            `json:"number" yaml:"number"`
	Title    string         `json:"title,omitempty" yaml:"title,omitempty"`
	Elements map[string]int `json:"elements" yaml:"elements"`
	Notes    bool           `json:"notes" yaml:"notes"`
}

func summarize(p *model.Presentation, warnings []deckcodec.Warning) deckSummary {
	s := deckSummary{
		Name:   p.Name,
		Width:  p.Width,
		Height: p.Height,
		Title:  p.Metadata.Title,
		Author: p.Metadata.Author,
	}
	if !p.Metadata.Created.IsZero() {
		t := p.Metadata.Created
		s.Created = &t
	}
	if !p.Metadata.Modified.IsZero() {
		t := p.Metadata.Modified
		s.Modified = &t
	}
	for i := range p.Slides {
		slide := &p.Slides[i]
		counts := make(map[string]int)
		for _, el := range slide.Elements {
			counts[el.Kind().String()]++
		}
		s.Slides = append(s.Slides, slideSummary{
			Number:   slide.Index + 1,
			Title:    slide.Title(),
			Elements: counts,
			Notes:    slide.Notes != "",
		})
	}
	for _, w := range warnings {
		s.Warnings = append(s.Warnings, w.String())
	}
	return s
}

func newInspectCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a presentation's slides and elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, warnings, err := a.open(args[0]).Presentation()
			if err != nil {
				return err
			}
			summary := summarize(p, warnings)

			switch output {
			case "json":
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			case "yaml":
				enc := yaml.NewEncoder(a.stdout)
				enc.SetIndent(2)
				if err := enc.Encode(summary); err != nil {
					return err
				}
				return enc.Close()
			case "text", "":
				a.printWarnings(warnings)
				printSummary(a, summary)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func printSummary(a *app, s deckSummary) {
	fmt.Fprintf(a.stdout, "Name:   %s\n", s.Name)
	fmt.Fprintf(a.stdout, "Size:   %dx%d px\n", s.Width, s.Height)
	if s.Title != "" {
		fmt.Fprintf(a.stdout, "Title:  %s\n", s.Title)
	}
	if s.Author != "" {
		fmt.Fprintf(a.stdout, "Author: %s\n", s.Author)
	}
	fmt.Fprintf(a.stdout, "Slides: %d\n", len(s.Slides))
	for _, slide := range s.Slides {
		fmt.Fprintf(a.stdout, "  %d. %q text=%d shape=%d image=%d table=%d notes=%t\n",
			slide.Number, slide.Title,
			slide.Elements["text"], slide.Elements["shape"], slide.Elements["image"], slide.Elements["table"],
			slide.Notes)
	}
}

// renderFlags are shared by text and markdown.
type renderFlags struct {
	slides    []int
	notes     bool
	titles    bool
	noFooters bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntSliceVarP(&f.slides, "slides", "s", nil, "Slides to render, 1-indexed (default all)")
	cmd.Flags().BoolVarP(&f.notes, "notes", "n", false, "Include speaker notes")
	cmd.Flags().BoolVar(&f.titles, "titles", false, "Emit slide titles as headings")
	cmd.Flags().BoolVar(&f.noFooters, "no-footers", false, "Drop footer, date and slide-number placeholders")
}

func (f *renderFlags) apply(c *deckcodec.Codec) *deckcodec.Codec {
	if len(f.slides) > 0 {
		c = c.Slides(f.slides...)
	}
	if f.notes {
		c = c.IncludeNotes()
	}
	if f.titles {
		c = c.IncludeTitles()
	}
	if f.noFooters {
		c = c.ExcludeFooters()
	}
	return c
}

func newTextCommand(a *app) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "text <file>",
		Short: "Print the plain text of a presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, warnings, err := flags.apply(a.open(args[0])).Text()
			a.printWarnings(warnings)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, text)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newMarkdownCommand(a *app) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "markdown <file>",
		Short: "Print a presentation as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, warnings, err := flags.apply(a.open(args[0])).Markdown()
			a.printWarnings(warnings)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, md)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newRoundtripCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <in> <out>",
		Short: "Decode a presentation and write it back out",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, warnings, err := a.open(args[0]).Roundtrip()
			a.printWarnings(warnings)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", args[1], err)
			}
			fmt.Fprintf(a.stdout, "wrote %s (%d bytes, %d warnings)\n", args[1], len(data), len(warnings))
			return nil
		},
	}
}

func newDetectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Report the container format of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := format.DetectFromBytes(data)
			if err != nil {
				return err
			}
			if f == format.Unknown {
				f = format.Detect(args[0])
			}
			fmt.Fprintf(a.stdout, "%s\t%s\tsupported=%t\n", args[0], f, f.IsPresentationML())
			return nil
		},
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "deckcodec %s\n", version)
		},
	}
}
