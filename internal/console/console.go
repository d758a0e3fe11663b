// Package console renders load notices, diagnostics, and configuration dumps
// for a terminal.
package console

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/simconfig/internal/coerce"
	"github.com/eugenenazirov/simconfig/internal/loader"
	"github.com/eugenenazirov/simconfig/internal/schema"
	"github.com/eugenenazirov/simconfig/internal/storage"
)

const (
	// NotConfigured is printed in place of an unset value.
	NotConfigured = "Not configured"
	// TypeMismatchNotice is printed when a stored value cannot be rendered.
	TypeMismatchNotice = "Type mismatch"
)

// Format selects how the configuration dump is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// Printer writes console output for a configuration session.
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter returns a Printer writing to out. An unrecognised format falls
// back to text.
func NewPrinter(out io.Writer, format Format) *Printer {
	if format != FormatYAML {
		format = FormatText
	}
	return &Printer{out: out, format: format}
}

// Render returns the display form of an entry's value.
func Render(e storage.Entry) string {
	if !e.Set {
		return NotConfigured
	}
	text, err := schema.FormatValue(e.Field, e.Value)
	if err != nil {
		return TypeMismatchNotice
	}
	return text
}

// Loaded announces that a source has been fully consumed.
func (p *Printer) Loaded(source string) {
	fmt.Fprintf(p.out, "\nFile %s loaded..\n", source)
}

// Diagnostic reports a rejected configuration line. Type mismatches also name
// the expected type.
func (p *Printer) Diagnostic(d loader.Diagnostic) {
	var mismatch *coerce.TypeMismatchError
	if errors.As(d.Err, &mismatch) {
		fmt.Fprintf(p.out, "%s:%d: %s %s: %q (expected %s)\n", d.Source, d.Line, d.Kind, d.Field, d.Text, mismatch.Expected)
		return
	}
	fmt.Fprintf(p.out, "%s:%d: %s %s: %q\n", d.Source, d.Line, d.Kind, d.Field, d.Text)
}

// Missing reports a configuration source that does not exist.
func (p *Printer) Missing(source string) {
	fmt.Fprintf(p.out, "\nFile %s not found, skipping..\n", source)
}

// Dump prints every entry in order.
func (p *Printer) Dump(entries iter.Seq[storage.Entry]) error {
	if p.format == FormatYAML {
		return p.dumpYAML(entries)
	}

	fmt.Fprintln(p.out, "\nCurrent configuration: ")
	for e := range entries {
		if _, err := fmt.Fprintf(p.out, "%s : %s\n", e.Field.Name, Render(e)); err != nil {
			return fmt.Errorf("write configuration: %w", err)
		}
	}
	return nil
}

func (p *Printer) dumpYAML(entries iter.Seq[storage.Entry]) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for e := range entries {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Field.Name},
			yamlValue(e),
		)
	}

	fmt.Fprintln(p.out, "\nCurrent configuration:")
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return enc.Close()
}

func yamlValue(e storage.Entry) *yaml.Node {
	if !e.Set {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	if n, ok := e.Value.(int); ok && e.Field.Kind == schema.KindInteger {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: Render(e)}
}
