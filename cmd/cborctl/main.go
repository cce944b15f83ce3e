// Command cborctl encodes and decodes CBOR from the command line, and
// renders CBOR input as RFC 8949 diagnostic notation.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ionbridge/cborcore/cbor"
	"github.com/ionbridge/cborcore/value"
	"github.com/ionbridge/cborcore/wire"
)

// CLI defines the cborctl command-line interface: three subcommands sharing
// a single input/output convention (stdin/stdout unless a path is given).
type CLI struct {
	Diag   DiagCmd   `cmd:"" help:"Render CBOR input as RFC 8949 diagnostic notation."`
	Decode DecodeCmd `cmd:"" help:"Decode CBOR input and print the decoded value."`
	Encode EncodeCmd `cmd:"" help:"Encode the input (file or stdin) verbatim as a CBOR text string."`
}

type DiagCmd struct {
	In string `arg:"" optional:"" help:"Input file (default: stdin)"`
}

func (c *DiagCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	out, _, err := wire.Diagnose(data)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

type DecodeCmd struct {
	In        string `arg:"" optional:"" help:"Input file (default: stdin)"`
	StrErrors string `help:"UTF-8 error policy: strict|replace" default:"strict" enum:"strict,replace"`
}

func (c *DecodeCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	opts := cbor.DecOptions{}
	if c.StrErrors == "replace" {
		opts.StrErrors = cbor.StrErrorsReplace
	}
	v, err := cbor.Unmarshal(data, opts)
	if err != nil {
		return err
	}
	fmt.Println(renderValue(v))
	return nil
}

type EncodeCmd struct {
	In        string `arg:"" optional:"" help:"Input file (default: stdin)"`
	Canonical bool   `help:"Use canonical encoding style."`
}

func (c *EncodeCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	opts := cbor.EncOptions{}
	if c.Canonical {
		opts.Style = cbor.StyleCanonical
	}
	out, err := cbor.Marshal(string(data), opts)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// renderValue formats a decoded value.Map/value.Array with enough fidelity
// to be useful on a terminal without dragging in a general pretty-printer.
func renderValue(v any) string {
	switch t := v.(type) {
	case *value.Array:
		s := "["
		for i, item := range t.Items {
			if i > 0 {
				s += ", "
			}
			s += renderValue(item)
		}
		return s + "]"
	case *value.Map:
		s := "{"
		first := true
		t.Range(func(k, val any) bool {
			if !first {
				s += ", "
			}
			first = false
			s += renderValue(k) + ": " + renderValue(val)
			return true
		})
		return s + "}"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cborctl"),
		kong.Description("Inspect and produce CBOR from the command line."),
	)
	if err := ctx.Run(); err != nil {
		ctx.FatalIfErrorf(err)
	}
}
