// Command itemcodec converts between CBOR and JSON on the wire, driving
// one format's Parser directly into the other format's Renderer with no
// intermediate Go value — an end-to-end exercise of the Reader/Writer-less
// Parser/Renderer contract itself.
package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/oy3o/itemcodec"
	"github.com/oy3o/itemcodec/cbor"
	"github.com/oy3o/itemcodec/json"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "itemcodec"
	app.Usage = "convert data between CBOR and JSON"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	ioFlags := []cli.Flag{
		cli.StringFlag{Name: "in", Usage: "input file path (default: stdin)"},
		cli.StringFlag{Name: "out", Usage: "output file path (default: stdout)"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "cbor-to-json",
			Usage: "read a CBOR document and write it out as JSON",
			Flags: ioFlags,
			Action: func(c *cli.Context) error {
				return convert(c, func(in []byte) itemcodec.Parser {
					return cbor.NewParser(itemcodec.NewSliceInput(in), nil)
				}, func(o itemcodec.Output) itemcodec.Renderer {
					return json.NewRenderer(o)
				})
			},
		},
		{
			Name:  "json-to-cbor",
			Usage: "read a JSON document and write it out as CBOR",
			Flags: ioFlags,
			Action: func(c *cli.Context) error {
				return convert(c, func(in []byte) itemcodec.Parser {
					return json.NewParser(itemcodec.NewSliceInput(in), nil)
				}, func(o itemcodec.Output) itemcodec.Renderer {
					return cbor.NewRenderer(o)
				})
			},
		},
	}
	return app
}

func convert(c *cli.Context, newParser func([]byte) itemcodec.Parser, newRenderer func(itemcodec.Output) itemcodec.Renderer) error {
	in, err := openInput(c.String("in"))
	if err != nil {
		return err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("itemcodec: reading input: %v", err), 1)
	}

	parser := newParser(data)
	out := itemcodec.NewChunkedOutput()
	renderer := newRenderer(out)

	for {
		item, err := parser.ReadNextDataItem(renderer)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("itemcodec: %v", err), 1)
		}
		if item == itemcodec.ItemEndOfInput {
			break
		}
	}

	result, err := out.Result()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("itemcodec: rendering output: %v", err), 1)
	}
	return writeOutput(c.String("out"), result)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, cli.NewExitError(fmt.Sprintf("itemcodec: opening %s: %v", path, err), 1)
	}
	return f, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
