// Command xlsxrag2md converts one XLSX workbook to a RAG-friendly text
// format on the command line.
//
//	xlsxrag2md <input.xlsx> <output>
//
// output may be "-" to write to stdout. By default every sheet is
// converted; --sheet-index and --sheet-name restrict to one sheet, and
// --all-sheets makes the default explicit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cordwainer/xlsxrag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "xlsxrag2md:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("xlsxrag2md", flag.ContinueOnError)
	sheetIndex := fs.Int("sheet-index", -1, "convert only the sheet at this zero-based index")
	sheetName := fs.String("sheet-name", "", "convert only the sheet with this display name")
	allSheets := fs.Bool("all-sheets", false, "convert every sheet (default)")
	toStdout := fs.Bool("stdout", false, "write output to stdout regardless of the output argument")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: xlsxrag2md [flags] <input.xlsx> <output>")
	}
	inputPath, outputPath := rest[0], rest[1]

	var opts []xlsxrag.Option
	switch {
	case *sheetIndex >= 0 && *sheetName != "":
		return fmt.Errorf("--sheet-index and --sheet-name are mutually exclusive")
	case *sheetIndex >= 0:
		opts = append(opts, xlsxrag.WithSheetIndex(*sheetIndex))
	case *sheetName != "":
		opts = append(opts, xlsxrag.WithSheetName(*sheetName))
	case *allSheets:
		opts = append(opts, xlsxrag.WithAllSheets())
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, closeOut, err := openOutput(outputPath, *toStdout)
	if err != nil {
		return err
	}
	defer closeOut()

	return xlsxrag.Convert(in, out, opts...)
}

func openOutput(path string, forceStdout bool) (out *os.File, closeFn func(), err error) {
	if forceStdout || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
