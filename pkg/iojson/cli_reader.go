package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads one JSON document of type T from a --file flag or, when
// the flag is unset, from piped stdin. Commands embed one and register its
// flag alongside their own.
type FileReader[T any] struct {
	path string
}

// Flag returns the --file/-f flag backing the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON input (reads from stdin when omitted)",
		Destination: &fr.path,
	}
}

// Read decodes the input document. An interactive stdin with no --file is an
// error rather than a hang waiting for input that will never come.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	var r io.Reader
	switch {
	case fr.path != "":
		f, err := os.Open(fr.path)
		if err != nil {
			return input, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	case term.IsTerminal(int(os.Stdin.Fd())):
		return input, fmt.Errorf("no input provided; pass --file or pipe JSON on stdin")
	default:
		r = os.Stdin
	}

	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("decode input: %w", err)
	}
	return input, nil
}
