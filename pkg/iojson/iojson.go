// Package iojson handles the JSON surface of the CLI: structured input from
// a file or stdin, and structured reports on stdout. Every command consumes
// and produces JSON so runs can be driven by automation.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteWith marshals obj as indented JSON onto w. A marshal failure writes a
// hand-built JSON error onto ew instead, so the output stream always carries
// valid JSON.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		msg, _ := json.Marshal(err.Error())
		_, werr := fmt.Fprintf(ew, "{\"error\":%s}\n", msg)
		return werr
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write writes obj to stdout, reporting marshal failures on stderr.
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
