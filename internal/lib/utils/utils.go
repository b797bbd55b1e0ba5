// Package utils contains small helpers shared by the commands.
package utils

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintJSON writes v to w as tab indented JSON followed by a newline.
func PrintJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("marshalling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
