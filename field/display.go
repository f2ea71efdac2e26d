package field

import (
	"fmt"
	"io"
	"strings"
)

// Format writes a human readable rendering of fs to w, one field per line,
// with nested groups and sequence entries indented.
func Format(w io.Writer, fs *FieldSet) error {
	return formatSet(w, fs, 0)
}

// FormatString returns the rendering produced by Format.
func FormatString(fs *FieldSet) string {
	var sb strings.Builder
	_ = Format(&sb, fs)

	return sb.String()
}

func formatSet(w io.Writer, fs *FieldSet, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, e := range fs.Entries() {
		label := e.Identity.Name()
		if e.Identity.ID != "" {
			label += "[" + e.Identity.ID + "]"
		}

		switch {
		case e.Field.IsNull():
			if _, err := fmt.Fprintf(w, "%s%s=<null>\n", indent, label); err != nil {
				return err
			}
		case e.Field.group != nil:
			if _, err := fmt.Fprintf(w, "%s%s={\n", indent, label); err != nil {
				return err
			}
			if err := formatSet(w, e.Field.group, depth+1); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s}\n", indent); err != nil {
				return err
			}
		case e.Field.seq != nil:
			if _, err := fmt.Fprintf(w, "%s%s=[%d]\n", indent, label, e.Field.seq.Len()); err != nil {
				return err
			}
			for i, entry := range e.Field.seq.Entries() {
				if _, err := fmt.Fprintf(w, "%s  #%d {\n", indent, i); err != nil {
					return err
				}
				if err := formatSet(w, entry, depth+2); err != nil {
					return err
				}
				if _, err := fmt.Fprintf(w, "%s  }\n", indent); err != nil {
					return err
				}
			}
		default:
			if _, err := fmt.Fprintf(w, "%s%s=%s\n", indent, label, e.Field); err != nil {
				return err
			}
		}
	}

	return nil
}
