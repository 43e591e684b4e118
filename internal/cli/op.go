package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/pkg/core/layout"
	"github.com/matzehuels/dockgrid/pkg/errors"
)

// opCommand applies one layout operation.
func (c *CLI) opCommand() *cobra.Command {
	var rawJSON, file string

	cmd := &cobra.Command{
		Use:   "op <name> [field=value | field:=json]...",
		Short: "Apply a layout operation",
		Long: `Apply a layout operation to the workspace layout and save it.

Fields are given as field=value for strings or field:=json for numbers and
other literals, or as a whole JSON object with --json or --file.

  dockgrid op add-part id=explorer-part slot=left-top activity=explorer label=Explorer
  dockgrid op add-part id=editor ref=main-area align=right ratio:=0.6
  dockgrid op navigate-view view=README.md part=editor
  dockgrid op resize-panel --json '{"panel":"left","delta":40}'`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeOp,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := layout.NewOperation(args[0])
			if err != nil {
				return err
			}
			body, err := opBody(args[1:], rawJSON, file)
			if err != nil {
				return err
			}
			if err := decodeOperation(body, op); err != nil {
				return err
			}
			generated := layout.AssignID(op)

			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			var changes []layout.ActiveViewChange
			sess.engine.OnActiveViewChange(func(ch layout.ActiveViewChange) {
				changes = append(changes, ch)
			})
			snap, err := sess.engine.Apply(cmd.Context(), op)
			if err != nil {
				return err
			}

			printApplied(op.Name(), snap.Revision)
			if generated != "" {
				printKeyValue("Part", generated)
			}
			for _, ch := range changes {
				printChange(ch)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rawJSON, "json", "", "operation fields as a JSON object")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read operation fields from a JSON file")
	return cmd
}

// opsCommand lists the operation names.
func (c *CLI) opsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List layout operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range layout.OperationNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// opBody assembles the operation's JSON from exactly one source.
func opBody(fields []string, rawJSON, file string) ([]byte, error) {
	sources := 0
	for _, set := range []bool{len(fields) > 0, rawJSON != "", file != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "give fields, --json or --file, not several")
	}
	switch {
	case rawJSON != "":
		return []byte(rawJSON), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return data, nil
	}
	return fieldsToJSON(fields)
}

// fieldsToJSON turns field=value and field:=json arguments into a JSON
// object.
func fieldsToJSON(fields []string) ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		if k, v, ok := strings.Cut(f, ":="); ok && !strings.Contains(k, "=") {
			if !json.Valid([]byte(v)) {
				return nil, errors.New(errors.ErrCodeInvalidInput, "field %s: invalid JSON %q", k, v)
			}
			obj[k] = json.RawMessage(v)
			continue
		}
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "field %q: want field=value or field:=json", f)
		}
		enc, _ := json.Marshal(v)
		obj[k] = enc
	}
	return json.Marshal(obj)
}

func decodeOperation(body []byte, op layout.Operation) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(op); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s fields", op.Name())
	}
	return nil
}
