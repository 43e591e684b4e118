package layoutio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/dockgrid/pkg/errors"
)

// Format selects a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// Formats returns the supported formats, default first.
func Formats() []Format {
	return []Format{JSON, YAML, CBOR}
}

// ParseFormat converts a format name to a Format. "yml" is accepted for YAML
// and the empty string selects JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported layout format %q", name)
}

// FormatOf guesses the format from a file extension, defaulting to JSON.
func FormatOf(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return JSON
	}
	return f
}

// cborEnc uses Core Deterministic Encoding so equal documents produce
// identical bytes.
var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("layoutio: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("layoutio: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes the document in the given format.
func Marshal(doc *Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document in the given format.
func Unmarshal(data []byte, f Format) (*Document, error) {
	return Read(bytes.NewReader(data), f)
}

// Write encodes the document to w. JSON output is indented.
func Write(w io.Writer, doc *Document, f Format) error {
	var err error
	switch f {
	case JSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case CBOR:
		err = cborEnc.NewEncoder(w).Encode(doc)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported layout format %q", f)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", f)
	}
	return nil
}

// Read decodes a document from r. The version must not be newer than
// Version.
func Read(r io.Reader, f Format) (*Document, error) {
	var doc Document
	var err error
	switch f {
	case JSON, "":
		err = json.NewDecoder(r).Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case CBOR:
		err = cborDec.NewDecoder(r).Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported layout format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	if doc.Version > Version {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "layout version %d is newer than supported version %d", doc.Version, Version)
	}
	return &doc, nil
}

// ReadFile decodes the document stored at path, choosing the format from
// the file extension.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Read(f, FormatOf(path))
}

// WriteFile encodes the document to path, choosing the format from the file
// extension.
func WriteFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := Write(f, doc, FormatOf(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
