package shell

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUndecodable is returned when captured output is not valid in the
// configured encoding.
var ErrUndecodable = errors.New("undecodable output")

// Decoder turns captured process bytes into text using one fixed encoding.
type Decoder struct {
	name string
	enc  encoding.Encoding
}

// NewDecoder resolves an encoding label ("utf-8", "windows-1252", "ibm866", ...).
// An empty label means UTF-8.
func NewDecoder(label string) (*Decoder, error) {
	if strings.TrimSpace(label) == "" {
		label = "utf-8"
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(label)
	}
	return &Decoder{name: name, enc: enc}, nil
}

// Name is the canonical name of the encoding.
func (d *Decoder) Name() string { return d.name }

// Decode converts b to a string. UTF-8 is validated strictly: malformed input
// is an error rather than being replaced with U+FFFD.
func (d *Decoder) Decode(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	if d.name == "utf-8" {
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%w: %s: invalid byte sequence", ErrUndecodable, d.name)
		}
		return string(b), nil
	}
	out, _, err := transform.Bytes(d.enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUndecodable, d.name, err)
	}
	return string(out), nil
}
