package fileio

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
)

// DecodeXML decodes an XML document into v. Ministry files declare
// ISO-8859-1; any charset known to the WHATWG index is accepted.
func DecodeXML(r io.Reader, v any) error {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return dec.Decode(v)
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("xml charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
