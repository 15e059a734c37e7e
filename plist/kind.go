package plist

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// A Kind represents a kind of plist.
// There are three distinct kinds: ASCII, XML and Binary.
type Kind int

const (
	Unknown Kind = iota
	XML          // XML plists are supported for reading
	ASCII        // OpenStep text plists are recognised but not supported
	Binary       // binary plists are recognised but not supported
)

func (k Kind) String() string {
	switch k {
	case XML:
		return "XML"
	case ASCII:
		return "ASCII"
	case Binary:
		return "binary"
	}
	return "unknown"
}

// DetectKind reads a small prefix off r to determine which plist kind the
// data belongs to. It returns the kind together with a reader that replays
// the consumed prefix before continuing with r.
func DetectKind(r io.Reader) (Kind, io.Reader, error) {
	buf := make([]byte, 10)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return Unknown, nil, err
	}
	buf = buf[:n]

	replay := io.MultiReader(bytes.NewReader(buf), r)
	str := string(buf)
	switch {
	case strings.Contains(str, "<?xml"), strings.Contains(str, "<plist"):
		return XML, replay, nil
	case strings.Contains(str, "bplist"):
		return Binary, replay, nil
	case strings.ContainsAny(str, "{("):
		return ASCII, replay, nil
	}
	return Unknown, replay, errors.New("plist: unknown kind")
}
