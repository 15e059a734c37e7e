package xmlplist

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/arielelkin/xcbuild/plist"
)

// Marshal returns the canonical XML plist encoding of root.
func Marshal(root plist.Object) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)
	err := enc.Encode(root)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// An Encoder writes plist object trees in the XML plist format.
type Encoder struct {
	bw          *bufio.Writer
	indentLevel int
}

// NewEncoder returns a new Encoder capable of encoding XML plists.
func NewEncoder(w io.Writer) *Encoder {
	enc := new(Encoder)
	enc.bw = bufio.NewWriter(w)
	return enc
}

// Returns a string that conforms to the current indent level. Strings that
// are output by the encoder should always have the output of this function
// after a newline.
func (e *Encoder) indent() string {
	var b []byte
	for i := 0; i < e.indentLevel; i++ {
		b = append(b, '\t')
	}
	return string(b)
}

// Writes a string (including proper indentation) to the Encoder.
func (e *Encoder) writeString(str string) error {
	_, err := e.bw.WriteString(e.indent() + str)
	if err != nil {
		return err
	}
	return nil
}

// Encode writes the XML plist encoding of root to the encoder's writer.
func (e *Encoder) Encode(root plist.Object) error {
	if root == nil {
		return errors.New("plist: nil root object")
	}

	err := e.writeString(xml.Header)
	if err != nil {
		return err
	}

	err = e.writeString("<!" + xmlPlistDocType + ">\n")
	if err != nil {
		return err
	}

	err = e.writeString("<plist version=\"" + xmlPlistVersion + "\">\n")
	if err != nil {
		return err
	}

	err = e.encodeObject(root)
	if err != nil {
		return err
	}

	err = e.writeString("</plist>\n")
	if err != nil {
		return err
	}

	return e.bw.Flush()
}

// encodeObject encodes a single object into its XML plist equivalent.
func (e *Encoder) encodeObject(obj plist.Object) error {
	switch obj := obj.(type) {
	case *plist.Null:
		return e.writeString("<null/>\n")
	case *plist.Boolean:
		if obj.Value() {
			return e.writeString("<true/>\n")
		}
		return e.writeString("<false/>\n")
	case *plist.Integer:
		return e.writeString("<integer>" + strconv.FormatInt(obj.Value(), 10) + "</integer>\n")
	case *plist.Real:
		return e.writeString("<real>" + strconv.FormatFloat(obj.Value(), 'f', -1, 64) + "</real>\n")
	case *plist.String:
		return e.encodeString(obj.Value())
	case *plist.Data:
		return e.writeString("<data>" + base64.StdEncoding.EncodeToString(obj.Value()) + "</data>\n")
	case *plist.Date:
		return e.writeString("<date>" + obj.Value().UTC().Format(time.RFC3339) + "</date>\n")
	case *plist.Array:
		return e.encodeArray(obj)
	case *plist.Dictionary:
		return e.encodeDictionary(obj)
	}
	return fmt.Errorf("plist: cannot encode %T", obj)
}

// encodeString encodes a string leaf, escaping markup characters.
func (e *Encoder) encodeString(str string) error {
	_, err := e.bw.WriteString(e.indent() + "<string>")
	if err != nil {
		return err
	}

	xml.Escape(e.bw, []byte(str))

	_, err = e.bw.WriteString("</string>\n")
	if err != nil {
		return err
	}

	return nil
}

// encodeArray encodes an array and its children in order.
func (e *Encoder) encodeArray(array *plist.Array) error {
	err := e.writeString("<array>\n")
	if err != nil {
		return err
	}

	e.indentLevel++

	for i := 0; i < array.Len(); i++ {
		err = e.encodeObject(array.At(i))
		if err != nil {
			return err
		}
	}

	e.indentLevel--

	err = e.writeString("</array>\n")
	if err != nil {
		return err
	}

	return nil
}

// encodeDictionary encodes a dictionary's bindings in insertion order.
func (e *Encoder) encodeDictionary(dict *plist.Dictionary) error {
	err := e.writeString("<dict>\n")
	if err != nil {
		return err
	}

	e.indentLevel++

	for _, key := range dict.Keys() {
		_, err = e.bw.WriteString(e.indent() + "<key>")
		if err != nil {
			return err
		}
		xml.Escape(e.bw, []byte(key))
		_, err = e.bw.WriteString("</key>\n")
		if err != nil {
			return err
		}

		value, _ := dict.Get(key)
		err = e.encodeObject(value)
		if err != nil {
			return err
		}
	}

	e.indentLevel--

	err = e.writeString("</dict>\n")
	if err != nil {
		return err
	}

	return nil
}
