// Package xmlplist decodes XML plist files into plist object trees.
package xmlplist

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/arielelkin/xcbuild/plist"
)

// keyState tracks where a dictionary is in its key/value alternation.
// Inactive and invalid means a key is awaited; active means <key> text is
// being collected; valid means a key has been captured and the next child
// becomes its value.
type keyState struct {
	active bool
	valid  bool
	value  string
}

// A frame holds one in-progress object together with its key pairing state.
type frame struct {
	current plist.Object
	key     keyState
}

// A Parser assembles a plist object tree from XML element events. It keeps
// an explicit stack of partially built containers with the top-of-stack
// frame held separately.
//
// A Parser is single-shot: once it has produced a root, further Parse
// calls return nil without touching the input. A Parser must not be driven
// by more than one caller at a time.
type Parser struct {
	driver *eventDriver
	root   plist.Object
	state  frame
	stack  []frame
	cdata  []byte
	depth  int
}

// NewParser creates a new XML plist parser.
func NewParser() *Parser {
	return new(Parser)
}

// Parse reads a single XML plist document from r and returns its root
// object. Errors are reported through errf; on any failure the partial
// tree is discarded and Parse returns nil. An empty plist yields a nil
// root with no error reported.
func (p *Parser) Parse(r io.Reader, errf ErrorFunc) plist.Object {
	if p.root != nil {
		return nil
	}

	p.driver = &eventDriver{handler: p, errf: errf}
	ok := p.driver.run(r)
	p.driver = nil
	if !ok {
		return nil
	}
	return p.root
}

// ParseFile opens the file at path and parses it as an XML plist.
func (p *Parser) ParseFile(path string, errf ErrorFunc) plist.Object {
	if p.root != nil {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errf != nil {
			errf("%v", err)
		}
		return nil
	}
	defer f.Close()

	return p.Parse(f, errf)
}

// Decode parses a single XML plist document from r, returning the first
// parse error as an error value.
func Decode(r io.Reader) (plist.Object, error) {
	var first error
	root := NewParser().Parse(r, func(format string, args ...interface{}) {
		if first == nil {
			first = fmt.Errorf(format, args...)
		}
	})
	if first != nil {
		return nil, first
	}
	return root, nil
}

// Unmarshal parses the XML plist data and returns its root object.
func Unmarshal(data []byte) (plist.Object, error) {
	return Decode(bytes.NewReader(data))
}

func (p *Parser) beginParse() {
	p.root = nil
	p.state = frame{}
	p.stack = p.stack[:0]
	p.cdata = p.cdata[:0]
}

func (p *Parser) endParse(success bool) {
	if !success {
		// Drop every object still owned by the parser so the partial
		// tree becomes unreachable.
		p.stack = nil
		p.root = nil
	}
	p.state = frame{}
	p.cdata = nil
}

func (p *Parser) startElement(name string, attrs map[string]string, depth int) {
	p.depth = depth

	if depth == 0 {
		if name != "plist" {
			p.driver.error("expecting 'plist', found '%s'", name)
			p.driver.stop()
		}
		return
	}

	// Exactly one child element is permitted inside <plist>.
	if depth == 1 && p.root != nil {
		p.driver.error("unexpected element '%s' after root element", name)
		p.driver.stop()
		return
	}

	if !p.beginObject(name) {
		p.driver.stop()
	}
}

func (p *Parser) endElement(name string, depth int) {
	p.depth = depth
	if !p.endObject(name) {
		p.driver.stop()
	}
}

func (p *Parser) characterData(cdata string, depth int) {
	if !p.expectingCDATA() {
		for _, r := range cdata {
			if !unicode.IsSpace(r) {
				p.driver.error("unexpected cdata")
				p.driver.stop()
				return
			}
		}
		return
	}

	p.cdata = append(p.cdata, cdata...)
}

func (p *Parser) inContainer() bool {
	return p.depth == 1 || p.inDictionary() || p.inArray()
}

func (p *Parser) inArray() bool {
	_, ok := plist.CastTo[*plist.Array](p.state.current)
	return ok
}

func (p *Parser) inDictionary() bool {
	_, ok := plist.CastTo[*plist.Dictionary](p.state.current)
	return ok
}

func (p *Parser) expectingKey() bool {
	return p.inDictionary() && !p.state.key.valid
}

func (p *Parser) expectingCDATA() bool {
	switch p.state.current.(type) {
	case *plist.Integer, *plist.Real, *plist.String, *plist.Data, *plist.Date:
		return true
	}
	return p.inDictionary() && p.state.key.active
}

// beginObject dispatches an element open to the matching factory. Elements
// may only begin in a container context: at depth 1, inside an array, or
// inside a dictionary that is ready for a key or a value.
func (p *Parser) beginObject(name string) bool {
	if p.inDictionary() {
		if name == "key" {
			if !p.expectingKey() {
				p.driver.error("unexpected 'key' when expecting a value in dictionary definition")
				return false
			}
			return p.beginKey()
		}
		if p.expectingKey() {
			p.driver.error("expected key, got '%s'", name)
			return false
		}
	}

	if !p.inContainer() {
		p.driver.error("unexpected '%s' element in a non-container element", name)
		return false
	}

	switch name {
	case "array":
		return p.beginArray()
	case "dict":
		return p.beginDictionary()
	case "string":
		return p.beginString()
	case "integer":
		return p.beginInteger()
	case "real":
		return p.beginReal()
	case "true":
		return p.beginBoolean(true)
	case "false":
		return p.beginBoolean(false)
	case "null":
		return p.beginNull()
	case "data":
		return p.beginData()
	case "date":
		return p.beginDate()
	}

	p.driver.error("unexpected element '%s'", name)
	return false
}

// endObject dispatches an element close. Closing the document element is a
// no-op on the stack; closing a key finalises the pending key; closing a
// leaf converts the accumulated cdata into its typed value.
func (p *Parser) endObject(name string) bool {
	switch name {
	case "plist":
		return true
	case "key":
		return p.endKey()
	case "array":
		return p.endArray()
	case "dict":
		return p.endDictionary()
	case "string":
		return p.endString()
	case "integer":
		return p.endInteger()
	case "real":
		return p.endReal()
	case "true", "false":
		return p.endBoolean()
	case "null":
		return p.endNull()
	case "data":
		return p.endData()
	case "date":
		return p.endDate()
	}

	p.driver.error("unexpected element '%s'", name)
	return false
}

// push saves the current frame on the stack and makes obj the new current
// object with a fresh key state. The first object ever pushed becomes the
// root.
func (p *Parser) push(obj plist.Object) {
	if p.state.current != nil {
		p.stack = append(p.stack, p.state)
	}
	p.state = frame{current: obj}
	if p.root == nil {
		p.root = obj
	}
}

// pop restores the parent frame and attaches the popped object to its
// parent. The root keeps its frame until end of parse.
func (p *Parser) pop() bool {
	if len(p.stack) == 0 && p.state.current == nil {
		p.driver.error("stack underflow")
		return false
	}

	if p.state.current != p.root {
		old := p.state
		p.state = p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

		if array, ok := plist.CastTo[*plist.Array](p.state.current); ok {
			array.Append(old.current)
		} else if dict, ok := plist.CastTo[*plist.Dictionary](p.state.current); ok {
			if !p.expectingKey() {
				dict.Set(p.state.key.value, old.current)
				p.state.key.valid = false
				p.state.key.active = false
			}
		}
	}

	p.cdata = p.cdata[:0]
	return true
}

func (p *Parser) beginArray() bool {
	p.push(plist.NewArray())
	return true
}

func (p *Parser) endArray() bool {
	return p.pop()
}

func (p *Parser) beginDictionary() bool {
	p.push(plist.NewDictionary())
	return true
}

func (p *Parser) endDictionary() bool {
	if p.state.key.active || p.state.key.valid {
		p.driver.error("missing value for key '%s' in dictionary definition", p.state.key.value)
		return false
	}
	return p.pop()
}

func (p *Parser) beginString() bool {
	p.push(plist.NewString())
	p.cdata = p.cdata[:0]
	return true
}

func (p *Parser) endString() bool {
	str, ok := plist.CastTo[*plist.String](p.state.current)
	if !ok {
		p.driver.error("mismatched 'string' end element")
		return false
	}
	str.SetValue(string(p.cdata))
	return p.pop()
}

func (p *Parser) beginInteger() bool {
	p.push(plist.NewInteger())
	p.cdata = p.cdata[:0]
	return true
}

func (p *Parser) endInteger() bool {
	integer, ok := plist.CastTo[*plist.Integer](p.state.current)
	if !ok {
		p.driver.error("mismatched 'integer' end element")
		return false
	}
	text := strings.TrimSpace(string(p.cdata))
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		p.driver.error("invalid integer value '%s'", text)
		return false
	}
	integer.SetValue(value)
	return p.pop()
}

func (p *Parser) beginReal() bool {
	p.push(plist.NewReal())
	p.cdata = p.cdata[:0]
	return true
}

func (p *Parser) endReal() bool {
	real, ok := plist.CastTo[*plist.Real](p.state.current)
	if !ok {
		p.driver.error("mismatched 'real' end element")
		return false
	}
	text := strings.TrimSpace(string(p.cdata))
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.driver.error("invalid real value '%s'", text)
		return false
	}
	real.SetValue(value)
	return p.pop()
}

func (p *Parser) beginBoolean(value bool) bool {
	p.push(plist.NewBoolean(value))
	return true
}

func (p *Parser) endBoolean() bool {
	return p.pop()
}

func (p *Parser) beginNull() bool {
	p.push(plist.NewNull())
	return true
}

func (p *Parser) endNull() bool {
	return p.pop()
}

func (p *Parser) beginData() bool {
	p.push(plist.NewData())
	p.cdata = p.cdata[:0]
	return true
}

func (p *Parser) endData() bool {
	data, ok := plist.CastTo[*plist.Data](p.state.current)
	if !ok {
		p.driver.error("mismatched 'data' end element")
		return false
	}
	if err := data.SetBase64Value(string(p.cdata)); err != nil {
		p.driver.error("invalid base64 data: %v", err)
		return false
	}
	return p.pop()
}

func (p *Parser) beginDate() bool {
	p.push(plist.NewDate())
	p.cdata = p.cdata[:0]
	return true
}

func (p *Parser) endDate() bool {
	date, ok := plist.CastTo[*plist.Date](p.state.current)
	if !ok {
		p.driver.error("mismatched 'date' end element")
		return false
	}
	text := strings.TrimSpace(string(p.cdata))
	if err := date.SetStringValue(text); err != nil {
		p.driver.error("invalid date value '%s'", text)
		return false
	}
	return p.pop()
}

func (p *Parser) beginKey() bool {
	p.state.key.active = true
	p.state.key.valid = false
	p.cdata = p.cdata[:0]
	return true
}

func (p *Parser) endKey() bool {
	p.state.key.active = false
	p.state.key.valid = true
	p.state.key.value = string(p.cdata)
	p.cdata = p.cdata[:0]
	return true
}
