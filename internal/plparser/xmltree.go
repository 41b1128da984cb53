package plparser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// xmlNode is an element of a leniently parsed document. Element and
// attribute names are lower-cased local names, so "ASX", "Asx" and "asx"
// compare equal and "itunes:author" is found as "author".
type xmlNode struct {
	name     string
	space    string
	attrs    map[string]string
	text     strings.Builder
	children []*xmlNode
}

var errNoRoot = errors.New("document has no root element")

// parseXML builds a tree from data. Playlists in the wild are rarely
// well-formed: undeclared entities, bare ampersands, unquoted attributes and
// unclosed elements are all accepted, and a document cut short returns the
// part that was read.
func parseXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charsetReader

	var root *xmlNode
	var stack []*xmlNode
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if root != nil {
				return root, nil
			}
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{
				name:  strings.ToLower(t.Name.Local),
				space: t.Name.Space,
				attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				key := strings.ToLower(a.Name.Local)
				if _, dup := n.attrs[key]; !dup {
					n.attrs[key] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					// A second top-level element ends the document.
					return root, nil
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			name := strings.ToLower(t.Name.Local)
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == name {
					stack = stack[:i]
					break
				}
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func (n *xmlNode) attr(name string) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.attrs[name])
}

// value returns the trimmed character data directly inside n.
func (n *xmlNode) value() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.text.String())
}

func (n *xmlNode) child(name string) *xmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *xmlNode) childrenNamed(name string) []*xmlNode {
	if n == nil {
		return nil
	}
	var out []*xmlNode
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// childValue returns the text of the first child called name that has any.
func (n *xmlNode) childValue(name string) string {
	if n == nil {
		return ""
	}
	for _, c := range n.children {
		if c.name == name {
			if v := c.value(); v != "" {
				return v
			}
		}
	}
	return ""
}
