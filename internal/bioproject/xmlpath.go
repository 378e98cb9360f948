// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bioproject

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element of a decoded XML document. The resolver works on a
// generic tree rather than fixed structs because BioProject documents vary
// in which sections they carry.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// ParseDocument decodes an XML document into a Node tree rooted at the
// document element.
func ParseDocument(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	root := &Node{Name: "#document", Attrs: map[string]string{}}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].Text += string(t)
		}
	}

	if len(root.Children) == 0 {
		return nil, fmt.Errorf("document contains no elements")
	}
	return root, nil
}

// InnerText returns the concatenated character data of the node's subtree.
func (n *Node) InnerText() string {
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	b.WriteString(n.Text)
	for _, c := range n.Children {
		c.collectText(b)
	}
}

// step is one segment of a path expression: an element name with an
// optional [@attr='value'] predicate.
type step struct {
	name     string
	predAttr string
	predVal  string
}

// path is a parsed expression: an element chain, optionally terminated by
// an attribute read.
type path struct {
	steps []step
	attr  string
}

// parsePath parses expressions of the form
//
//	Elem/Sub[@attr='v']/Leaf
//	Elem/Sub/@attr
//
// The chain is matched anywhere in the document; the first match in
// document order wins.
func parsePath(expr string) (path, error) {
	var p path
	for _, seg := range strings.Split(expr, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "@") {
			p.attr = seg[1:]
			continue
		}
		s := step{name: seg}
		if i := strings.Index(seg, "["); i >= 0 {
			pred := strings.TrimSuffix(seg[i+1:], "]")
			s.name = seg[:i]
			pred = strings.TrimPrefix(pred, "@")
			if eq := strings.Index(pred, "="); eq >= 0 {
				s.predAttr = pred[:eq]
				s.predVal = strings.Trim(pred[eq+1:], "'\"")
			}
		}
		p.steps = append(p.steps, s)
	}
	if len(p.steps) == 0 && p.attr == "" {
		return p, fmt.Errorf("empty path expression")
	}
	return p, nil
}

// Lookup evaluates a path expression against the tree and returns the
// trimmed text content (or attribute value) of the first match. A path
// that matches nothing returns ok=false, never an error: upstream
// documents are not guaranteed to contain every section.
func Lookup(root *Node, expr string) (string, bool) {
	p, err := parsePath(expr)
	if err != nil {
		return "", false
	}

	target := findFirst(root, p.steps)
	if target == nil {
		return "", false
	}

	if p.attr != "" {
		v, ok := target.Attrs[p.attr]
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), true
	}
	return strings.TrimSpace(target.InnerText()), true
}

// findFirst walks the tree in document order and returns the terminal
// element of the first subtree matching the step chain.
func findFirst(n *Node, steps []step) *Node {
	if len(steps) == 0 {
		return nil
	}
	for _, c := range n.Children {
		if m := matchChain(c, steps); m != nil {
			return m
		}
		if m := findFirst(c, steps); m != nil {
			return m
		}
	}
	return nil
}

// matchChain checks whether n matches steps[0] and its descendants match
// the remaining steps as a strict parent/child chain.
func matchChain(n *Node, steps []step) *Node {
	s := steps[0]
	if n.Name != s.name {
		return nil
	}
	if s.predAttr != "" && n.Attrs[s.predAttr] != s.predVal {
		return nil
	}
	if len(steps) == 1 {
		return n
	}
	for _, c := range n.Children {
		if m := matchChain(c, steps[1:]); m != nil {
			return m
		}
	}
	return nil
}
