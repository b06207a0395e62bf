// Package xmlio loads XML text into the internal/adapter/simple tree
// so cmd/xpathlite has something to evaluate expressions against —
// the core engine itself never parses XML (spec.md §1/§6 non-goal).
//
// Grounded on gogo-agent-xmldom's Decoder (a stdlib encoding/xml
// token loop pushed through a DOM-builder stack, plus
// golang.org/x/text/encoding/ianaindex for non-UTF-8 CharsetReader
// support); rewritten here to build internal/adapter/simple nodes
// instead of a DOM4 tree, and without xmldom's validation-heavy XML
// Namespaces conformance checks (this package trusts well-formed
// input, spec.md §1's assumption that the tree-adapter boundary
// already enforces shape).
package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/funvibe/xpathlite/internal/adapter/simple"
)

// Load parses one well-formed XML document from r and returns its
// document-node root.
func Load(r io.Reader) (*simple.Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("xmlio: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	doc := simple.NewDocument()
	stack := []*simple.Node{doc.Root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmlio: %w", err)
		}

		parent := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			elem := doc.AddElement(parent, t.Name.Local, t.Name.Space)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					doc.AddNamespace(elem, a.Name.Local, a.Value)
					continue
				}
				if a.Name.Space == "" && a.Name.Local == "xmlns" {
					doc.AddNamespace(elem, "", a.Value)
					continue
				}
				doc.SetAttributeNS(elem, a.Name.Space, a.Name.Local, a.Value)
			}
			stack = append(stack, elem)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			doc.AddText(parent, string(t))

		case xml.Comment:
			doc.AddComment(parent, string(t))

		case xml.ProcInst:
			if strings.EqualFold(t.Target, "xml") {
				continue
			}
			doc.AddPI(parent, t.Target, string(t.Inst))
		}
	}

	return doc.Root, nil
}
