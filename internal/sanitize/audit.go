package sanitize

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Violation is a tag or attribute found in HTML that the policy forbids.
type Violation struct {
	Tag  string
	Attr string
}

func (v Violation) String() string {
	if v.Attr == "" {
		return fmt.Sprintf("<%s>", v.Tag)
	}
	return fmt.Sprintf("<%s %s>", v.Tag, v.Attr)
}

// Audit parses src as an HTML fragment and lists every element or attribute
// p does not allow. Sanitized output always audits clean.
func Audit(p Policy, src string) ([]Violation, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, err
	}

	var out []Violation
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if !p.AllowsTag(n.Data) {
				out = append(out, Violation{Tag: n.Data})
			}
			for _, a := range n.Attr {
				if !p.AllowsAttr(n.Data, a.Key) {
					out = append(out, Violation{Tag: n.Data, Attr: a.Key})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out, nil
}
