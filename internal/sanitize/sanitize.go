package sanitize

import (
	"github.com/microcosm-cc/bluemonday"

	"htmlsanitize.dev/internal/markdown"
)

// Sanitizer applies a Policy to HTML. It is safe for concurrent use.
type Sanitizer struct {
	policy Policy
	bm     *bluemonday.Policy
}

// New compiles p into a Sanitizer. It panics if p does not validate; the
// policy is fixed at start-up.
func New(p Policy) *Sanitizer {
	if err := p.Validate(); err != nil {
		panic("sanitize: " + err.Error())
	}

	bm := bluemonday.NewPolicy()

	bm.AllowElements(p.Tags...)
	// bluemonday drops some elements when no attributes are left on them.
	// Anything on the allow-list stays, with or without attributes.
	bm.AllowNoAttrs().OnElements(p.Tags...)

	if len(p.GenericAttributes) > 0 {
		bm.AllowAttrs(p.GenericAttributes...).Globally()
	}
	for tag, attrs := range p.TagAttributes {
		bm.AllowAttrs(attrs...).OnElements(tag)
	}

	bm.RequireParseableURLs(true)
	bm.AllowRelativeURLs(true)
	bm.AllowURLSchemes(p.URLSchemes...)

	if p.NoReferrer {
		bm.RequireNoReferrerOnLinks(true)
	}

	// bluemonday skips the content of a few non raw text elements by
	// default. Those are unwrapped like any other disallowed tag.
	bm.AllowElementsContent("frame", "frameset", "nostyle", "object")
	bm.SkipElementsContent(p.CleanContentTags...)

	return &Sanitizer{policy: p, bm: bm}
}

// Policy returns the policy s was built from.
func (s *Sanitizer) Policy() Policy {
	return s.policy
}

// Sanitize strips everything from html that the policy does not allow.
func (s *Sanitizer) Sanitize(html string) string {
	return s.bm.Sanitize(html)
}

// Render converts Markdown (which may embed raw HTML) to sanitized HTML.
func (s *Sanitizer) Render(src string) string {
	return s.Sanitize(markdown.Render(src))
}

// Template substitutes vars into body and renders the result.
func (s *Sanitizer) Template(body string, vars []Variable) string {
	return s.Render(Substitute(body, vars))
}
