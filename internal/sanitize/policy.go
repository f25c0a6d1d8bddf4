package sanitize

import (
	"fmt"
	"slices"
)

// rawTextElements are read by the HTML tokenizer as plain text up to their
// own end tag, so nothing inside them can close them early.
var rawTextElements = []string{
	"iframe", "noembed", "noframes", "noscript", "plaintext", "script",
	"style", "textarea", "title", "xmp",
}

// Policy is the allow-list every piece of output HTML is held to. It is
// built once at start-up and must not be modified afterwards.
type Policy struct {
	// Tags that survive sanitization.
	Tags []string
	// CleanContentTags are removed together with everything inside them when
	// they are not allowed. Other disallowed tags are unwrapped. Only raw
	// text elements may be listed; see Validate.
	CleanContentTags []string
	// GenericAttributes are allowed on every allowed tag.
	GenericAttributes []string
	// TagAttributes extends GenericAttributes for individual tags.
	TagAttributes map[string][]string
	// URLSchemes accepted in href/src/cite style attributes. Relative URLs
	// are always accepted.
	URLSchemes []string
	// NoReferrer forces rel="noreferrer" onto every link with an href.
	NoReferrer bool
}

// DefaultPolicy returns the policy used by the service.
func DefaultPolicy() Policy {
	return Policy{
		Tags: []string{
			"a", "abbr", "acronym", "area", "article", "aside", "b", "bdi",
			"bdo", "blockquote", "br", "caption", "center", "cite", "code",
			"col", "colgroup", "data", "dd", "del", "details", "dfn", "div",
			"dl", "dt", "em", "figcaption", "figure", "footer", "h1", "h2",
			"h3", "h4", "h5", "h6", "header", "hgroup", "hr", "i", "img",
			"ins", "kbd", "lang", "li", "map", "mark", "nav", "ol", "p", "pre",
			"q", "rp", "rt", "rtc", "ruby", "s", "samp", "section", "small",
			"span", "strike", "strong", "sub", "summary", "sup", "table",
			"tbody", "td", "tfoot", "th", "thead", "time", "tr", "tt", "u",
			"ul", "var", "video", "wbr",
		},
		CleanContentTags: []string{
			"script", "style", "iframe", "noscript", "noembed", "noframes",
			"textarea", "title", "xmp",
		},
		GenericAttributes: []string{
			"id", "class", "style", "lang", "title", "code",
			"data-src",
			"data-background-image",
			"data-background-image-set",
			"data-background-delimiter",
			"data-icon",
			"data-inline",
			"data-height",
		},
		TagAttributes: map[string][]string{
			"a":          {"href", "hreflang"},
			"area":       {"alt", "coords", "href", "hreflang", "shape"},
			"bdo":        {"dir"},
			"blockquote": {"cite"},
			"col":        {"align", "char", "charoff", "span"},
			"colgroup":   {"align", "char", "charoff", "span"},
			"del":        {"cite", "datetime"},
			"hr":         {"align", "size", "width"},
			"img": {
				"src", "alt", "align", "width", "height", "crossorigin",
				"referrerpolicy", "sizes", "srcset",
			},
			"ins":   {"cite", "datetime"},
			"map":   {"name"},
			"ol":    {"start"},
			"q":     {"cite"},
			"table": {"align", "char", "charoff", "summary"},
			"tbody": {"align", "char", "charoff"},
			"td":    {"align", "char", "charoff", "colspan", "headers", "rowspan"},
			"tfoot": {"align", "char", "charoff"},
			"th":    {"align", "char", "charoff", "colspan", "headers", "rowspan", "scope"},
			"thead": {"align", "char", "charoff"},
			"tr":    {"align", "char", "charoff"},
			"ul":    {"type"},
			"video": {"src", "poster", "width", "height", "controls", "loop", "muted"},
		},
		URLSchemes: []string{
			"bitcoin", "ftp", "ftps", "geo", "http", "https", "im", "irc",
			"ircs", "magnet", "mailto", "mms", "mx", "news", "nntp",
			"openpgp4fpr", "sip", "sms", "smsto", "ssh", "tel", "url",
			"webcal", "wtai", "xmpp",
		},
		NoReferrer: true,
	}
}

// Validate checks that every clean-content tag is a raw text element.
// Content removal is token based, and for any other element a stray end tag
// could end the removal before the element's real end.
func (p Policy) Validate() error {
	for _, tag := range p.CleanContentTags {
		if !slices.Contains(rawTextElements, tag) {
			return fmt.Errorf("clean-content tag %q is not a raw text element", tag)
		}
	}
	return nil
}

// AllowsTag reports whether tag may appear in sanitized output.
func (p Policy) AllowsTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// AllowsAttr reports whether attr may appear on tag in sanitized output.
func (p Policy) AllowsAttr(tag, attr string) bool {
	if slices.Contains(p.GenericAttributes, attr) {
		return true
	}
	if attr == "rel" && p.NoReferrer && (tag == "a" || tag == "area") {
		return true
	}
	return slices.Contains(p.TagAttributes[tag], attr)
}
