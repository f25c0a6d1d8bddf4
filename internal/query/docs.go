package query

import (
	"encoding/json"

	"htmlsanitize.dev/internal/sanitize"
)

// Field describes one JSON field of a variant.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Variant describes one Query variant for API consumers.
type Variant struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Fields      []Field         `json:"fields"`
	Errors      []string        `json:"errors,omitempty"`
	Example     json.RawMessage `json:"example"`
}

func example(q Query) json.RawMessage {
	data, err := Encode(q)
	if err != nil {
		panic(err)
	}
	return data
}

// Describe lists every variant Decode accepts.
func Describe() []Variant {
	return []Variant{
		{
			Name:        SanitizeRaw{}.Kind(),
			Description: "Sanitize a raw unparsed Markdown/HTML string",
			Fields:      []Field{{"body", "string"}},
			Example:     example(SanitizeRaw{Body: "# Hello\n\nSome **text**"}),
		},
		{
			Name:        SanitizeTemplate{}.Kind(),
			Description: "Sanitize a raw unparsed Markdown/HTML string after substituting {name} placeholders",
			Fields:      []Field{{"body", "string"}, {"extra_links", "[{name: string, value: string}]"}},
			Example:     example(SanitizeTemplate{Body: "Join {invite}", ExtraLinks: []sanitize.Variable{{Name: "invite", Value: "https://example.com/invite"}}}),
		},
		{
			Name:        BotLongDescription{}.Kind(),
			Description: "Sanitize the long description of a bot with its extra links applied",
			Fields:      []Field{{"bot_id", "string"}},
			Errors:      []string{ErrNotFound.Error(), ErrDecode.Error(), ErrUpstream.Error()},
			Example:     example(BotLongDescription{BotID: "123456789"}),
		},
		{
			Name:        ServerLongDescription{}.Kind(),
			Description: "Sanitize the long description of a server with its extra links applied",
			Fields:      []Field{{"server_id", "string"}},
			Errors:      []string{ErrNotFound.Error(), ErrDecode.Error(), ErrUpstream.Error()},
			Example:     example(ServerLongDescription{ServerID: "123456789"}),
		},
		{
			Name:        BlogPost{}.Kind(),
			Description: "Sanitize a blog post",
			Fields:      []Field{{"slug", "string"}},
			Errors:      []string{ErrNotFound.Error(), ErrUpstream.Error()},
			Example:     example(BlogPost{Slug: "hello-world"}),
		},
		{
			Name:        SanitizeCDN{}.Kind(),
			Description: "Sanitize a registered static asset",
			Fields:      []Field{{"name", "string"}},
			Errors:      []string{ErrUnregistered.Error(), ErrIO.Error()},
			Example:     example(SanitizeCDN{Name: "changelogs"}),
		},
	}
}
