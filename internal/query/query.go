package query

import (
	"encoding/json"
	"fmt"
	"io"

	"htmlsanitize.dev/internal/sanitize"
)

// Query is one of the request variants below. The set is closed: only types
// in this package implement it.
type Query interface {
	// Kind is the variant name used as the JSON tag.
	Kind() string
	isQuery()
}

// SanitizeRaw sanitizes a literal Markdown/HTML body.
type SanitizeRaw struct {
	Body string `json:"body"`
}

// SanitizeTemplate fills placeholders in Body before sanitizing it.
type SanitizeTemplate struct {
	Body       string              `json:"body"`
	ExtraLinks []sanitize.Variable `json:"extra_links"`
}

// BotLongDescription sanitizes a bot's long description with its stored
// variables applied.
type BotLongDescription struct {
	BotID string `json:"bot_id"`
}

// ServerLongDescription sanitizes a server's long description with its
// stored variables applied.
type ServerLongDescription struct {
	ServerID string `json:"server_id"`
}

// BlogPost sanitizes a blog post. No variables are applied.
type BlogPost struct {
	Slug string `json:"slug"`
}

// SanitizeCDN sanitizes a registered static asset.
type SanitizeCDN struct {
	Name string `json:"name"`
}

func (SanitizeRaw) Kind() string           { return "SanitizeRaw" }
func (SanitizeTemplate) Kind() string      { return "SanitizeTemplate" }
func (BotLongDescription) Kind() string    { return "BotLongDescription" }
func (ServerLongDescription) Kind() string { return "ServerLongDescription" }
func (BlogPost) Kind() string              { return "BlogPost" }
func (SanitizeCDN) Kind() string           { return "SanitizeCDN" }

func (SanitizeRaw) isQuery()           {}
func (SanitizeTemplate) isQuery()      {}
func (BotLongDescription) isQuery()    {}
func (ServerLongDescription) isQuery() {}
func (BlogPost) isQuery()              {}
func (SanitizeCDN) isQuery()           {}

// Decode reads a single externally tagged query such as
// {"SanitizeRaw": {"body": "..."}}.
func Decode(r io.Reader) (Query, error) {
	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if len(envelope) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one variant, got %d", ErrBadRequest, len(envelope))
	}

	var kind string
	var raw json.RawMessage
	for k, v := range envelope {
		kind, raw = k, v
	}

	var q Query
	var err error
	switch kind {
	case "SanitizeRaw":
		q, err = decodeVariant[SanitizeRaw](raw)
	case "SanitizeTemplate":
		q, err = decodeVariant[SanitizeTemplate](raw)
	case "BotLongDescription":
		q, err = decodeVariant[BotLongDescription](raw)
	case "ServerLongDescription":
		q, err = decodeVariant[ServerLongDescription](raw)
	case "BlogPost":
		q, err = decodeVariant[BlogPost](raw)
	case "SanitizeCDN":
		q, err = decodeVariant[SanitizeCDN](raw)
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrBadRequest, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadRequest, kind, err)
	}
	return q, nil
}

func decodeVariant[T Query](raw json.RawMessage) (Query, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Encode writes q in the format Decode accepts.
func Encode(q Query) ([]byte, error) {
	return json.Marshal(map[string]Query{q.Kind(): q})
}
