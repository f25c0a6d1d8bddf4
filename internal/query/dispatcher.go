package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"htmlsanitize.dev/internal/assetcache"
	"htmlsanitize.dev/internal/cdn"
	"htmlsanitize.dev/internal/sanitize"
	"htmlsanitize.dev/internal/store"
)

// EntityStore is the read-only subset of store.Queries the dispatcher needs.
type EntityStore interface {
	GetBotLongDescription(ctx context.Context, botID string) (store.LongDescription, error)
	GetServerLongDescription(ctx context.Context, serverID string) (store.LongDescription, error)
	GetBlogContent(ctx context.Context, slug string) (string, error)
}

// AssetSource reads registered static assets. Unregistered names must fail
// with an error wrapping cdn.ErrUnknownAsset.
type AssetSource interface {
	Read(name string) ([]byte, error)
}

// Dispatcher resolves a Query to its raw text and runs it through the
// sanitization pipeline.
type Dispatcher struct {
	entities  EntityStore
	assets    AssetSource
	cache     *assetcache.Cache
	sanitizer *sanitize.Sanitizer
}

func NewDispatcher(entities EntityStore, assets AssetSource, cache *assetcache.Cache, sanitizer *sanitize.Sanitizer) *Dispatcher {
	return &Dispatcher{
		entities:  entities,
		assets:    assets,
		cache:     cache,
		sanitizer: sanitizer,
	}
}

// Execute returns the sanitized HTML for q.
func (d *Dispatcher) Execute(ctx context.Context, q Query) (string, error) {
	switch q := q.(type) {
	case SanitizeRaw:
		return d.sanitizer.Render(q.Body), nil
	case SanitizeTemplate:
		return d.sanitizer.Template(q.Body, q.ExtraLinks), nil
	case BotLongDescription:
		row, err := d.entities.GetBotLongDescription(ctx, q.BotID)
		if err != nil {
			return "", entityError("bot", q.BotID, err)
		}
		return d.longDescription("bot", q.BotID, row)
	case ServerLongDescription:
		row, err := d.entities.GetServerLongDescription(ctx, q.ServerID)
		if err != nil {
			return "", entityError("server", q.ServerID, err)
		}
		return d.longDescription("server", q.ServerID, row)
	case BlogPost:
		content, err := d.entities.GetBlogContent(ctx, q.Slug)
		if err != nil {
			return "", entityError("blog post", q.Slug, err)
		}
		return d.sanitizer.Render(content), nil
	case SanitizeCDN:
		return d.asset(q.Name)
	default:
		return "", fmt.Errorf("%w: unsupported variant %T", ErrBadRequest, q)
	}
}

func (d *Dispatcher) longDescription(kind, id string, row store.LongDescription) (string, error) {
	vars, err := decodeVariables(row.ExtraLinks)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w: %w", kind, id, ErrDecode, err)
	}
	return d.sanitizer.Template(row.Long, vars), nil
}

func (d *Dispatcher) asset(name string) (string, error) {
	if html, ok := d.cache.Get(name); ok {
		return html, nil
	}

	data, err := d.assets.Read(name)
	if err != nil {
		if errors.Is(err, cdn.ErrUnknownAsset) {
			return "", fmt.Errorf("%w: %q", ErrUnregistered, name)
		}
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}

	html := d.sanitizer.Render(string(data))
	d.cache.Insert(name, html)
	return html, nil
}

// decodeVariables parses a stored extra_links column. A NULL or empty column
// means no variables.
func decodeVariables(raw []byte) ([]sanitize.Variable, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var vars []sanitize.Variable
	if err := json.Unmarshal(raw, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}

func entityError(kind, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w: %w", kind, id, ErrUpstream, err)
}
