package store

import "context"

const getBotLongDescription = `SELECT long, extra_links FROM bots WHERE bot_id = $1`

// LongDescription is the long text of a bot or server along with the raw
// JSON of its template variables.
type LongDescription struct {
	Long       string
	ExtraLinks []byte
}

func (q *Queries) GetBotLongDescription(ctx context.Context, botID string) (LongDescription, error) {
	row := q.db.QueryRow(ctx, getBotLongDescription, botID)
	var i LongDescription
	err := row.Scan(&i.Long, &i.ExtraLinks)
	return i, err
}

const getServerLongDescription = `SELECT long, extra_links FROM servers WHERE server_id = $1`

func (q *Queries) GetServerLongDescription(ctx context.Context, serverID string) (LongDescription, error) {
	row := q.db.QueryRow(ctx, getServerLongDescription, serverID)
	var i LongDescription
	err := row.Scan(&i.Long, &i.ExtraLinks)
	return i, err
}

const getBlogContent = `SELECT content FROM blogs WHERE slug = $1`

func (q *Queries) GetBlogContent(ctx context.Context, slug string) (string, error) {
	row := q.db.QueryRow(ctx, getBlogContent, slug)
	var content string
	err := row.Scan(&content)
	return content, err
}
