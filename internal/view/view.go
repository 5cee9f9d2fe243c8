// Package view maintains a queryable SQL projection of the replication
// log: one row per message plus extracted link and author tables. The
// view is derived state; it can always be dropped and rebuilt by
// replaying the log.
package view

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/offlog/legacyview/internal/message"
	"github.com/offlog/legacyview/internal/privatebox"
	"github.com/offlog/legacyview/pkg/legacy"
)

// View is a SQL projection of the log.
type View struct {
	db     *sql.DB
	keys   []privatebox.SecretKey
	logger *zap.Logger
}

// Item is one log entry: its sequence in the log and the raw message
// bytes as received.
type Item struct {
	Seq int64
	Raw []byte
}

// Open opens (creating if needed) the view database at path. Keys are
// tried in order when unsealing private content; with no keys, private
// content is indexed as null.
func Open(path string, unboxKeys []privatebox.SecretKey, logger *zap.Logger) (*View, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open view database '%s': %w", path, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize view schema: %w", err)
	}

	logger = logger.With(zap.String("component", "sql-view"))
	logger.Info("View database opened",
		zap.String("path", path),
		zap.Int("unbox_keys", len(unboxKeys)),
	)

	return &View{db: db, keys: unboxKeys, logger: logger}, nil
}

// Close releases the database handle.
func (v *View) Close() error {
	return v.db.Close()
}

// AppendBatch appends log items inside a single transaction. Either the
// whole batch becomes visible or none of it does.
func (v *View) AppendBatch(ctx context.Context, items []Item) error {
	v.logger.Debug("Start batch append", zap.Int("items", len(items)))

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range items {
		if err := v.appendItem(ctx, tx, item.Seq, item.Raw); err != nil {
			return &AppendError{Seq: item.Seq, Err: err}
		}
	}

	return tx.Commit()
}

// Append appends a single log item.
func (v *View) Append(ctx context.Context, seq int64, raw []byte) error {
	return v.AppendBatch(ctx, []Item{{Seq: seq, Raw: raw}})
}

func (v *View) appendItem(ctx context.Context, tx *sql.Tx, seq int64, raw []byte) error {
	m, err := message.Parse(raw)
	if err != nil {
		return err
	}

	isDecrypted := false
	if m.IsPrivate() {
		if content, ok := v.unseal(m.Content.Str); ok {
			m.Content = content
			isDecrypted = true
		} else {
			// Not addressed to us (or undecodable): index the row but
			// drop the content.
			m.Content = &legacy.Value{Kind: legacy.Null}
		}
	}

	for _, link := range m.Links() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (flume_seq, link_from, link_to) VALUES (?, ?, ?)`,
			seq, m.Key, link,
		); err != nil {
			return err
		}
	}

	authorID, err := findOrCreateAuthor(ctx, tx, m.Author)
	if err != nil {
		return err
	}

	content, err := legacy.Encode(m.Content)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages
		   (id, key, seq, received_time, asserted_time, root, branch, fork,
		    author_id, content_type, content, is_decrypted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, m.Key, m.Sequence, m.ReceivedAt, m.AssertedAt,
		contentString(m.Content, "root"),
		contentString(m.Content, "branch"),
		contentString(m.Content, "fork"),
		authorID, nullableType(m), string(content), isDecrypted,
	)
	return err
}

// unseal base64-decodes .box content and tries each configured key.
func (v *View) unseal(boxed string) (*legacy.Value, bool) {
	sealed, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(boxed, ".box"))
	if err != nil {
		return nil, false
	}

	for _, key := range v.keys {
		plain, ok := privatebox.Open(sealed, key)
		if !ok {
			continue
		}
		content, err := legacy.Parse(plain)
		if err != nil {
			v.logger.Warn("Unsealed content is not a valid document", zap.Error(err))
			return nil, false
		}
		return content, true
	}
	return nil, false
}

func findOrCreateAuthor(ctx context.Context, tx *sql.Tx, author string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM authors WHERE author = ?`, author).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO authors (author) VALUES (?)`, author)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func contentString(content *legacy.Value, key string) any {
	if field := content.Get(key); field.IsString() {
		return field.Str
	}
	return nil
}

func nullableType(m *message.Message) any {
	if t := m.ContentType(); t != "" {
		return t
	}
	return nil
}

// SeqByKey returns the log sequence of the message with the given key.
func (v *View) SeqByKey(ctx context.Context, key string) (int64, error) {
	var seq int64
	err := v.db.QueryRowContext(ctx, `SELECT id FROM messages WHERE key = ?`, key).Scan(&seq)
	if err == sql.ErrNoRows {
		return 0, &KeyNotFoundError{Key: key}
	}
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// SeqsByType returns the log sequences of all messages with the given
// content type, in log order.
func (v *View) SeqsByType(ctx context.Context, contentType string) ([]int64, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT id FROM messages WHERE content_type = ? ORDER BY id`, contentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seqs []int64
	for rows.Next() {
		var seq int64
		if err := rows.Scan(&seq); err != nil {
			return nil, err
		}
		seqs = append(seqs, seq)
	}
	return seqs, rows.Err()
}

// LinksTo returns the keys of messages that link to the given target.
func (v *View) LinksTo(ctx context.Context, target string) ([]string, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT link_from FROM links WHERE link_to = ? ORDER BY flume_seq`, target)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var froms []string
	for rows.Next() {
		var from string
		if err := rows.Scan(&from); err != nil {
			return nil, err
		}
		froms = append(froms, from)
	}
	return froms, rows.Err()
}

// Latest returns the highest log sequence in the view, or 0 when the
// view is empty.
func (v *View) Latest(ctx context.Context) (int64, error) {
	var latest int64
	err := v.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM messages`).Scan(&latest)
	if err != nil {
		return 0, err
	}
	return latest, nil
}

// CheckIntegrity runs the database's own integrity check.
func (v *View) CheckIntegrity(ctx context.Context) error {
	var result string
	if err := v.db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return &IntegrityError{Result: result}
	}
	return nil
}
