package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Jamie-38/irc-message-relay/internal/events"
	"github.com/Jamie-38/irc-message-relay/internal/ircmsg"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

const schema = `
create table if not exists messages (
	id          text primary key,
	received_at text not null,
	kind        text not null,
	msg_key     text not null,
	extended    integer not null,
	tags        text not null,
	prefix      text not null,
	command     text not null,
	params      text not null,
	trail       text not null
);
create index if not exists messages_key_time on messages (msg_key, received_at);
create index if not exists messages_time on messages (received_at);
`

// fixed width so text order is time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type row struct {
	ID         string `db:"id"`
	ReceivedAt string `db:"received_at"`
	Kind       string `db:"kind"`
	Key        string `db:"msg_key"`
	Extended   bool   `db:"extended"`
	Tags       string `db:"tags"`
	Prefix     string `db:"prefix"`
	Command    string `db:"command"`
	Params     string `db:"params"`
	Trail      string `db:"trail"`
}

// Archive stores envelopes in SQLite. Saves are keyed on the envelope id so
// a redelivered Kafka message is stored once.
type Archive struct {
	db *sqlx.DB
	lg *slog.Logger
}

func Open(dsn string) (*Archive, error) {
	if dsn == "" {
		return nil, errors.New("archive: empty dsn")
	}
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("archive: connect %q: %w", dsn, err)
	}
	// one writer; also keeps ":memory:" on a single database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: migrate: %w", err)
	}

	return &Archive{db: db, lg: observe.C("archive").With("dsn", dsn)}, nil
}

func (a *Archive) Close() error { return a.db.Close() }

// Save reports whether the envelope was new.
func (a *Archive) Save(ctx context.Context, env events.Envelope) (bool, error) {
	tags, err := json.Marshal(env.Tags)
	if err != nil {
		return false, fmt.Errorf("archive: encode tags: %w", err)
	}
	params, err := json.Marshal(env.Params)
	if err != nil {
		return false, fmt.Errorf("archive: encode params: %w", err)
	}

	r := row{
		ID:         env.ID,
		ReceivedAt: env.ReceivedAt.UTC().Format(timeLayout),
		Kind:       env.Kind(),
		Key:        env.Key(),
		Extended:   env.Extended,
		Tags:       string(tags),
		Prefix:     env.Prefix,
		Command:    env.Command,
		Params:     string(params),
		Trail:      env.Trail,
	}
	res, err := a.db.NamedExecContext(ctx, `insert or ignore into messages
		(id, received_at, kind, msg_key, extended, tags, prefix, command, params, trail)
		values (:id, :received_at, :kind, :msg_key, :extended, :tags, :prefix, :command, :params, :trail)`, r)
	if err != nil {
		return false, fmt.Errorf("archive: insert %s: %w", env.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("archive: insert %s: %w", env.ID, err)
	}
	return n == 1, nil
}

// Recent returns the newest envelopes first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]events.Envelope, error) {
	var rows []row
	if err := a.db.SelectContext(ctx, &rows,
		`select * from messages order by received_at desc, id limit ?`, limit); err != nil {
		return nil, fmt.Errorf("archive: recent: %w", err)
	}
	return toEnvelopes(rows)
}

func (a *Archive) ByKey(ctx context.Context, key string, limit int) ([]events.Envelope, error) {
	var rows []row
	if err := a.db.SelectContext(ctx, &rows,
		`select * from messages where msg_key = ? order by received_at desc, id limit ?`, key, limit); err != nil {
		return nil, fmt.Errorf("archive: by key %q: %w", key, err)
	}
	return toEnvelopes(rows)
}

func toEnvelopes(rows []row) ([]events.Envelope, error) {
	out := make([]events.Envelope, 0, len(rows))
	for _, r := range rows {
		env, err := r.envelope()
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

func (r row) envelope() (events.Envelope, error) {
	at, err := time.Parse(timeLayout, r.ReceivedAt)
	if err != nil {
		return events.Envelope{}, fmt.Errorf("archive: row %s: received_at: %w", r.ID, err)
	}
	var tags []ircmsg.Tag
	if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
		return events.Envelope{}, fmt.Errorf("archive: row %s: tags: %w", r.ID, err)
	}
	var params []string
	if err := json.Unmarshal([]byte(r.Params), &params); err != nil {
		return events.Envelope{}, fmt.Errorf("archive: row %s: params: %w", r.ID, err)
	}

	var m ircmsg.Message
	if r.Extended {
		m = ircmsg.NewExtended(ircmsg.NewTags(tags...), r.Prefix, r.Command, params, r.Trail)
	} else {
		m = ircmsg.New(r.Prefix, r.Command, params, r.Trail)
	}
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return events.Envelope{}, fmt.Errorf("archive: row %s: id: %w", r.ID, err)
	}
	return events.WrapAt(m, id, at), nil
}

// Run persists envelopes from in until ctx is done or in is closed. Each
// envelope stored for the first time is passed on to fresh when it is not
// nil, so a Kafka redelivery never reaches downstream stages twice.
func Run(ctx context.Context, a *Archive, in <-chan events.Envelope, fresh chan<- events.Envelope) error {
	for {
		select {
		case <-ctx.Done():
			a.lg.Info("archiver stopping", "reason", "context_canceled")
			return ctx.Err()
		case env, ok := <-in:
			if !ok {
				a.lg.Info("archiver stopping", "reason", "input_closed")
				return nil
			}
			isNew, err := a.Save(ctx, env)
			if err != nil {
				return err
			}
			if !isNew {
				a.lg.Debug("duplicate envelope ignored", "id", env.ID)
				continue
			}
			a.lg.Debug("archived", "id", env.ID, "kind", env.Kind(), "key", env.Key())
			if fresh == nil {
				continue
			}
			select {
			case fresh <- env:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
