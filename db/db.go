package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

var (
	ErrNotFound = errors.New("entity not found")
)

type DB struct {
	db      *bun.DB
	timeout time.Duration
}

const defaultTimeout = time.Second * 20

func New(address, user, password, database string) *DB {
	connector := pgdriver.NewConnector(
		pgdriver.WithInsecure(true),
		pgdriver.WithAddr(address),
		pgdriver.WithUser(user),
		pgdriver.WithPassword(password),
		pgdriver.WithDatabase(database),
	)
	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())
	return &DB{db: db, timeout: defaultTimeout}
}

func (d *DB) SetTimeout(duration time.Duration) {
	d.timeout = duration
}

func (d *DB) EnableDebug() {
	d.db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
}

// Init creates the schema. Safe to run on every startup.
func (d *DB) Init(ctx context.Context) error {
	for _, model := range []interface{}{(*ChatBinding)(nil), (*TrackedFlight)(nil)} {
		_, err := d.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "error during schema creation")
		}
	}
	_, err := d.db.NewCreateIndex().
		Model((*TrackedFlight)(nil)).
		Index("tracked_flights_chat_flight_date_idx").
		Unique().
		IfNotExists().
		Column("chat_id", "flight_number", "flight_date").
		Exec(ctx)
	return errors.Wrap(err, "error during index creation")
}

func (d *DB) GetBinding(chatId int64) (ChatBinding, error) {
	b := ChatBinding{ChatId: chatId}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	err := d.db.NewSelect().Model(&b).WherePK().Scan(ctx)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return ChatBinding{}, ErrNotFound
	}
	if err != nil {
		return ChatBinding{}, errors.Wrap(err, "error during querying binding")
	}
	return b, nil
}

func (d *DB) ListBindings() ([]ChatBinding, error) {
	var bindings []ChatBinding
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	err := d.db.NewSelect().Model(&bindings).Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during listing bindings")
	}
	return bindings, nil
}

// SetImportChat binds the chat's auto-import destination as a single upsert.
func (d *DB) SetImportChat(chatId, importChatId int64) error {
	b := ChatBinding{
		ChatId:       chatId,
		ImportChatId: &importChatId,
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	_, err := d.db.NewInsert().
		Model(&b).
		On("CONFLICT (chat_id) DO UPDATE").
		Set("import_chat_id = EXCLUDED.import_chat_id").
		Exec(ctx)
	return errors.Wrap(err, "error during binding import chat")
}

// SetStatusMessage binds the chat's live status message as a single upsert.
func (d *DB) SetStatusMessage(chatId, statusChatId int64, statusMessageId int) error {
	b := ChatBinding{
		ChatId:          chatId,
		StatusChatId:    &statusChatId,
		StatusMessageId: &statusMessageId,
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	_, err := d.db.NewInsert().
		Model(&b).
		On("CONFLICT (chat_id) DO UPDATE").
		Set("status_chat_id = EXCLUDED.status_chat_id").
		Set("status_message_id = EXCLUDED.status_message_id").
		Exec(ctx)
	return errors.Wrap(err, "error during binding status message")
}

// AddTrackedFlight inserts a flight under tracking. A duplicate
// (chat, flight number, flight date) is a no-op; the bool reports whether a
// row was actually created.
func (d *DB) AddTrackedFlight(f TrackedFlight) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	result, err := d.db.NewInsert().
		Model(&f).
		On("CONFLICT (chat_id, flight_number, flight_date) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, errors.Wrap(err, "error during adding tracked flight")
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "error during reading insert result")
	}
	return inserted > 0, nil
}

func (d *DB) ListTrackedFlights() ([]TrackedFlight, error) {
	var flights []TrackedFlight
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	err := d.db.NewSelect().
		Model(&flights).
		Order("flight_date ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during listing tracked flights")
	}
	return flights, nil
}

// MarkDepartureNotified flips the one-shot departure flag, keyed by id so
// concurrent ticks cannot widen the update.
func (d *DB) MarkDepartureNotified(id int64) error {
	f := TrackedFlight{Id: id, DepartureNotified: true}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	_, err := d.db.NewUpdate().
		Model(&f).
		Set("departure_notified = ?departure_notified").
		WherePK().
		Exec(ctx)
	return errors.Wrap(err, "error during marking departure")
}

// RemoveTrackedFlight retires a flight; after this no tick processes it.
func (d *DB) RemoveTrackedFlight(id int64) error {
	f := TrackedFlight{Id: id}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	_, err := d.db.NewDelete().Model(&f).WherePK().Exec(ctx)
	return errors.Wrap(err, "error during removing tracked flight")
}

// RemoveChatFlights cancels tracking for everything a chat owns and reports
// how many rows went away.
func (d *DB) RemoveChatFlights(chatId int64) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	result, err := d.db.NewDelete().
		Model((*TrackedFlight)(nil)).
		Where("chat_id = ?", chatId).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "error during removing chat flights")
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "error during reading delete result")
	}
	return removed, nil
}
