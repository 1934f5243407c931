// Package entdriver stores the document snapshot in a single SQL row using
// ent's dialect-aware SQL builders. The sqlite and postgres drivers share it.
package entdriver

import (
	"context"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/storage"
)

const (
	documentsTable = "documents"

	// DefaultKey is the row holding the bot's document.
	DefaultKey = "default"
)

var (
	documentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "body", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	documentsSchema = &schema.Table{
		Name:       documentsTable,
		Columns:    documentsColumns,
		PrimaryKey: []*schema.Column{documentsColumns[0]},
	}
)

// EntDriver implements storage.Driver over an ent SQL driver.
type EntDriver struct {
	Driver *entsql.Driver

	// Key selects the row, allowing several documents per database.
	Key string
}

// Migrate creates the documents table if it does not exist.
func (d *EntDriver) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(d.Driver)
	if err != nil {
		return fmt.Errorf("preparing migration: %w", err)
	}
	if err := m.Create(ctx, documentsSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (d *EntDriver) key() string {
	if d.Key == "" {
		return DefaultKey
	}
	return d.Key
}

// Load reads the snapshot row. No row yet is an empty document.
func (d *EntDriver) Load(ctx context.Context) (*model.Document, error) {
	query, args := entsql.Dialect(d.Driver.Dialect()).
		Select("body").
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ("id", d.key())).
		Query()

	rows := &entsql.Rows{}
	if err := d.Driver.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("reading document row: %w", err)
		}
		return model.NewDocument(), nil
	}

	var body string
	if err := rows.Scan(&body); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	return storage.Decode([]byte(body))
}

// Save upserts the snapshot row in a single statement.
func (d *EntDriver) Save(ctx context.Context, doc *model.Document) error {
	data, err := storage.Encode(doc)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(d.Driver.Dialect()).
		Insert(documentsTable).
		Columns("id", "body", "updated_at").
		Values(d.key(), string(data), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := d.Driver.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (d *EntDriver) Close() error {
	if d.Driver == nil {
		return errors.New("driver not open")
	}
	return d.Driver.Close()
}
