package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/RichardoC/careerbot/internal/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    data TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (collection, id)
);`

// SQLiteDocuments is a self-hosted DocumentStore. Each document is a JSON
// object in the documents table, keyed by its collection path and a random id.
type SQLiteDocuments struct {
	db *sql.DB
}

type documentData struct {
	Message   string `json:"message"`
	Reply     string `json:"reply"`
	Timestamp int64  `json:"timestamp"`
}

func NewSQLiteDocuments(dbPath string) (*SQLiteDocuments, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteDocuments{db: db}, nil
}

func messagesPath(scope string) string {
	return chatsCollection + "/" + scope + "/" + messagesCollection
}

func (d *SQLiteDocuments) Create(ctx context.Context, scope string, rec models.ChatRecord) (string, error) {
	data, err := json.Marshal(documentData{Message: rec.Message, Reply: rec.Reply, Timestamp: rec.Timestamp})
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	id := uuid.NewString()
	query := `
        INSERT INTO documents (collection, id, data, created_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)`

	if _, err := d.db.ExecContext(ctx, query, messagesPath(scope), id, string(data)); err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

func (d *SQLiteDocuments) Documents(ctx context.Context, scope string) ([]models.ChatRecord, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, data FROM documents WHERE collection = ?`, messagesPath(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	records := make([]models.ChatRecord, 0)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var doc documentData
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		records = append(records, models.ChatRecord{
			ID:        id,
			Message:   doc.Message,
			Reply:     doc.Reply,
			Timestamp: doc.Timestamp,
		})
	}
	return records, rows.Err()
}

func (d *SQLiteDocuments) Close() error {
	return d.db.Close()
}
