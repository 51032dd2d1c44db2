package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/RichardoC/careerbot/internal/models"
	"go.uber.org/zap"
)

// Store persists chat records partitioned by scope (a user id).
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores rec under scope and returns it with its id populated.
	Save(ctx context.Context, scope string, rec models.ChatRecord) (models.ChatRecord, error)
	// List returns the records of scope in ascending timestamp order.
	// An unknown scope yields an empty slice.
	List(ctx context.Context, scope string) ([]models.ChatRecord, error)
	Close() error
}

// DocumentStore is the part of a document database the remote store needs.
// Records of a scope live as child documents of chats/{scope}/messages.
type DocumentStore interface {
	// Create adds rec as a new document and returns the generated document id.
	Create(ctx context.Context, scope string, rec models.ChatRecord) (string, error)
	// Documents returns every document of scope, with ids attached, in no
	// particular order.
	Documents(ctx context.Context, scope string) ([]models.ChatRecord, error)
	Close() error
}

const (
	chatsCollection    = "chats"
	messagesCollection = "messages"
)

// Mode is the process-wide persistence mode.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

const (
	DriverFirestore = "firestore"
	DriverSQLite    = "sqlite"
	DriverJSON      = "json"
)

// Options selects and configures the storage backends.
type Options struct {
	// CredentialsPath is the service account file enabling Firestore.
	CredentialsPath string
	// ProjectID overrides the project read from the credentials.
	ProjectID string
	// SQLitePath enables the SQLite document store when Firestore is unavailable.
	SQLitePath string
	// LocalPath is the JSON file used in local mode.
	LocalPath string
}

// Backend is the outcome of backend selection. Err is set when a remote
// backend was configured but failed to initialize; Mode is then ModeLocal.
type Backend struct {
	Mode   Mode
	Driver string
	Store  Store
	Err    error
}

// Open picks the storage backend once at startup. It never fails: any
// remote initialization error results in a local backend.
func Open(ctx context.Context, opts Options, logger *zap.Logger) Backend {
	remote, driver, err := openRemote(ctx, opts)
	if err == nil && remote != nil {
		logger.Info("using remote chat storage", zap.String("driver", driver))
		return Backend{Mode: ModeRemote, Driver: driver, Store: NewRemoteStore(remote)}
	}
	if err != nil {
		logger.Warn("remote chat storage unavailable, falling back to local file",
			zap.String("driver", driver),
			zap.String("path", opts.LocalPath),
			zap.Error(err))
	} else {
		logger.Info("using local chat storage", zap.String("path", opts.LocalPath))
	}
	return Backend{Mode: ModeLocal, Driver: DriverJSON, Store: NewLocalStore(opts.LocalPath), Err: err}
}

// openRemote returns a nil store and nil error when no remote backend is configured.
func openRemote(ctx context.Context, opts Options) (DocumentStore, string, error) {
	if opts.CredentialsPath != "" {
		_, statErr := os.Stat(opts.CredentialsPath)
		switch {
		case statErr == nil:
			docs, err := NewFirestoreDocuments(ctx, opts.CredentialsPath, opts.ProjectID)
			if err != nil {
				return nil, DriverFirestore, err
			}
			return docs, DriverFirestore, nil
		case !errors.Is(statErr, os.ErrNotExist):
			return nil, DriverFirestore, fmt.Errorf("stat credentials: %w", statErr)
		}
	}
	if opts.SQLitePath != "" {
		docs, err := NewSQLiteDocuments(opts.SQLitePath)
		if err != nil {
			return nil, DriverSQLite, fmt.Errorf("open sqlite document store: %w", err)
		}
		return docs, DriverSQLite, nil
	}
	return nil, "", nil
}
