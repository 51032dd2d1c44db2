package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_NoCredentialsUsesLocal(t *testing.T) {
	dir := t.TempDir()
	b := Open(context.Background(), Options{
		CredentialsPath: filepath.Join(dir, "firebase_key.json"),
		LocalPath:       filepath.Join(dir, "local_store.json"),
	}, zap.NewNop())

	require.Equal(t, ModeLocal, b.Mode)
	require.Equal(t, DriverJSON, b.Driver)
	require.NoError(t, b.Err)
	require.IsType(t, &LocalStore{}, b.Store)
}

func TestOpen_MalformedCredentialsFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "firebase_key.json")
	require.NoError(t, os.WriteFile(creds, []byte("not a service account"), 0o600))

	b := Open(context.Background(), Options{
		CredentialsPath: creds,
		LocalPath:       filepath.Join(dir, "local_store.json"),
	}, zap.NewNop())

	require.Equal(t, ModeLocal, b.Mode)
	require.Error(t, b.Err)
	require.NotNil(t, b.Store)
}

func TestOpen_SQLiteDocumentStore(t *testing.T) {
	dir := t.TempDir()
	b := Open(context.Background(), Options{
		SQLitePath: filepath.Join(dir, "docs.db"),
		LocalPath:  filepath.Join(dir, "local_store.json"),
	}, zap.NewNop())
	defer b.Store.Close()

	require.Equal(t, ModeRemote, b.Mode)
	require.Equal(t, DriverSQLite, b.Driver)
	require.NoError(t, b.Err)
	require.IsType(t, &RemoteStore{}, b.Store)
}

func TestOpen_BrokenSQLitePathFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	b := Open(context.Background(), Options{
		SQLitePath: filepath.Join(dir, "missing", "dir", "docs.db"),
		LocalPath:  filepath.Join(dir, "local_store.json"),
	}, zap.NewNop())

	require.Equal(t, ModeLocal, b.Mode)
	require.Equal(t, DriverJSON, b.Driver)
	require.Error(t, b.Err)
}
