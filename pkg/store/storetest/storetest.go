// Package storetest opens throwaway SQLite-backed stores for tests.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/autoigdm/api/pkg/database"
	"github.com/autoigdm/api/pkg/store"
)

// NewSQLite returns a migrated store on a private in-memory SQLite database.
// The database is closed when the test ends.
func NewSQLite(t testing.TB) *store.Store {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)

	client, err := database.NewClient(context.Background(), dialect.SQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return store.New(client)
}
