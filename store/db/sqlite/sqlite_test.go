package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDSNWithPragmas(t *testing.T) {
	plain := dsnWithPragmas("/tmp/projecthub.db")
	require.Equal(t, "/tmp/projecthub.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", plain)

	// A DSN carrying its own parameters keeps them and gains the pragmas.
	shared := dsnWithPragmas("file:projecthub?mode=memory&cache=shared")
	require.Equal(t, "file:projecthub?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", shared)
}
