package repository

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"regexp"
	"testing"
)

func TestMigrationStoresPricesWithoutRounding(t *testing.T) {
	up, err := migrationFiles.ReadFile("migrations/000001_create_products.up.sql")
	require.NoError(t, err)

	// a precision or scale on price would round stored values
	assert.Regexp(t, regexp.MustCompile(`(?m)^\s*price\s+NUMERIC\s+NOT NULL`), string(up))
	assert.NotRegexp(t, regexp.MustCompile(`price\s+NUMERIC\s*\(`), string(up))
}
