package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialectorFor(t *testing.T) {
	_, dialect, err := dialectorFor("sqlite://file:test?mode=memory")
	assert.NoError(t, err)
	assert.Equal(t, DialectSQLite, dialect)

	_, dialect, err = dialectorFor("postgres://fw:fw@localhost:5432/fw?sslmode=disable")
	assert.NoError(t, err)
	assert.Equal(t, DialectPostgres, dialect)

	_, _, err = dialectorFor("mysql://nope")
	assert.Error(t, err)
}
