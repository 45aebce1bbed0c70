package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"root@tcp(127.0.0.1:3306)/trashcanpro?charset=utf8mb4&parseTime=true&loc=UTC",
		DSN("root", "", "127.0.0.1", "3306", "trashcanpro"))
	assert.Equal(t,
		"app:pw@tcp(db:3307)/x?charset=utf8mb4&parseTime=true&loc=UTC",
		DSN("app", "pw", "db", "3307", "x"))
}
