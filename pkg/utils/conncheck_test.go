package utils

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "postgresql://user:pw@dbhost:6543/f1", "dbhost:6543"},
		{"default port", "postgresql://user:pw@dbhost/f1", "dbhost:5432"},
		{"short scheme", "postgres://user@localhost:5432/f1?sslmode=disable", "localhost:5432"},
		{"no credentials", "postgresql://localhost/f1", "localhost:5432"},
		{"other scheme", "mysql://user@localhost/f1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestWithDatabase(t *testing.T) {
	got, err := WithDatabase("postgresql://user:pw@dbhost:5432/postgres?sslmode=disable", "f1")
	require.NoError(t, err)
	assert.Equal(t, "postgresql://user:pw@dbhost:5432/f1?sslmode=disable", got)

	name, err := DatabaseName(got)
	require.NoError(t, err)
	assert.Equal(t, "f1", name)

	_, err = DatabaseName("postgresql://user:pw@dbhost:5432")
	assert.Error(t, err)
}

func TestWaitForTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.NoError(t, WaitForTCP(ln.Addr().String(), time.Second))

	addr := ln.Addr().String()
	ln.Close()
	assert.Error(t, WaitForTCP(addr, 300*time.Millisecond))
}
