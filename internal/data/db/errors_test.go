package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{gorm.ErrRecordNotFound, "not_found"},
		{fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), "unique_violation"},
		{&pgconn.PgError{Code: "23503"}, "foreign_key_violation"},
		{&pgconn.PgError{Code: "40001"}, "pg_40001"},
		{errors.New("UNIQUE constraint failed: projects.id"), "unique_violation"},
		{errors.New("boom"), "db_error"},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestPostgresDSN(t *testing.T) {
	c := Config{User: "u", Password: "p", Host: "h", Port: "5432", Name: "atmo"}
	if got := c.PostgresDSN(); got != "postgres://u:p@h:5432/atmo?sslmode=disable" {
		t.Fatalf("dsn: %s", got)
	}
	c.DSN = "postgres://override"
	if got := c.PostgresDSN(); got != "postgres://override" {
		t.Fatalf("dsn override: %s", got)
	}
}
