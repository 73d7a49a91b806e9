package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dfryer1193/goblog-api/shared/db"
)

var _ db.Database = (*SQLiteDB)(nil)

func connectTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	database := NewSQLiteDB(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestNewSQLiteConfig(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     string
	}{
		{name: "env variable", envValue: "/var/lib/goblog/blog.db", want: "/var/lib/goblog/blog.db"},
		{name: "default path", want: defaultPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SQLITE_DB_PATH", tt.envValue)

			if got := NewSQLiteDB(NewSQLiteConfig()).dbPath; got != tt.want {
				t.Errorf("dbPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSQLiteDB_ConnectAndClose(t *testing.T) {
	database := NewSQLiteDB(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})

	if err := database.Close(); err != nil {
		t.Errorf("Close() before Connect() error = %v", err)
	}
	if err := database.Ping(context.Background()); err == nil {
		t.Error("Ping() before Connect() should fail")
	}

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if database.DB() == nil {
		t.Fatal("DB() returned nil after Connect()")
	}
	if err := database.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := database.Connect(); err == nil {
		t.Error("second Connect() should fail")
	}

	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if database.DB() != nil {
		t.Error("DB() should return nil after Close()")
	}
}

func TestSQLiteDB_DSNCarriesPragmas(t *testing.T) {
	dsn := NewSQLiteDB(&SQLiteConfig{Path: "/tmp/test.db"}).dsn()

	if !strings.HasPrefix(dsn, "file:/tmp/test.db?") {
		t.Errorf("dsn = %q, want file:/tmp/test.db? prefix", dsn)
	}
	for _, want := range []string{"foreign_keys%281%29", "busy_timeout%285000%29", "_time_format=sqlite"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn = %q, missing %q", dsn, want)
		}
	}
}

func TestSQLiteDB_ForeignKeysOnEveryConnection(t *testing.T) {
	sqlDB := connectTestDB(t).DB()
	sqlDB.SetMaxOpenConns(3)

	// Hold several connections open at once so the pool has to create more than one.
	enabled := make([]int, 3)
	tx1, err := sqlDB.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx1.Rollback()
	tx2, err := sqlDB.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx2.Rollback()

	if err := tx1.QueryRow("PRAGMA foreign_keys").Scan(&enabled[0]); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if err := tx2.QueryRow("PRAGMA foreign_keys").Scan(&enabled[1]); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if err := sqlDB.QueryRow("PRAGMA foreign_keys").Scan(&enabled[2]); err != nil {
		t.Fatalf("pragma: %v", err)
	}

	for i, v := range enabled {
		if v != 1 {
			t.Errorf("connection %d foreign_keys = %d, want 1", i, v)
		}
	}
}

func TestConstraintHelpers(t *testing.T) {
	sqlDB := connectTestDB(t).DB()

	insertUser := func(id, email string) error {
		_, err := sqlDB.Exec(
			"INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, 'x', CURRENT_TIMESTAMP)",
			id, id, email,
		)
		return err
	}

	if err := insertUser("u1", "ada@example.com"); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	dupEmail := insertUser("u2", "ada@example.com")
	dupID := insertUser("u1", "other@example.com")
	_, danglingLike := sqlDB.Exec(
		"INSERT INTO post_likes (post_id, user_id, created_at) VALUES ('missing', 'u1', CURRENT_TIMESTAMP)",
	)

	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
	}{
		{name: "duplicate email", err: dupEmail, unique: true},
		{name: "duplicate primary key", err: dupID, unique: true},
		{name: "wrapped duplicate", err: fmt.Errorf("create user: %w", dupEmail), unique: true},
		{name: "dangling post", err: danglingLike, foreignKey: true},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.unique)
			}
			if got := IsForeignKeyViolation(tt.err); got != tt.foreignKey {
				t.Errorf("IsForeignKeyViolation(%v) = %v, want %v", tt.err, got, tt.foreignKey)
			}
		})
	}
}

func TestUnicodeLower(t *testing.T) {
	sqlDB := connectTestDB(t).DB()

	tests := []struct {
		in   any
		want any
	}{
		{in: "Été à PARIS", want: "été à paris"},
		{in: "ÇA VA", want: "ça va"},
		{in: "plain", want: "plain"},
		{in: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			var got sql.NullString
			if err := sqlDB.QueryRow("SELECT "+FoldFunc+"(?)", tt.in).Scan(&got); err != nil {
				t.Fatalf("query: %v", err)
			}
			if tt.want == nil {
				if got.Valid {
					t.Errorf("%s(NULL) = %q, want NULL", FoldFunc, got.String)
				}
				return
			}
			if got.String != tt.want {
				t.Errorf("%s(%q) = %q, want %q", FoldFunc, tt.in, got.String, tt.want)
			}
		})
	}
}
