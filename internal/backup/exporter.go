// Package backup produces portable point-in-time snapshots of the ledger.
//
// An export stages one .sql text file per table (users, requests), each a
// sequence of INSERT statements in canonical column order, then bundles the
// staged files into a single zip archive named after the export instant in
// a fixed timezone. Replaying the emitted statements against a freshly
// migrated empty schema reproduces the dataset; that replay property is the
// correctness contract of this package.
//
// Staging artifacts live in a private directory next to the archive and are
// removed on every exit path, so a failed export leaves nothing behind.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-request-ledger/internal/domain"
	"github.com/tbourn/go-request-ledger/internal/metrics"
)

// timeLayout is the textual form of every timestamp in the artifact.
// Sub-second precision is deliberately dropped; the replay contract is
// stated over second-precision data.
const timeLayout = "2006-01-02 15:04:05"

// archiveLayout shapes the archive filename timestamp (day first).
const archiveLayout = "02-01-2006-15:04:05"

// Exporter serializes the full dataset into a replayable zip archive.
type Exporter struct {
	// DB is the GORM handle the snapshot is read from.
	DB *gorm.DB
	// Dir is the directory the archive is written to. Staging files are
	// created in a private subdirectory of Dir so the final rename never
	// crosses a filesystem boundary.
	Dir string
	// Location is the fixed timezone encoded into the archive name.
	// Nil falls back to UTC.
	Location *time.Location
}

// Export writes a snapshot archive and returns its path. On any failure the
// staging directory and the partial archive are removed before the error is
// returned.
func (e *Exporter) Export(ctx context.Context) (path string, err error) {
	start := time.Now()
	defer func() { metrics.BackupFinished(err, time.Since(start)) }()

	staging := filepath.Join(e.Dir, ".staging-"+uuid.NewString())
	if err = os.MkdirAll(staging, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	// One read transaction: the two table dumps form a single consistent
	// snapshot even under concurrent writers.
	var users []domain.User
	var requests []domain.Request
	err = e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("user_id ASC").Find(&users).Error; err != nil {
			return err
		}
		return tx.Order("message_id ASC").Find(&requests).Error
	})
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}

	tables := []struct {
		name  string
		lines []string
	}{
		{"users", userInserts(users)},
		{"requests", requestInserts(requests)},
	}
	for _, t := range tables {
		f := filepath.Join(staging, t.name+".sql")
		if err = os.WriteFile(f, []byte(strings.Join(t.lines, "")), 0o644); err != nil {
			return "", fmt.Errorf("stage %s: %w", t.name, err)
		}
	}

	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	name := "database_backup_" + start.In(loc).Format(archiveLayout) + ".zip"
	tmp := filepath.Join(staging, name)
	if err = bundle(tmp, staging, tables[0].name+".sql", tables[1].name+".sql"); err != nil {
		return "", fmt.Errorf("bundle archive: %w", err)
	}

	final := filepath.Join(e.Dir, name)
	if err = os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("publish archive: %w", err)
	}

	log.Info().
		Str("archive", final).
		Int("users", len(users)).
		Int("requests", len(requests)).
		Dur("elapsed", time.Since(start)).
		Msg("backup exported")
	return final, nil
}

// bundle zips the named staging files into dest. The archive is created
// inside the staging directory, so an interrupted bundle is swept away with
// the rest of the staging state.
func bundle(dest, staging string, files ...string) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(staging, name))
		if err != nil {
			zw.Close()
			out.Close()
			return err
		}
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			out.Close()
			return err
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			out.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// userInserts renders one INSERT statement per user row in canonical
// column order.
func userInserts(users []domain.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, fmt.Sprintf(
			"INSERT INTO users (user_id, name, user_name) VALUES (%s, %s, %s);\n",
			encInt(u.UserID), encNullString(u.Name), encNullString(u.UserName),
		))
	}
	return out
}

// requestInserts renders one INSERT statement per request row in canonical
// column order.
func requestInserts(requests []domain.Request) []string {
	out := make([]string, 0, len(requests))
	for _, r := range requests {
		out = append(out, fmt.Sprintf(
			"INSERT INTO requests (user_id, is_english, message_id, req_time, fulfill_message_id, fulfill_time, fulfilled_by) VALUES (%s, %s, %s, %s, %s, %s, %s);\n",
			encInt(r.UserID), encBool(r.IsEnglish), encInt(r.MessageID),
			encTime(r.ReqTime), encNullInt(r.FulfillMessageID),
			encNullTime(r.FulfillTime), encNullInt(r.FulfilledBy),
		))
	}
	return out
}

// encInt renders an integer literal.
func encInt(v int64) string { return strconv.FormatInt(v, 10) }

// encBool renders a SQL boolean literal.
func encBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// encString renders a single-quoted SQL string literal, doubling embedded
// quotes.
func encString(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// encTime renders a quoted second-precision timestamp literal.
func encTime(v time.Time) string { return "'" + v.UTC().Format(timeLayout) + "'" }

// encNullString renders a nullable string column value.
func encNullString(v *string) string {
	if v == nil {
		return "NULL"
	}
	return encString(*v)
}

// encNullInt renders a nullable integer column value.
func encNullInt(v *int64) string {
	if v == nil {
		return "NULL"
	}
	return encInt(*v)
}

// encNullTime renders a nullable timestamp column value.
func encNullTime(v *time.Time) string {
	if v == nil {
		return "NULL"
	}
	return encTime(*v)
}
