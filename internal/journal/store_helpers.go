package journal

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		kind        string
		directory   sql.NullString
		dryRun      int64
		startedRaw  string
		finishedRaw sql.NullString
		errMessage  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&kind,
		&directory,
		&dryRun,
		&startedRaw,
		&finishedRaw,
		&run.Scanned,
		&run.Changed,
		&run.Failed,
		&errMessage,
	); err != nil {
		return Run{}, err
	}
	run.Kind = Kind(kind)
	run.Directory = directory.String
	run.DryRun = dryRun != 0
	run.Error = errMessage.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

var likeEscaper = strings.NewReplacer(`%`, `\%`, `_`, `\_`, `\`, `\\`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
