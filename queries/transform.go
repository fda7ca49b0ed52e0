package queries

import (
	"fmt"
	"strings"

	c "github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/dialect"
	"github.com/relloyd/starpipe/helper"
	td "github.com/relloyd/starpipe/table-definition"
)

// qualifyingEvents restricts staged events to song plays by identified users.
func qualifyingEvents(alias string) string {
	return fmt.Sprintf("%[1]v.page = %[2]v\n    AND %[1]v.userID IS NOT NULL", alias, helper.QuoteLiteral(c.PageNextSong))
}

func insertInto(t td.Table) string {
	return fmt.Sprintf("INSERT INTO %v (%v)", t.Name, strings.Join(t.InsertColumns(), ", "))
}

// SongplayInsert derives one fact row per qualifying event.
// Song and artist are resolved by case-insensitive artist name and title; events without a match
// keep NULL song_id and artist_id. Song duration is not compared.
func SongplayInsert(d dialect.Dialect) string {
	return fmt.Sprintf(`%v
SELECT DISTINCT
    %v AS start_time,
    e.userID AS user_id,
    e.level,
    s.song_id,
    s.artist_id,
    e.sessionId AS session_id,
    e.location,
    e.userAgent AS user_agent
FROM %v e
LEFT JOIN %v s
    ON lower(e.artist_name) = lower(s.artist_name)
    AND lower(e.song_name) = lower(s.title)
WHERE %v`,
		insertInto(td.Songplays),
		d.EpochMillisToTimestamp("e.ts"),
		c.TableStagingEvents,
		c.TableStagingSongs,
		qualifyingEvents("e"))
}

// UserInsert keeps one row per user: the one from their latest event.
func UserInsert(d dialect.Dialect) string {
	return fmt.Sprintf(`%v
SELECT DISTINCT user_id, first_name, last_name, gender, level
FROM (
    SELECT
        e.userID AS user_id,
        e.first_name,
        e.last_name,
        e.gender,
        e.level,
        ROW_NUMBER() OVER (
            PARTITION BY e.userID
            ORDER BY CAST(e.ts AS BIGINT) DESC NULLS LAST, e.sessionId DESC NULLS LAST, e.itemInSession DESC NULLS LAST
        ) AS rn
    FROM %v e
    WHERE %v
) u
WHERE u.rn = 1`,
		insertInto(td.Users),
		c.TableStagingEvents,
		qualifyingEvents("e"))
}

// SongInsert keeps one row per song_id.
func SongInsert(d dialect.Dialect) string {
	return fmt.Sprintf(`%v
SELECT DISTINCT song_id, title, artist_id, year, duration
FROM (
    SELECT
        s.song_id,
        s.title,
        s.artist_id,
        s.year,
        s.duration,
        ROW_NUMBER() OVER (
            PARTITION BY s.song_id
            ORDER BY s.title, s.artist_id, s.year DESC NULLS LAST, s.duration DESC NULLS LAST
        ) AS rn
    FROM %v s
    WHERE s.song_id IS NOT NULL
) x
WHERE x.rn = 1`,
		insertInto(td.Songs),
		c.TableStagingSongs)
}

// ArtistInsert keeps one row per artist_id, preferring rows that carry a location.
func ArtistInsert(d dialect.Dialect) string {
	return fmt.Sprintf(`%v
SELECT DISTINCT artist_id, name, location, latitude, longitude
FROM (
    SELECT
        s.artist_id,
        s.artist_name AS name,
        s.artist_location AS location,
        s.artist_latitude AS latitude,
        s.artist_longitude AS longitude,
        ROW_NUMBER() OVER (
            PARTITION BY s.artist_id
            ORDER BY s.artist_location NULLS LAST, s.artist_latitude NULLS LAST, s.artist_longitude NULLS LAST, s.artist_name
        ) AS rn
    FROM %v s
    WHERE s.artist_id IS NOT NULL
) x
WHERE x.rn = 1`,
		insertInto(td.Artists),
		c.TableStagingSongs)
}

// TimeInsert decomposes each distinct start time of the qualifying events.
func TimeInsert(d dialect.Dialect) string {
	return fmt.Sprintf(`%v
SELECT DISTINCT
    t.start_time,
    EXTRACT(hour FROM t.start_time),
    EXTRACT(day FROM t.start_time),
    EXTRACT(week FROM t.start_time),
    EXTRACT(month FROM t.start_time),
    EXTRACT(year FROM t.start_time),
    EXTRACT(dow FROM t.start_time)
FROM (
    SELECT DISTINCT %v AS start_time
    FROM %v e
    WHERE %v
) t
WHERE t.start_time IS NOT NULL`,
		insertInto(td.Time),
		d.EpochMillisToTimestamp("e.ts"),
		c.TableStagingEvents,
		qualifyingEvents("e"))
}

// TransformStatements returns the five inserts in execution order.
func TransformStatements(d dialect.Dialect) []Statement {
	return []Statement{
		{Name: c.TableSongplays, SQL: SongplayInsert(d)},
		{Name: c.TableUsers, SQL: UserInsert(d)},
		{Name: c.TableSongs, SQL: SongInsert(d)},
		{Name: c.TableArtists, SQL: ArtistInsert(d)},
		{Name: c.TableTime, SQL: TimeInsert(d)},
	}
}
