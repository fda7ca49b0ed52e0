package tabledefinition

import (
	"fmt"

	c "github.com/relloyd/starpipe/constants"
)

// staging columns are all nullable: nothing is validated until the transformations run.
func stagingColumn(name string, t DataType) Column {
	return Column{Name: name, Type: t, Nullable: true}
}

func required(name string, t DataType) Column {
	return Column{Name: name, Type: t}
}

func optional(name string, t DataType) Column {
	return Column{Name: name, Type: t, Nullable: true}
}

func key(name string, t DataType) Column {
	return Column{Name: name, Type: t, PrimaryKey: true}
}

var StagingEvents = Table{
	Name:    c.TableStagingEvents,
	Staging: true,
	Columns: []Column{
		stagingColumn("artist_name", Text),
		stagingColumn("auth", Text),
		stagingColumn("first_name", Text),
		stagingColumn("gender", Text),
		stagingColumn("itemInSession", Integer),
		stagingColumn("last_name", Text),
		stagingColumn("length", Float),
		stagingColumn("level", Text),
		stagingColumn("location", Text),
		stagingColumn("method", Text),
		stagingColumn("page", Text),
		stagingColumn("registration", Float),
		stagingColumn("sessionId", Integer),
		stagingColumn("song_name", Text),
		stagingColumn("status", Integer),
		stagingColumn("ts", Text), // milliseconds since the epoch, kept as text until transformed
		stagingColumn("userAgent", Text),
		stagingColumn("userID", Integer),
	},
}

var StagingSongs = Table{
	Name:    c.TableStagingSongs,
	Staging: true,
	Columns: []Column{
		stagingColumn("num_songs", Integer),
		stagingColumn("artist_id", Text),
		stagingColumn("artist_latitude", Float),
		stagingColumn("artist_longitude", Float),
		stagingColumn("artist_location", Text),
		stagingColumn("artist_name", Text),
		stagingColumn("song_id", Text),
		stagingColumn("title", Text),
		stagingColumn("duration", Float),
		stagingColumn("year", Integer),
	},
}

// Songplays is append only and has no primary key.
var Songplays = Table{
	Name: c.TableSongplays,
	Columns: []Column{
		{Name: "songplay_id", Type: Integer, Identity: true},
		required("start_time", Timestamp),
		required("user_id", Integer),
		required("level", Text),
		optional("song_id", Text),
		optional("artist_id", Text),
		required("session_id", Integer),
		required("location", Text),
		required("user_agent", Text),
	},
}

var Users = Table{
	Name: c.TableUsers,
	Columns: []Column{
		key("user_id", Integer),
		required("first_name", Text),
		required("last_name", Text),
		required("gender", Text),
		required("level", Text),
	},
}

var Songs = Table{
	Name: c.TableSongs,
	Columns: []Column{
		key("song_id", Text),
		required("title", Text),
		required("artist_id", Text),
		required("year", Integer),
		required("duration", Float),
	},
}

var Artists = Table{
	Name: c.TableArtists,
	Columns: []Column{
		key("artist_id", Text),
		required("name", Text),
		optional("location", Text),
		optional("latitude", Float),
		optional("longitude", Float),
	},
}

var Time = Table{
	Name: c.TableTime,
	Columns: []Column{
		key("start_time", Timestamp),
		required("hour", Integer),
		required("day", Integer),
		required("week", Integer),
		required("month", Integer),
		required("year", Integer),
		required("weekday", Integer),
	},
}

// Registry holds the table definitions of the star schema and its staging area.
type Registry struct {
	tables []Table
	byName map[string]int
}

// NewRegistry returns the seven tables in creation order: staging first, then the fact, then the dimensions.
func NewRegistry() *Registry {
	return NewRegistryWithTables(StagingEvents, StagingSongs, Songplays, Users, Songs, Artists, Time)
}

func NewRegistryWithTables(tables ...Table) *Registry {
	r := &Registry{byName: make(map[string]int, len(tables))}
	for _, t := range tables {
		r.byName[t.Name] = len(r.tables)
		r.tables = append(r.tables, t)
	}
	return r
}

// Tables returns a copy of the table definitions in registry order.
func (r *Registry) Tables() []Table {
	retval := make([]Table, len(r.tables))
	copy(retval, r.tables)
	return retval
}

// Get returns the table with the given name.
func (r *Registry) Get(name string) (Table, error) {
	idx, ok := r.byName[name]
	if !ok {
		return Table{}, fmt.Errorf("table %q is not defined", name)
	}
	return r.tables[idx], nil
}

// MustGet is Get for the tables known at compile time.
func (r *Registry) MustGet(name string) Table {
	t, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return t
}
