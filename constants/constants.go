package constants

// Dialects

const (
	DialectRedshift  = "redshift"
	DialectSnowflake = "snowflake"
	DialectDuckDB    = "duckdb"
)

// Tables

const (
	TableStagingEvents = "staging_events"
	TableStagingSongs  = "staging_songs"
	TableSongplays     = "songplays"
	TableUsers         = "users"
	TableSongs         = "songs"
	TableArtists       = "artists"
	TableTime          = "time"
)

// Pipeline

const (
	StageDrop              = "drop"
	StageCreate            = "create"
	StageLoad              = "load"
	StageTransform         = "transform"
	PageNextSong           = "NextSong"
	DefaultRegion          = "us-west-2" // the bucket holding the sample song and log data lives here
	DefaultLogLevel        = "warn"
	ServiceName            = "starpipe"
	EnvVarPrefix           = "SP" // prefixed for environment variables in twelveFactorMode
	PushGatewayJobName     = "starpipe"
	JsonPathsDocumentField = "jsonpaths"
	EmojiBang              = "\U0001F4A5"
)
