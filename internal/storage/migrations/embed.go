package migrations

import "embed"

// PostgresFS embeds the star_metadata, analysis_results and file_paths
// migration files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the flux_timeseries migration files.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
