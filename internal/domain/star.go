package domain

// StarMetadata identifies one target star.
// Corresponds to the star_metadata table in PostgreSQL.
type StarMetadata struct {
	StarID    string  // PRIMARY KEY, catalog identifier (e.g. "TIC 25155310")
	Name      string  // display name, may equal StarID
	RA        float64 // right ascension in degrees
	Dec       float64 // declination in degrees
	Magnitude float64 // catalog brightness magnitude
	Mission   string  // survey the photometry comes from
	CreatedAt int64   // record creation timestamp (Unix ms)
}

// AnalysisResult is one persisted transit candidate.
// Corresponds to the analysis_results table in PostgreSQL,
// foreign-keyed to star_metadata by star_id.
type AnalysisResult struct {
	StarID    string
	Rank      int
	Period    float64
	Duration  float64
	Phase     float64
	Depth     float64
	Power     float64
	CreatedAt int64 // Unix timestamp in milliseconds
}

// Artifact kinds stored in file_paths.
const (
	ArtifactCleanedPlot = "cleaned_plot"
	ArtifactFoldedPlot  = "folded_plot"
	ArtifactResultsJSON = "results_json"
)

// ArtifactRef points at a rendered artifact in the object store.
// Corresponds to the file_paths table in PostgreSQL,
// foreign-keyed to star_metadata by star_id.
type ArtifactRef struct {
	StarID     string
	Kind       string // one of the Artifact* constants
	Bucket     string
	ObjectName string
	CreatedAt  int64 // Unix timestamp in milliseconds
}

// FluxPoint is one archived sample of a cleaned light curve.
// Corresponds to the flux_timeseries table in ClickHouse.
type FluxPoint struct {
	StarID  string
	Time    float64 // observation time in days
	Flux    float64 // continuum-normalized flux
	FluxErr float64 // 1-sigma flux uncertainty
}
