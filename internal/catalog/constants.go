package catalog

import "time"

// DefaultLookupCacheSize bounds the ApplicableRecipes memo per catalog
const DefaultLookupCacheSize = 1024

// DefaultFetchTimeout bounds the remote baseline download
const DefaultFetchTimeout = 10 * time.Second

// Catalog source labels used in logs and metrics
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
	SourceSets   = "sets"
)

// Log messages
const (
	LogMsgEntrySkipped     = "Skipping malformed catalog entry"
	LogMsgSourceFailed     = "Catalog source unavailable, continuing without it"
	LogMsgSourceMissing    = "Catalog source not configured"
	LogMsgCatalogLoaded    = "Recipe catalog loaded"
	LogMsgRemoteFetched    = "Fetched remote recipe baseline"
	LogMsgLocalFileMissing = "Local catalog file does not exist"
)
