// Package domain holds the documents written by the ingestor and the naming
// rules of the indices they land in.
package domain

const (
	contentIndexSuffix  = "_content"
	metadataIndexSuffix = "_metadata"
)

// MetadataDocument is the per-record metadata persisted to MongoDB and later
// copied into the metadata index. Warc carries the injected HTTP status.
type MetadataDocument struct {
	ID       string
	Response Headers
	Warc     Headers
}

// ContentDocument is the decoded body of a record as indexed for search.
type ContentDocument struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
	Charset string `json:"charset"`
}

// ContentIndex returns the content index name for a database.
func ContentIndex(dbName string) string {
	return dbName + contentIndexSuffix
}

// MetadataIndex returns the metadata index name for a database.
func MetadataIndex(dbName string) string {
	return dbName + metadataIndexSuffix
}
