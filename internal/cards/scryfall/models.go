package scryfall

import (
	"errors"
	"fmt"
	"time"
)

// Card is the subset of a Scryfall card object the import job consumes.
type Card struct {
	ID              string   `json:"id"`
	ArenaID         int      `json:"arena_id,omitempty"`
	Name            string   `json:"name"`
	SetCode         string   `json:"set"`
	CollectorNumber string   `json:"collector_number"`
	Rarity          string   `json:"rarity"`
	Games           []string `json:"games"`
	Layout          string   `json:"layout"`
}

// BulkDataList is the listing returned by the /bulk-data endpoint.
type BulkDataList struct {
	Object  string     `json:"object"`
	HasMore bool       `json:"has_more"`
	Data    []BulkData `json:"data"`
}

// BulkData describes one downloadable bulk data file.
type BulkData struct {
	ID             string    `json:"id"`
	Object         string    `json:"object"`
	Type           string    `json:"type"`
	UpdatedAt      time.Time `json:"updated_at"`
	Name           string    `json:"name"`
	CompressedSize int       `json:"compressed_size"`
	DownloadURI    string    `json:"download_uri"`
	ContentType    string    `json:"content_type"`
}

// APIError is an error response from the Scryfall API.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError is a 404 from the API.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
