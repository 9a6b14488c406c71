package connection

import "time"

// SourceLinkedInCSV tags records created by the CSV import pipeline.
const SourceLinkedInCSV = "linkedin_csv"

// Connection is one imported contact. The *_normalized fields are always the
// output of the normalize package applied to the matching *_raw field.
type Connection struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	ConnectionName        string    `json:"connection_name"`
	CompanyNameRaw        string    `json:"company_name_raw"`
	CompanyNameNormalized string    `json:"company_name_normalized"`
	JobTitleRaw           string    `json:"job_title_raw"`
	JobTitleNormalized    string    `json:"job_title_normalized"`
	ConnectionDate        string    `json:"connection_date,omitempty"`
	LinkedInURL           string    `json:"linkedin_url,omitempty"`
	Source                string    `json:"source"`
	LastUpdatedAt         time.Time `json:"last_updated_at"`
}

// ImportMetadata describes the most recent import. It is overwritten on every
// successful import.
type ImportMetadata struct {
	ImportID        string    `json:"import_id"`
	ImportedAt      time.Time `json:"imported_at"`
	ConnectionCount int       `json:"connection_count"`
	Source          string    `json:"source"`
}
