package dto

import (
	"time"

	"referral-radar/internal/domain/connection"
	"referral-radar/internal/usecase"
)

type ImportMetadataResponse struct {
	ImportID        string `json:"import_id"`
	ImportedAt      string `json:"imported_at"`
	ConnectionCount int    `json:"connection_count"`
	Source          string `json:"source"`
}

type ImportResultResponse struct {
	ConnectionCount int                    `json:"connection_count"`
	Metadata        ImportMetadataResponse `json:"metadata"`
}

type SummaryResponse struct {
	HasConnections  bool                    `json:"has_connections"`
	ConnectionCount int                     `json:"connection_count"`
	Metadata        *ImportMetadataResponse `json:"metadata,omitempty"`
}

type CompanyGroupResponse struct {
	Company         string                  `json:"company"`
	ConnectionCount int                     `json:"connection_count"`
	Connections     []connection.Connection `json:"connections"`
}

type CompanyCountResponse struct {
	Company         string `json:"company"`
	ConnectionCount int    `json:"connection_count"`
}

func NewImportMetadataResponse(meta connection.ImportMetadata) ImportMetadataResponse {
	return ImportMetadataResponse{
		ImportID:        meta.ImportID,
		ImportedAt:      meta.ImportedAt.UTC().Format(time.RFC3339),
		ConnectionCount: meta.ConnectionCount,
		Source:          meta.Source,
	}
}

func NewImportResultResponse(res usecase.ImportResult) ImportResultResponse {
	return ImportResultResponse{
		ConnectionCount: res.ConnectionCount,
		Metadata:        NewImportMetadataResponse(res.Metadata),
	}
}

func NewSummaryResponse(sum usecase.Summary) SummaryResponse {
	out := SummaryResponse{
		HasConnections:  sum.HasConnections,
		ConnectionCount: sum.ConnectionCount,
	}
	if sum.Metadata != nil {
		meta := NewImportMetadataResponse(*sum.Metadata)
		out.Metadata = &meta
	}
	return out
}
