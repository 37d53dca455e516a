package models

import "time"

// AnalyticsSummary is the dashboard roll-up for one user
type AnalyticsSummary struct {
	TotalCampaigns  int         `json:"totalCampaigns"`
	ActiveCampaigns int         `json:"activeCampaigns"`
	TotalLeads      int         `json:"totalLeads"`
	TotalMessages   int         `json:"totalMessages"`
	SentMessages    int         `json:"sentMessages"`
	SuccessRate     float64     `json:"successRate"`
	RecentCampaigns []*Campaign `json:"recentCampaigns"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
