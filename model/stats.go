package model

type OpsStats struct {
	SessionStats struct {
		Active int64 `json:"active"`
	} `json:"session_stats"`
	ThreatStats struct {
		ByStatus map[string]int64 `json:"by_status"`
		Open     int64            `json:"open"`
	} `json:"threat_stats"`
	AlertStats struct {
		Unresolved int64 `json:"unresolved"`
	} `json:"alert_stats"`
	LedgerStats struct {
		TotalEvents int64 `json:"total_events"`
	} `json:"ledger_stats"`
	SystemStats struct {
		CPUPercent float64 `json:"cpu_percent"`
	} `json:"system_stats"`
}
