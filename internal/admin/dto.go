// AngelaMos | 2026
// dto.go

package admin

type StatsResponse struct {
	Platform PlatformResponse `json:"platform"`
	Database DatabaseStatus   `json:"database"`
	Redis    RedisStatus      `json:"redis"`
	Runtime  RuntimeStats     `json:"runtime"`
}

// PlatformResponse carries money in LKR cents.
type PlatformResponse struct {
	TotalUsers           int64            `json:"total_users"`
	UsersByTier          map[string]int64 `json:"users_by_age_level"`
	ActiveSubscriptions  int64            `json:"active_subscriptions"`
	CompletedPayments    int64            `json:"completed_payments"`
	CompletedRevenue     int64            `json:"completed_revenue"`
	PendingBankTransfers int64            `json:"pending_bank_transfers"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	NumGC        uint32 `json:"num_gc"`
}

func toPlatformResponse(s *PlatformStats) PlatformResponse {
	return PlatformResponse{
		TotalUsers:           s.TotalUsers,
		UsersByTier:          s.UsersByTier,
		ActiveSubscriptions:  s.ActiveSubscriptions,
		CompletedPayments:    s.CompletedPayments,
		CompletedRevenue:     s.CompletedRevenue,
		PendingBankTransfers: s.PendingBankTransfers,
	}
}
