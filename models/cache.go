package models

// CacheEntry ttl cache row
type CacheEntry struct {
	Key       string `json:"key" gorm:"primaryKey;type:varchar(255)"`
	Value     []byte `json:"value" gorm:"type:jsonb"`
	FetchedAt int64  `json:"fetched_at" gorm:"type:bigint"`
	ExpiresAt int64  `json:"expires_at" gorm:"type:bigint;index"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}
