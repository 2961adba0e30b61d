package cctx

import (
	"gorm.io/gorm"

	"github.com/saveblush/reraw-search/core/sql"
)

// GetDatabase get connection database, nil when the cache runs in memory
func (c *Context) GetDatabase() *gorm.DB {
	if sql.CacheDatabase == nil {
		return nil
	}

	return sql.CacheDatabase.WithContext(c)
}
