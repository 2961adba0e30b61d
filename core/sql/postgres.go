package sql

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/saveblush/reraw-search/core/utils"
)

// dsn connection string, without dbname when name is empty
func dsn(cf *Configuration, name string) string {
	s := fmt.Sprintf("user=%s password=%s host=%s port=%d sslmode=disable TimeZone=%s",
		cf.Username,
		cf.Password,
		cf.Host,
		cf.Port,
		utils.TimeZone(),
	)
	if name != "" {
		s += " dbname=" + name
	}

	return s
}

// openPostgres open initialize a new db connection.
func openPostgres(cf *Configuration) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn(cf, cf.DatabaseName),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), defaultConfig)
}
