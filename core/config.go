package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config loanbook config
type Config struct {
	App       App       `json:"app"`
	DB        db.Config `json:"db"`
	Oracle    Oracle    `json:"oracle"`
	Custodian Custodian `json:"custodian"`
	Admins    []string  `json:"admins"`
}

// IsAdmin check if the operator is an administrator
func (c *Config) IsAdmin(operator string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == operator {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	Location string `json:"location"`
}

// Oracle price oracle config
type Oracle struct {
	EndPoint string `json:"end_point"`
	// CacheSeconds quote cache TTL, 0 disables caching
	CacheSeconds int64 `json:"cache_seconds"`
}

// Custodian token transfer collaborator config
type Custodian struct {
	EndPoint string `json:"end_point"`
	APIToken string `json:"api_token"`
}
