package controller

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	SyncTimeoutSec   int `envconfig:"SYNC_TIMEOUT_SEC" default:"60"`
	RecentWindowDays int `envconfig:"RECENT_SYMBOL_WINDOW_DAYS" default:"30"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
