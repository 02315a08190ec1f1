package connectors

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPTimeoutSec  int   `envconfig:"EXCHANGE_HTTP_TIMEOUT_SEC" default:"15"`
	RecvWindowMs    int64 `envconfig:"EXCHANGE_RECV_WINDOW_MS" default:"5000"`
	OrderWindowDays int   `envconfig:"EXCHANGE_ORDER_WINDOW_DAYS" default:"7"`
	HistoryPageSize int   `envconfig:"EXCHANGE_HISTORY_PAGE_SIZE" default:"500"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
