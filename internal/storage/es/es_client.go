package es

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
	// APIKey takes precedence over basic auth when set.
	APIKey     string
	MaxRetries int
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses:     config.Addresses,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests},
		MaxRetries:    config.MaxRetries,
	}

	switch {
	case config.APIKey != "":
		cfg.APIKey = config.APIKey
	case config.Username != "" && config.Password != "":
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
