package config

// Default возвращает конфигурацию для запуска без config.yml
func Default() *Config {
	return &Config{
		Logger: &ConfigLogger{Level: "info", Format: "text"},
		Server: &ConfigServer{
			PortGRPC:                50051,
			PortHTTP:                8080,
			HTTPReadTimeout:         15,
			HTTPWriteTimeout:        15,
			HTTPIdleTimeout:         60,
			HTTPReadHeaderTimeout:   5,
			GracefulShutdownTimeout: 10,
		},
		Gateway: &ConfigGateway{
			CORSAllowedOrigins: "*",
			CORSMaxAge:         86400,
			RateLimitRPS:       100,
			RateLimitBurst:     10,
		},
		Storage: &ConfigStorage{Driver: "memory"},
		Auth:    &ConfigAuth{TokenTTLMinutes: 24 * 60},
		Client: &ConfigClient{
			Address:        "localhost:50051",
			SessionFile:    "~/.notes/session.json",
			OfflinePath:    "~/.notes/offline.db",
			RequestTimeout: 10,
		},
	}
}

// FillDefaults заполняет отсутствующие секции значениями по умолчанию
func (c *Config) FillDefaults() {
	d := Default()
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.Server == nil {
		c.Server = d.Server
	}
	if c.Gateway == nil {
		c.Gateway = d.Gateway
	}
	if c.Storage == nil {
		c.Storage = d.Storage
	}
	if c.Auth == nil {
		c.Auth = d.Auth
	}
	if c.Client == nil {
		c.Client = d.Client
	}
}
