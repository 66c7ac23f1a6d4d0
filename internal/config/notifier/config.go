package notifier_config

import (
	"github.com/hireloop/hireloop/internal/obs"
	pg "github.com/hireloop/hireloop/internal/repository/postgres"
	"github.com/hireloop/hireloop/internal/services/notifier"
)

type KafkaIn struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Config struct {
	DB       pg.Config           `mapstructure:"db"`
	In       KafkaIn             `mapstructure:"kafka_in"`
	SMTP     notifier.SMTPConfig `mapstructure:"smtp"`
	Server   Server              `mapstructure:"server"`
	OTEL     OTEL                `mapstructure:"otel"`
	LogLevel string              `mapstructure:"log_level"`
}
