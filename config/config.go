package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort      string
	MetricsPort      string
	Environment      string
	PostgreSQLConfig PostgreSQLConfig
	KafkaConfig      KafkaConfig
	JazzCashConfig   JazzCashConfig
	SMTPConfig       SMTPConfig
	TracingConfig    TracingConfig
}

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

// JazzCashConfig holds the merchant credentials and gateway endpoints. The
// integrity salt is the HMAC key for every message exchanged with JazzCash
// and must never be logged.
type JazzCashConfig struct {
	MerchantID       string
	Password         string
	IntegritySalt    string
	ReturnURL        string
	IPNURL           string
	CheckoutURL      string
	StatusInquiryURL string
	Currency         string
	Language         string
	ExpiryHours      int
}

type SMTPConfig struct {
	Sender   string
	Password string
	Server   string
	Port     int
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	expiryHours, err := strconv.Atoi(os.Getenv("JAZZCASH_EXPIRY_HOURS"))
	if err != nil || expiryHours <= 0 {
		expiryHours = 24
	}

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	currency := os.Getenv("JAZZCASH_CURRENCY")
	if currency == "" {
		currency = "PKR"
	}

	language := os.Getenv("JAZZCASH_LANGUAGE")
	if language == "" {
		language = "EN"
	}

	conf := Config{
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		JazzCashConfig: JazzCashConfig{
			MerchantID:       os.Getenv("JAZZCASH_MERCHANT_ID"),
			Password:         os.Getenv("JAZZCASH_PASSWORD"),
			IntegritySalt:    os.Getenv("JAZZCASH_INTEGRITY_SALT"),
			ReturnURL:        os.Getenv("JAZZCASH_RETURN_URL"),
			IPNURL:           os.Getenv("JAZZCASH_IPN_URL"),
			CheckoutURL:      os.Getenv("JAZZCASH_CHECKOUT_URL"),
			StatusInquiryURL: os.Getenv("JAZZCASH_STATUS_INQUIRY_URL"),
			Currency:         currency,
			Language:         language,
			ExpiryHours:      expiryHours,
		},
		SMTPConfig: SMTPConfig{
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			Server:   os.Getenv("SMTP_SERVER"),
			Port:     smtpPort,
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	return &conf
}

// Validate reports missing gateway credentials. A service running without
// them would sign nothing and verify nothing, so the caller treats this as
// fatal at startup, never per-request.
func (c *Config) Validate() error {
	missing := []string{}
	if c.JazzCashConfig.MerchantID == "" {
		missing = append(missing, "JAZZCASH_MERCHANT_ID")
	}
	if c.JazzCashConfig.Password == "" {
		missing = append(missing, "JAZZCASH_PASSWORD")
	}
	if c.JazzCashConfig.IntegritySalt == "" {
		missing = append(missing, "JAZZCASH_INTEGRITY_SALT")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing JazzCash configuration: %v", missing)
	}

	return nil
}
