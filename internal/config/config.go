package config

import (
	"net/url"
	"time"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"registrations.db"`

	Store  Store  `envPrefix:"STORE_"`
	LiqPay LiqPay `envPrefix:"LIQPAY_"`
}

type LiqPay struct {
	PublicKey         string `env:"PUBLIC_KEY,required"`
	PrivateKey        string `env:"PRIVATE_KEY,required"`
	CheckoutURL       string `env:"CHECKOUT_URL" envDefault:"https://www.liqpay.ua/api/3/checkout"`
	Currency          string `env:"CURRENCY" envDefault:"UAH"`
	Language          string `env:"LANGUAGE" envDefault:"uk"`
	Sandbox           bool   `env:"SANDBOX" envDefault:"false"`
	DescriptionPrefix string `env:"DESCRIPTION_PREFIX" envDefault:"Conference registration"`
}

// Store selects the record store backend.
// Driver is one of sqlite, mysql (both use DATABASE_URL), xlsx or sheets.
type Store struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"10s"`
	XLSXPath        string        `env:"XLSX_PATH" envDefault:"registrations.xlsx"`
	SheetName       string        `env:"SHEET_NAME" envDefault:"Sheet1"`
	SpreadsheetID   string        `env:"SPREADSHEET_ID"`
	CredentialsFile string        `env:"CREDENTIALS_FILE"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

func (c *Config) CallbackURL() string {
	return c.BaseURL + "/webhook/payment"
}

func (c *Config) ResultURL(submissionID string) string {
	return c.BaseURL + "/pay/" + url.PathEscape(submissionID)
}
