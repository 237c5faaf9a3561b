package config

import "time"

// DefaultRateURL is the Banco Central SGS endpoint for series 4392 (CDI, annualized).
const DefaultRateURL = "https://api.bcb.gov.br/dados/serie/bcdata.sgs.4392/dados"

type Config struct {
	StorePath   string
	RateURL     string
	HTTPTimeout time.Duration
	Samples     int
	Interval    time.Duration
	ChartDir    string
	ChartTitle  string
	ChartWidth  int
	ChartHeight int
}

// Load returns the compiled-in settings. The tool takes no flags or
// environment variables, so there is nothing else to read.
func Load() Config {
	return Config{
		StorePath:   "taxa-cdi.csv",
		RateURL:     DefaultRateURL,
		HTTPTimeout: 30 * time.Second,
		Samples:     10,
		Interval:    time.Second,
		ChartDir:    ".",
		ChartTitle:  "Variação da Taxa CDI",
		ChartWidth:  1000,
		ChartHeight: 600,
	}
}
