package config

import (
	"encoding/json"
	"os"
	"strings"
)

type Config struct {
	DataDir         string   `json:"DATA_DIR"`
	ListenAddr      string   `json:"LISTEN_ADDR"`
	JWTSecret       string   `json:"JWT_SECRET"`
	OwnerAddress    string   `json:"OWNER_ADDRESS"`
	TreasuryAddress string   `json:"TREASURY_ADDRESS"`
	ReserveAddress  string   `json:"RESERVE_ADDRESS"`
	InitialSupply   string   `json:"INITIAL_SUPPLY"`
	SignerAddresses []string `json:"SIGNER_ADDRESSES"`
	AllowedOrigins  []string `json:"ALLOWED_ORIGINS"`
}

func LoadConfig(configPath string) (*Config, error) {
	// Open the JSON file
	configFile, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer configFile.Close()

	// Decode the JSON file into `Config`
	var config Config
	if err := json.NewDecoder(configFile).Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FromEnv fills any field left empty in the JSON file from the environment,
// so a .env file can override a checked-in config.
func (c *Config) FromEnv() {
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("OWNER_ADDRESS"); v != "" {
		c.OwnerAddress = v
	}
	if v := os.Getenv("TREASURY_ADDRESS"); v != "" {
		c.TreasuryAddress = v
	}
	if v := os.Getenv("RESERVE_ADDRESS"); v != "" {
		c.ReserveAddress = v
	}
	if v := os.Getenv("INITIAL_SUPPLY"); v != "" {
		c.InitialSupply = v
	}
	if v := os.Getenv("SIGNER_ADDRESSES"); v != "" {
		c.SignerAddresses = strings.Split(v, ",")
	}
}
