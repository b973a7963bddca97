package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultTerritoryImageURL = "https://lh3.googleusercontent.com/aida-public/AB6AXuCsRoyV-6L8kxFoEsrUSmx3Au_MN5xTTTFP8KSk0b3fWX9Mjw2rNUqWSMPyeHFuJyAwWit1vxR0HfTJxFs5UCgxe0nJh-KV9bLBRRo2bNMM4faR2XdOGH2-Y8J_Ppt2YadBNh9Dgq03XqUUhfM5K1HwCLBeXLY1-PMWxDuXYK2v5P5JhHHG4A2mJ25XorXwWoMHTYn4PMEjrklr2D3gXOrEOfd1g_c5myqV-IM0FGZ1SxqvShlnqvaLFb4vkP3k9IrZZlpg0qZU-ZI"

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port            int
	JWTSecret       string
	JWTAccessTTL    time.Duration
	AllowOrigins    []string
	BaseURL         string
	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig
	Congregation    CongregationConfig
	Summary         SummaryConfig
	QRServiceURL    string
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// CongregationConfig descreve o estado inicial da congregação.
type CongregationConfig struct {
	ID                string
	Name              string
	TerritoryCount    int
	TerritoryImageURL string
}

// SummaryConfig descreve o serviço externo de resumo de observações.
type SummaryConfig struct {
	APIKey  string
	APIBase string
	Model   string
	Timeout time.Duration
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWTAccessTTL = accessTTL

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.BaseURL = strings.TrimSpace(getEnv("BASE_URL", "http://localhost:5173/"))

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	cfg.Congregation.ID = strings.TrimSpace(getEnv("CONG_ID", "CONG-SUL-PELOTAS"))
	cfg.Congregation.Name = strings.TrimSpace(getEnv("CONG_NAME", "Sul Pelotas"))

	countStr := getEnv("CONG_TERRITORIES", "25")
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 0 {
		return nil, errors.New("CONG_TERRITORIES inválido")
	}
	cfg.Congregation.TerritoryCount = count

	cfg.Congregation.TerritoryImageURL = strings.TrimSpace(getEnv("TERRITORY_IMAGE_URL", defaultTerritoryImageURL))

	cfg.Summary.APIKey = strings.TrimSpace(getEnv("SUMMARY_API_KEY", ""))
	cfg.Summary.APIBase = strings.TrimSpace(getEnv("SUMMARY_API_BASE", ""))
	cfg.Summary.Model = strings.TrimSpace(getEnv("SUMMARY_MODEL", ""))

	summaryTimeout, err := parseDurationEnv("SUMMARY_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Summary.Timeout = summaryTimeout

	cfg.QRServiceURL = strings.TrimSpace(getEnv("QR_SERVICE_URL", ""))

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
