package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del motor.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Paper   PaperConfig   `yaml:"paper"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScannerConfig controla el comportamiento del batch scan y los umbrales
// de admisión de oportunidades.
type ScannerConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	// Platforms acota qué exchanges escanear: kalshi, polymarket. Vacío = ambos.
	Platforms  []string `yaml:"platforms"`
	Categories []string `yaml:"categories"` // allow-list por substring; vacío = todas

	MinEdge     float64 `yaml:"min_edge"`      // fracción: 0.02 = 2pp
	MinEV       float64 `yaml:"min_ev"`        // multiplicador de EV
	MinFairProb float64 `yaml:"min_fair_prob"` // cota inferior de prob justa
	MaxFairProb float64 `yaml:"max_fair_prob"`
	MinQuantity int     `yaml:"min_quantity"` // contratos mínimos al precio
	MinKelly    float64 `yaml:"min_kelly"`
	MaxKelly    float64 `yaml:"max_kelly"`

	SpreadMinCents  int     `yaml:"spread_min_cents"` // spread mínimo bid−ask
	SpreadMaxSize   int     `yaml:"spread_max_size"`  // contratos máximos por trade
	BooksPerSecond  int     `yaml:"books_per_second"` // pacing de fetch de orderbooks
	AnalysisWorkers int     `yaml:"analysis_workers"` // 0 = NumCPU
	MinClassScore   float64 `yaml:"min_class_score"`  // 0 = no pre-clasificar
}

// PaperConfig controla la simulación de paper trading.
type PaperConfig struct {
	InitialBalance float64 `yaml:"initial_balance"`
	PositionSize   float64 `yaml:"position_size"`
	MaxPositions   int     `yaml:"max_positions"` // posiciones abiertas simultáneas
	MinEdge        float64 `yaml:"min_edge"`      // edge mínimo para abrir
}

// APIConfig contiene los base URLs de las APIs de los exchanges.
type APIConfig struct {
	KalshiBase string `yaml:"kalshi_base"`
	CLOBBase   string `yaml:"clob_base"`
	GammaBase  string `yaml:"gamma_base"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	Path string `yaml:"path"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Las variables de entorno sobreescriben el YAML para las keys de
// logging y storage.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están
// presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 300
	}
	if cfg.Scanner.MinEdge <= 0 {
		cfg.Scanner.MinEdge = 0.02
	}
	if cfg.Scanner.MinEV <= 0 {
		cfg.Scanner.MinEV = 1.05
	}
	if cfg.Scanner.MaxFairProb <= 0 {
		cfg.Scanner.MaxFairProb = 1.0
	}
	if cfg.Scanner.MinQuantity <= 0 {
		cfg.Scanner.MinQuantity = 100
	}
	if cfg.Scanner.MinKelly <= 0 {
		cfg.Scanner.MinKelly = 0.001
	}
	if cfg.Scanner.MaxKelly <= 0 {
		cfg.Scanner.MaxKelly = 1.0
	}
	if cfg.Scanner.SpreadMinCents <= 0 {
		cfg.Scanner.SpreadMinCents = 2
	}
	if cfg.Scanner.SpreadMaxSize <= 0 {
		cfg.Scanner.SpreadMaxSize = 1000
	}
	if cfg.Scanner.BooksPerSecond <= 0 {
		cfg.Scanner.BooksPerSecond = 5
	}
	if cfg.Paper.InitialBalance <= 0 {
		cfg.Paper.InitialBalance = 10000
	}
	if cfg.Paper.PositionSize <= 0 {
		cfg.Paper.PositionSize = 100
	}
	if cfg.Paper.MaxPositions <= 0 {
		cfg.Paper.MaxPositions = 10
	}
	if cfg.Paper.MinEdge <= 0 {
		cfg.Paper.MinEdge = 0.05
	}
	if cfg.API.KalshiBase == "" {
		cfg.API.KalshiBase = "https://api.elections.kalshi.com/trade-api/v2"
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "edgescan.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
