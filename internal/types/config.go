package types

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultLowStockThreshold is the stock count boundary whose downward
// crossing is alert-worthy even without a full stock-out.
const DefaultLowStockThreshold = 10000

// Config holds everything a run needs. It is built once at process
// entry from environment variables and flags, validated, and passed
// explicitly to every component.
type Config struct {
	TargetURL  string
	WebhookURL string
	AuthName   string

	GistID    string
	GistToken string
	GistFile  string

	SingleItem     bool
	Items          []TrackedItem
	TargetPriceRaw string
	Targets        map[string]int

	LowStockThreshold int

	FetchProfile  string // "http" or "browser"
	StoreBackend  string // "gist" or "sqlite"
	NotifyBackend string // "discord" or "telegram"

	SQLitePath     string
	TelegramToken  string
	TelegramChatID int64

	Timeout   time.Duration
	UserAgent string
	DebugDir  string
}

// DefaultConfig returns a config with tunables set; required settings
// still have to come from the environment.
func DefaultConfig() *Config {
	return &Config{
		GistFile:          "database.json",
		Items:             DefaultItems(),
		LowStockThreshold: DefaultLowStockThreshold,
		FetchProfile:      "http",
		StoreBackend:      "gist",
		NotifyBackend:     "discord",
		SQLitePath:        "./snapshots.db",
		Timeout:           10 * time.Second,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// DefaultItems returns the bundle sizes tracked when ITEM_AMOUNTS is
// not set.
func DefaultItems() []TrackedItem {
	return []TrackedItem{
		NewTrackedItem(100),
		NewTrackedItem(500),
		NewTrackedItem(1000),
	}
}

// LoadConfig reads settings from the environment on top of the
// defaults. Flag overrides are applied by the caller afterwards;
// Validate decides whether the run may proceed.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	cfg.TargetURL = os.Getenv("TARGET_URL")
	cfg.WebhookURL = os.Getenv("DISCORD_WEBHOOK_URL")
	cfg.AuthName = os.Getenv("AUTH_NAME")
	cfg.GistID = os.Getenv("GIST_ID")
	cfg.GistToken = os.Getenv("GIST_PAT")
	if f := os.Getenv("GIST_FILENAME"); f != "" {
		cfg.GistFile = f
	}
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		cfg.TelegramChatID = id
	}
	cfg.DebugDir = os.Getenv("DEBUG_DIR")
	cfg.TargetPriceRaw = os.Getenv("TARGET_PRICE")

	if raw := os.Getenv("ITEM_AMOUNTS"); raw != "" {
		items, err := ParseItemAmounts(raw)
		if err != nil {
			return nil, err
		}
		cfg.Items = items
	}
	if raw := os.Getenv("LOW_STOCK_THRESHOLD"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LOW_STOCK_THRESHOLD %q", raw)
		}
		cfg.LowStockThreshold = n
	}

	return cfg, nil
}

// Validate checks that every setting the selected backends need is
// present. Validation failure is the only reason the process may exit
// non-zero.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("TARGET_URL not set")
	}
	if c.AuthName == "" {
		return fmt.Errorf("AUTH_NAME not set")
	}

	switch c.FetchProfile {
	case "http", "browser":
	default:
		return fmt.Errorf("unknown fetch profile %q (want http or browser)", c.FetchProfile)
	}

	switch c.StoreBackend {
	case "gist":
		if c.GistID == "" {
			return fmt.Errorf("GIST_ID not set")
		}
		if c.GistToken == "" {
			return fmt.Errorf("GIST_PAT not set")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite path not set")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want gist or sqlite)", c.StoreBackend)
	}

	switch c.NotifyBackend {
	case "discord":
		if c.WebhookURL == "" {
			return fmt.Errorf("DISCORD_WEBHOOK_URL not set")
		}
	case "telegram":
		if c.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN not set")
		}
		if c.TelegramChatID == 0 {
			return fmt.Errorf("TELEGRAM_CHAT_ID not set")
		}
	default:
		return fmt.Errorf("unknown notify backend %q (want discord or telegram)", c.NotifyBackend)
	}

	if c.TargetPriceRaw == "" {
		return fmt.Errorf("TARGET_PRICE not set")
	}
	targets, err := ParseTargets(c.TargetPriceRaw, c.TrackedItems())
	if err != nil {
		return err
	}
	c.Targets = targets

	return nil
}

// TrackedItems returns the descriptors in effect for this run: the
// configured bundle list, or the implicit single item.
func (c *Config) TrackedItems() []TrackedItem {
	if c.SingleItem {
		return []TrackedItem{SingleItem()}
	}
	return c.Items
}

// ParseItemAmounts turns "100,500,1000" into tracked-item
// descriptors, sorted by ascending unit amount.
func ParseItemAmounts(raw string) ([]TrackedItem, error) {
	parts := strings.Split(raw, ",")
	amounts := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid item amount %q", p)
		}
		amounts = append(amounts, n)
	}
	if len(amounts) == 0 {
		return nil, fmt.Errorf("no item amounts given")
	}
	sort.Ints(amounts)
	items := make([]TrackedItem, 0, len(amounts))
	for _, a := range amounts {
		items = append(items, NewTrackedItem(a))
	}
	return items, nil
}

// ParseTargets parses the TARGET_PRICE setting: a single integer
// (applied to every tracked item) or a comma-separated list aligned
// to the tracked items in ascending unit-size order.
func ParseTargets(raw string, items []TrackedItem) (map[string]int, error) {
	parts := strings.Split(raw, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid TARGET_PRICE entry %q", p)
		}
		values = append(values, n)
	}

	targets := make(map[string]int, len(items))
	switch {
	case len(values) == 1:
		for _, it := range items {
			targets[it.ID] = values[0]
		}
	case len(values) == len(items):
		for i, it := range items {
			targets[it.ID] = values[i]
		}
	default:
		return nil, fmt.Errorf("TARGET_PRICE has %d entries for %d tracked items", len(values), len(items))
	}
	return targets, nil
}
