package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// APIKey guards the scheduler-triggered finances endpoints.
	APIKey string

	// PrimaryCurrency is the home currency every budget amount is planned in.
	PrimaryCurrency string
	// MonthlyBudget is the daily-expenses monthly budget constant.
	MonthlyBudget decimal.Decimal

	// Wise (ledger service) client settings. The primary profile holds the
	// personal budget; the secondary profile holds household/rent funds.
	WiseBaseURL            string `mapstructure:"WISE_BASE_URL"`
	WiseAPIToken           string `mapstructure:"WISE_API_TOKEN"`
	WisePrimaryProfileID   string `mapstructure:"WISE_PRIMARY_PROFILE_ID"`
	WiseSecondaryProfileID string `mapstructure:"WISE_SECONDARY_PROFILE_ID"`

	// BudgetWorkbookPath points at the monthly finances workbook.
	BudgetWorkbookPath string `mapstructure:"BUDGET_WORKBOOK_PATH"`

	// Discord webhook URLs, one per notification channel.
	DiscordWebhookNotification string `mapstructure:"DISCORD_WEBHOOK_NOTIFICATION"`
	DiscordWebhookWise         string `mapstructure:"DISCORD_WEBHOOK_WISE"`
	DiscordWebhookHousehold    string `mapstructure:"DISCORD_WEBHOOK_HOUSEHOLD"`
	DiscordWebhookLogs         string `mapstructure:"DISCORD_WEBHOOK_LOGS"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("API_KEY", "")
	viper.SetDefault("PRIMARY_CURRENCY", "NZD")
	viper.SetDefault("MONTHLY_BUDGET", "1000")
	viper.SetDefault("WISE_BASE_URL", "https://api.transferwise.com")
	viper.SetDefault("WISE_API_TOKEN", "")
	viper.SetDefault("WISE_PRIMARY_PROFILE_ID", "")
	viper.SetDefault("WISE_SECONDARY_PROFILE_ID", "")
	viper.SetDefault("BUDGET_WORKBOOK_PATH", "")
	viper.SetDefault("DISCORD_WEBHOOK_NOTIFICATION", "")
	viper.SetDefault("DISCORD_WEBHOOK_WISE", "")
	viper.SetDefault("DISCORD_WEBHOOK_HOUSEHOLD", "")
	viper.SetDefault("DISCORD_WEBHOOK_LOGS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.APIKey = viper.GetString("API_KEY")
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set. The finances API will accept unauthenticated requests.")
	}

	cfg.PrimaryCurrency = viper.GetString("PRIMARY_CURRENCY")

	monthlyBudgetStr := viper.GetString("MONTHLY_BUDGET")
	monthlyBudget, err := decimal.NewFromString(monthlyBudgetStr)
	if err != nil {
		monthlyBudget = decimal.NewFromInt(1000)
		log.Printf("Warning: Invalid value for MONTHLY_BUDGET ('%s'). Defaulting to %s.\n", monthlyBudgetStr, monthlyBudget.String())
	}
	cfg.MonthlyBudget = monthlyBudget

	cfg.WiseBaseURL = viper.GetString("WISE_BASE_URL")
	cfg.WiseAPIToken = viper.GetString("WISE_API_TOKEN")
	cfg.WisePrimaryProfileID = viper.GetString("WISE_PRIMARY_PROFILE_ID")
	cfg.WiseSecondaryProfileID = viper.GetString("WISE_SECONDARY_PROFILE_ID")
	if cfg.WiseAPIToken == "" {
		log.Println("Warning: WISE_API_TOKEN not set. Ledger operations will fail.")
	}

	cfg.BudgetWorkbookPath = viper.GetString("BUDGET_WORKBOOK_PATH")
	if cfg.BudgetWorkbookPath == "" {
		log.Println("Warning: BUDGET_WORKBOOK_PATH not set. Budget planning will fail.")
	}

	cfg.DiscordWebhookNotification = viper.GetString("DISCORD_WEBHOOK_NOTIFICATION")
	cfg.DiscordWebhookWise = viper.GetString("DISCORD_WEBHOOK_WISE")
	cfg.DiscordWebhookHousehold = viper.GetString("DISCORD_WEBHOOK_HOUSEHOLD")
	cfg.DiscordWebhookLogs = viper.GetString("DISCORD_WEBHOOK_LOGS")
	if cfg.DiscordWebhookNotification == "" {
		log.Println("Warning: DISCORD_WEBHOOK_NOTIFICATION not set. Notifications will be dropped.")
	}

	return cfg, nil
}
