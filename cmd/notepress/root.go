package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hkan/notepress"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string
var siteCfg notepress.SiteConfig

var rootCmd = &cobra.Command{
	Use:   "notepress",
	Short: "notepress - a personal notes site engine",
	Long: `Notepress serves a site of markdown notes with an admin dashboard,
RSS feed, sitemap, and privacy-first analytics. The same site can be
exported as plain static HTML with the build command.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./site.yaml)")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the notepress version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notepress %s\n", version)
	},
}

func initializeConfig(_ *cobra.Command) error {
	// Secrets for local development live in .env; absence is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("name", "Notes")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("base_path", "/")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("addr", ":3000")
	v.SetDefault("content_dir", "content")
	v.SetDefault("static_dir", "public")
	v.SetDefault("output_dir", "dist")
	v.SetDefault("analytics", false)
	v.SetDefault("analytics_db", "data/analytics.db")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("cache_ttl", "30s")
	v.SetDefault("recent_count", 5)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("site")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("NOTEPRESS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				return fmt.Errorf("config file %s not found: %w", cfgFile, err)
			}
			// No site.yaml around, defaults and environment apply.
		} else {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	siteCfg = notepress.SiteConfig{
		Name:        v.GetString("name"),
		URL:         v.GetString("url"),
		BasePath:    v.GetString("base_path"),
		Description: v.GetString("description"),
		Author:      v.GetString("author"),

		Addr:       v.GetString("addr"),
		ContentDir: v.GetString("content_dir"),
		StaticDir:  v.GetString("static_dir"),
		OutputDir:  v.GetString("output_dir"),

		AnalyticsEnabled:      v.GetBool("analytics"),
		AnalyticsDatabasePath: v.GetString("analytics_db"),

		// Secrets never come from site.yaml.
		AdminPassword: os.Getenv("NOTEPRESS_ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("NOTEPRESS_SESSION_SECRET"),
		CookieSecure:  v.GetBool("cookie_secure"),

		NoteCacheTTL: v.GetDuration("cache_ttl"),
		RecentCount:  v.GetInt("recent_count"),
	}

	return nil
}
