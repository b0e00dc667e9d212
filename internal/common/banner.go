package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	printBanner(os.Stderr, config)

	logger.Info().
		Str("version", Version).
		Str("environment", config.Environment).
		Str("series_source", config.Series.Source).
		Int("port", config.Server.Port).
		Msg("Application started")
}

func printBanner(w io.Writer, config *Config) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 56) + banner.ColorReset

	fmt.Fprintf(w, "\n%s\n\n", hr)
	fmt.Fprintf(w, "%s  FOLIO  Time-Weighted Return Service%s\n\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "%s\n\n", hr)

	kvLines := [][2]string{
		{"Version", GetFullVersion()},
		{"Environment", config.Environment},
		{"Service URL", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)},
		{"Series", config.Series.Source},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-14s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)
}

// PrintShutdownBanner displays the application shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	hr := banner.ColorCyan + strings.Repeat("═", 32) + banner.ColorReset
	fmt.Fprintf(os.Stderr, "\n%s\n%s  FOLIO  SHUTTING DOWN%s\n%s\n\n", hr, banner.ColorBold+banner.ColorWhite, banner.ColorReset, hr)

	logger.Info().Msg("Application shutting down")
}
