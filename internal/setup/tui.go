// Package setup provides the terminal configuration wizard.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/Trademarathon/portfolio-tracker-sub003/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes config.gen.yaml.
func RunTUI() error {
	var (
		snapshotPath string
		listenAddr   string
		priceSource  string
		refreshStr   string
		aiMode       string
		confirm      bool
	)

	// defaults
	snapshotPath = "activity.yaml"
	listenAddr = ":8087"
	refreshStr = "5m"

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ACTIVITY DASHBOARD SETUP"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Point the pipeline at your activity export.\n"))

	fmt.Println(stepStyle.Render("STEP 1: DATA"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Activity Snapshot Path").
				Description("YAML export with events, connections and prices").
				Value(&snapshotPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("snapshot path cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Dashboard Listen Address").
				Value(&listenAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ACTIVITY DASHBOARD SETUP"))
	fmt.Println(stepStyle.Render("STEP 2: LIVE QUOTES"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Live Quote Source").
				Description("Overlays fresh USD quotes onto the snapshot prices").
				Options(
					huh.NewOption("None (snapshot prices only)", config.PriceSourceNone),
					huh.NewOption("Binance", config.PriceSourceBinance),
					huh.NewOption("Bybit", config.PriceSourceBybit),
					huh.NewOption("Hyperliquid", config.PriceSourceHyperliquid),
				).
				Value(&priceSource),
			huh.NewInput().
				Title("Refresh Interval").
				Description("Duration string (e.g. 1m, 5m)").
				Value(&refreshStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ACTIVITY DASHBOARD SETUP"))
	fmt.Println(stepStyle.Render("STEP 3: ASSISTANT"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default AI Context Mode").
				Options(
					huh.NewOption("Overview", "overview"),
					huh.NewOption("Route health", "route_health"),
					huh.NewOption("Fee drift", "fee_drift"),
					huh.NewOption("Memory signal", "memory_signal"),
				).
				Value(&aiMode),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ACTIVITY DASHBOARD SETUP"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Snapshot: %s\nListen: %s\nQuotes: %s\nRefresh: %s\nAI mode: %s\n",
		snapshotPath, listenAddr, priceSource, refreshStr, aiMode,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	refresh, _ := time.ParseDuration(refreshStr)
	fileCfg := config.FileConfig{
		SnapshotPath:    snapshotPath,
		ListenAddr:      listenAddr,
		PriceSource:     priceSource,
		RefreshInterval: refresh,
		AIMode:          aiMode,
	}

	data, err := yaml.Marshal(fileCfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting dashboard...", filename)))
	time.Sleep(1500 * time.Millisecond)
	return nil
}
