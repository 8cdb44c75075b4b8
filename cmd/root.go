package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HafizAtif90/ai-guardian/analysis"
	"github.com/HafizAtif90/ai-guardian/chat"
	"github.com/HafizAtif90/ai-guardian/config"
	"github.com/HafizAtif90/ai-guardian/evidence"
	"github.com/HafizAtif90/ai-guardian/geo"
	"github.com/HafizAtif90/ai-guardian/logging"
	"github.com/HafizAtif90/ai-guardian/orchestrator"
	"github.com/HafizAtif90/ai-guardian/recorder"
	"github.com/HafizAtif90/ai-guardian/tui"
	"github.com/HafizAtif90/ai-guardian/workspace"
)

var (
	continueSession bool
	sessionID       string
	debugLogging    bool
)

var rootCmd = &cobra.Command{
	Use:   "guardian",
	Short: "Guardian is a terminal-based personal safety assistant",
	Long: `Guardian is a terminal-based personal safety assistant written in Go.
It submits images, video, audio, or text to a threat-analysis service and
presents the findings in a shared transcript, with safe-route guidance
based on your current location.`,
	Run: func(cmd *cobra.Command, args []string) {
		workDir, err := os.Getwd()
		if err != nil {
			fmt.Printf("Error resolving working directory: %v\n", err)
			os.Exit(1)
		}

		cfg, err := config.LoadConfig(workDir)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		if _, err := workspace.EnsureGuardianDirs(); err != nil {
			fmt.Printf("Error creating guardian directory: %v\n", err)
			os.Exit(1)
		}

		logsDir, err := workspace.LogsDir()
		if err != nil {
			fmt.Printf("Error resolving log directory: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(logsDir, debugLogging)
		defer logger.Sync()

		session, err := openSession(cfg)
		if err != nil {
			fmt.Printf("Error opening session: %v\n", err)
			os.Exit(1)
		}

		requestTimeout := time.Duration(cfg.RequestTimeout) * time.Second
		locateTimeout := time.Duration(cfg.LocationTimeout) * time.Second

		client := analysis.NewClient(cfg.ServiceURL, requestTimeout, logger)
		controller := orchestrator.New(session, logger)

		var locator geo.Locator
		if cfg.GeoLat != 0 || cfg.GeoLng != 0 {
			locator = &geo.StaticLocator{Position: analysis.Location{Lat: cfg.GeoLat, Lng: cfg.GeoLng}}
		} else {
			locator = geo.NewIPLocator(cfg.GeoURL, locateTimeout, logger)
		}

		model := tui.New(tui.Options{
			Controller:     controller,
			Client:         client,
			Locator:        locator,
			Recorder:       buildRecorder(cfg),
			EvidenceDir:    cfg.EvidenceDir,
			RequestTimeout: requestTimeout,
			LocateTimeout:  locateTimeout,
			Theme:          tui.ThemeByName(cfg.Theme),
			ReducedMotion:  cfg.ReducedMotion,
			Logger:         logger,
		})

		if watcher, err := evidence.NewWatcher(cfg.EvidenceDir, logger); err == nil {
			defer watcher.Close()
			model.SetWatcher(watcher)
		} else {
			logger.Warn("evidence watching disabled", zap.Error(err))
		}

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			fmt.Printf("Error starting TUI: %v\n", err)
			os.Exit(1)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVarP(&continueSession, "continue", "c", false, "Continue from the latest chat session")
	rootCmd.Flags().StringVarP(&sessionID, "session", "s", "", "Continue from a specific session ID")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// openSession picks the transcript backing per config and flags. History
// stays in memory unless persistence is enabled.
func openSession(cfg *config.Config) (*chat.Session, error) {
	if !cfg.SaveHistory {
		return chat.NewSession(), nil
	}

	historyDir, err := workspace.HistoryDir()
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		return chat.LoadSessionByID(historyDir, sessionID)
	}
	if continueSession {
		return chat.LoadLatestSession(historyDir)
	}
	return chat.NewPersistentSession(historyDir), nil
}

// buildRecorder assembles the microphone capture session from the configured
// command line, e.g. "arecord -f cd -t wav".
func buildRecorder(cfg *config.Config) *recorder.Session {
	parts := strings.Fields(cfg.CaptureCommand)
	if len(parts) == 0 {
		return nil
	}
	source := recorder.NewCommandSource(parts[0], parts[1:], "audio/wav")
	return recorder.NewSession(source)
}
