package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"gallery-viewer/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	StaticDir    string
	PageFile     string
	MappingFile  string
	CacheDir     string
	AssetBaseURL string
	Port         string

	ProbeTimeout     time.Duration
	ProbeRate        float64
	ProbeBypassCache bool

	LogStaticFiles  bool
	LogHealthChecks bool
	MetricsEnabled  bool

	// Derived paths
	ThumbnailDir string

	// Feature flags based on directory availability
	ThumbnailsEnabled bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	staticDir := getEnv("STATIC_DIR", "/static")
	pageFile := getEnv("PAGE_FILE", "")
	mappingFile := getEnv("MAPPING_FILE", "")
	cacheDir := getEnv("CACHE_DIR", "/cache")
	assetBaseURL := getEnv("ASSET_BASE_URL", "")
	port := getEnv("PORT", "8080")
	probeTimeoutStr := getEnv("PROBE_TIMEOUT", "5s")
	probeRate := getEnvFloat("PROBE_RATE", 0)
	probeBypassCache := getEnvBool("PROBE_BYPASS_CACHE", false)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	logging.Info("  STATIC_DIR:          %s", staticDir)
	logging.Info("  PAGE_FILE:           %s", orDefault(pageFile, "(index.html in STATIC_DIR)"))
	logging.Info("  MAPPING_FILE:        %s", orDefault(mappingFile, "(none)"))
	logging.Info("  CACHE_DIR:           %s", cacheDir)
	logging.Info("  ASSET_BASE_URL:      %s", orDefault(assetBaseURL, "(same origin)"))
	logging.Info("  PORT:                %s", port)
	logging.Info("  PROBE_TIMEOUT:       %s", probeTimeoutStr)
	logging.Info("  PROBE_RATE:          %s", rateString(probeRate))
	logging.Info("  PROBE_BYPASS_CACHE:  %v", probeBypassCache)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	probeTimeout, err := time.ParseDuration(probeTimeoutStr)
	if err != nil {
		logging.Warn("  Invalid PROBE_TIMEOUT, using default: 5s")
		probeTimeout = 5 * time.Second
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	staticDir, err = filepath.Abs(staticDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static directory path: %w", err)
	}
	logging.Info("  Static directory (absolute): %s", staticDir)

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	if err := checkDirectory(staticDir, "static"); err != nil {
		logging.Warn("  Static directory issue: %v", err)
	}

	if pageFile == "" {
		pageFile = filepath.Join(staticDir, "index.html")
	} else if pageFile, err = filepath.Abs(pageFile); err != nil {
		return nil, fmt.Errorf("failed to resolve page file path: %w", err)
	}

	if mappingFile != "" {
		if mappingFile, err = filepath.Abs(mappingFile); err != nil {
			return nil, fmt.Errorf("failed to resolve mapping file path: %w", err)
		}
	}

	config := &Config{
		StaticDir:        staticDir,
		PageFile:         pageFile,
		MappingFile:      mappingFile,
		CacheDir:         cacheDir,
		AssetBaseURL:     strings.TrimRight(assetBaseURL, "/"),
		Port:             port,
		ProbeTimeout:     probeTimeout,
		ProbeRate:        probeRate,
		ProbeBypassCache: probeBypassCache,
		LogStaticFiles:   logStaticFiles,
		LogHealthChecks:  logHealthChecks,
		MetricsEnabled:   metricsEnabled,
		ThumbnailDir:     filepath.Join(cacheDir, "thumbnails"),
	}

	// Setup thumbnail directory (optional)
	config.ThumbnailsEnabled = setupOptionalDir(config.ThumbnailDir, "thumbnails")

	// Summary
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Thumbnails:    %s", enabledString(config.ThumbnailsEnabled))
	logging.Info("    Mapping table: %s", enabledString(config.MappingFile != ""))
	logging.Info("    Metrics:       %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	testFile := filepath.Join(path, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("    failed to remove test file %s: %v", testFile, err)
		// Still return true since write succeeded
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func rateString(rate float64) string {
	if rate <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%g req/s", rate)
}

// LogCardsLoaded logs the result of parsing the portfolio page
func LogCardsLoaded(path string, count int, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CARD PARSING")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Page:  %s", path)
	logging.Info("  [OK] %d cards parsed in %v", count, duration)
}

// LogMappingInit logs mapping table initialization
func LogMappingInit(path string, galleries int, watching bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("MAPPING TABLE")
	logging.Info("------------------------------------------------------------")
	if path == "" {
		logging.Info("  No mapping file configured")
		return
	}
	logging.Info("  File:      %s", path)
	logging.Info("  Galleries: %d", galleries)
	if watching {
		logging.Info("  [OK] Watching for changes")
	} else {
		logging.Warn("  File watching unavailable, edits require a restart")
	}
}

// LogProberInit logs probe service initialization
func LogProberInit(workers int, timeout time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("PROBE SERVICE")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Max concurrent probes: %d", workers)
	logging.Info("  Probe timeout:         %v", timeout)
}

// LogThumbnailInit logs thumbnail generator initialization
func LogThumbnailInit(enabled bool) {
	if !enabled {
		logging.Info("  Thumbnails disabled (cache directory not writable)")
		logging.Info("  Original images will be served instead")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.Port)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
   ______       ____                _    ___
  / ____/___ _ / / /__  _______  __| |  / (_)__ _      _____  _____
 / / __/ __ '// / / _ \/ ___/ / / /| | / / / _ \ | /| / / _ \/ ___/
/ /_/ / /_/ // / /  __/ /  / /_/ / | |/ / /  __/ |/ |/ /  __/ /
\____/\__,_//_/_/\___/_/   \__, /  |___/_/\___/|__/|__/\___/_/
                          /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func checkDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist")
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logging.Warn("Invalid numeric value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
