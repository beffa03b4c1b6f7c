package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// commands recognized on the command line
var commands = map[string]bool{
	"scan":   true,
	"dupes":  true,
	"search": true,
}

// ParseArguments converts command-line arguments into a map of flags and values
func ParseArguments() map[string]string {
	args := make(map[string]string)

	// First, identify the command
	commandIndex := -1
	for i := 1; i < len(os.Args); i++ {
		if commands[os.Args[i]] {
			args["command"] = os.Args[i]
			commandIndex = i
			break
		}
	}

	// Process all arguments, skipping the command
	for i := 1; i < len(os.Args); i++ {
		if i == commandIndex {
			continue
		}

		arg := os.Args[i]

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			// Check if this is a boolean flag (no value)
			if i+1 >= len(os.Args) || strings.HasPrefix(os.Args[i+1], "--") {
				args[flagName] = "true"
			} else {
				// The next argument is the value
				args[flagName] = os.Args[i+1]
				i++ // Skip the value in the next iteration
			}
		}
	}

	return args
}

// GetDefaultDatabasePath returns the default path for the database file
func GetDefaultDatabasePath() string {
	exePath, err := os.Executable()
	if err != nil {
		// Fallback to current directory if executable path can't be determined
		return "images.db"
	}

	return filepath.Join(filepath.Dir(exePath), "images.db")
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage() {
	fmt.Printf("Usage:\n")
	fmt.Printf("  %s scan --folder=PATH [--database=PATH] [--prefix=NAME] [--force] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("  %s dupes --folder=PATH [--threshold=VALUE] [--grid=N] [--debug]\n", os.Args[0])
	fmt.Printf("  %s search --image=PATH [--database=PATH] [--threshold=VALUE] [--prefix=NAME] [--debug]\n", os.Args[0])
	fmt.Printf("\nParameters:\n")
	fmt.Printf("  --folder      : Path to folder containing images\n")
	fmt.Printf("  --image       : Path to query image for search\n")
	fmt.Printf("  --database    : Path to database file (default: %s)\n", GetDefaultDatabasePath())
	fmt.Printf("  --prefix      : Source prefix for scanning/filtering results\n")
	fmt.Printf("  --force       : Force rewrite existing entries during scan\n")
	fmt.Printf("  --threshold   : Similarity threshold in percent (0-100, default: 90)\n")
	fmt.Printf("  --grid        : Fingerprint sampling grid edge (default: 8)\n")
	fmt.Printf("  --config      : Path to a dupfinder.yaml config file\n")
	fmt.Printf("  --debug       : Enable debug mode (logs detailed information)\n")
	fmt.Printf("  --logfile     : Specify custom log file path (default: dupfinder.log)\n")
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  %s scan --folder=/path/to/images --prefix=ExternalDrive1 --debug\n", os.Args[0])
	fmt.Printf("  %s dupes --folder=/path/to/images --threshold=95\n", os.Args[0])
	fmt.Printf("  %s search --image=/path/to/query.jpg --threshold=85\n", os.Args[0])
}

// ParseThreshold parses and validates a similarity threshold. Values in
// (0, 1] are treated as fractions and scaled to percent.
func ParseThreshold(thresholdStr string) (float64, error) {
	parsed, err := strconv.ParseFloat(thresholdStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold value %q: %w", thresholdStr, err)
	}
	if parsed > 0 && parsed <= 1 {
		parsed *= 100
	}
	if parsed < 0 || parsed > 100 {
		return 0, fmt.Errorf("threshold %q out of range (0-100)", thresholdStr)
	}
	return parsed, nil
}

// ParseGridEdge parses and validates the sampling grid edge length.
func ParseGridEdge(gridStr string) (int, error) {
	parsed, err := strconv.Atoi(gridStr)
	if err != nil {
		return 0, fmt.Errorf("invalid grid edge %q: %w", gridStr, err)
	}
	if parsed < 2 || parsed > 64 {
		return 0, fmt.Errorf("grid edge %q out of range (2-64)", gridStr)
	}
	return parsed, nil
}
