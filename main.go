package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"time"

	"dupfinder/config"
	"dupfinder/database"
	"dupfinder/dedupe"
	"dupfinder/fingerprint"
	"dupfinder/logging"
	"dupfinder/scanner"
	"dupfinder/signalhandler"
	"dupfinder/types"
	"dupfinder/utils"
)

func main() {
	runtime.GOMAXPROCS(signalhandler.GetOptimalProcs())

	// Parse command line arguments into a map
	args := utils.ParseArguments()
	command, hasCommand := args["command"]

	cfg, err := config.LoadConfig(args["config"])
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	applyFlagOverrides(args, cfg)

	if cfg.Debug {
		logging.SetDebug(true)
		if err := logging.SetupLogger(cfg.LogFile); err != nil {
			fmt.Printf("Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Printf("Debug mode enabled. Logging to: %s\n", cfg.LogFile)
		}
	}
	defer logging.CloseLogger()

	// Check if required arguments are missing
	showUsage := !hasCommand

	if hasCommand && (command == "scan" || command == "dupes") && args["folder"] == "" {
		showUsage = true
	}

	if hasCommand && command == "search" && args["image"] == "" {
		showUsage = true
	}

	if showUsage {
		utils.PrintUsage()
		os.Exit(1)
	}

	switch command {
	case "scan":
		handleScanCommand(args, cfg)
	case "dupes":
		handleDupesCommand(args, cfg)
	case "search":
		handleSearchCommand(args, cfg)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		utils.PrintUsage()
		os.Exit(1)
	}
}

// applyFlagOverrides lets command-line flags win over config file and
// environment values.
func applyFlagOverrides(args map[string]string, cfg *config.Config) {
	if customDB, ok := args["database"]; ok && customDB != "" {
		cfg.Database = customDB
	} else if customDB, ok := args["db"]; ok && customDB != "" {
		// Allow --db as an alias for --database
		cfg.Database = customDB
	}

	if thresholdStr, ok := args["threshold"]; ok {
		parsed, err := utils.ParseThreshold(thresholdStr)
		if err != nil {
			fmt.Printf("Warning: %v, using %.1f\n", err, cfg.Threshold)
		} else {
			cfg.Threshold = parsed
		}
	}

	if gridStr, ok := args["grid"]; ok {
		parsed, err := utils.ParseGridEdge(gridStr)
		if err != nil {
			fmt.Printf("Warning: %v, using %d\n", err, cfg.GridEdge)
		} else {
			cfg.GridEdge = parsed
		}
	}

	if _, ok := args["debug"]; ok {
		cfg.Debug = true
	}

	if logPath, ok := args["logfile"]; ok && logPath != "" {
		cfg.LogFile = logPath
	}
}

// openDatabaseWithRetry initializes the database, retrying on transient
// locking failures.
func openDatabaseWithRetry(dbPath string) (*sql.DB, error) {
	const maxRetries = 3
	var db *sql.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = database.InitDatabase(dbPath)
		if err == nil {
			return db, nil
		}
		if i < maxRetries-1 {
			log.Printf("Error initializing database (attempt %d/%d): %v - retrying...",
				i+1, maxRetries, err)
			time.Sleep(time.Second * time.Duration(i+1))
		}
	}
	return nil, fmt.Errorf("error initializing database after %d attempts: %w", maxRetries, err)
}

func validateFolder(folderPath string) {
	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Fatalf("Folder path does not exist: %s", folderPath)
		}
		log.Fatalf("Cannot access folder path: %s (%v)", folderPath, err)
	}
	if !folderInfo.IsDir() {
		log.Fatalf("Path is not a directory: %s", folderPath)
	}
}

func handleScanCommand(args map[string]string, cfg *config.Config) {
	folderPath := args["folder"]
	validateFolder(folderPath)

	forceRewrite := false
	if _, ok := args["force"]; ok {
		forceRewrite = true
	}

	ctx, cancel := signalhandler.NewContext()
	defer cancel()

	startTime := time.Now()

	db, err := openDatabaseWithRetry(cfg.Database)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	opts := scanner.Options{
		FolderPath:   folderPath,
		SourcePrefix: args["prefix"],
		ForceRewrite: forceRewrite,
		DebugMode:    cfg.Debug,
		GridEdge:     cfg.GridEdge,
		MaxWorkers:   cfg.MaxWorkers,
	}

	if err := scanner.ScanAndStoreFolder(ctx, db, opts); err != nil {
		log.Fatalf("Error scanning folder: %v", err)
	}

	fmt.Printf("\nScan completed successfully!\n")
	fmt.Printf("Total execution time: %v\n", time.Since(startTime))
	fmt.Printf("Database: %s\n", cfg.Database)

	stats, err := database.GetScanStats(db, opts.SourcePrefix)
	if err == nil && stats != nil {
		fmt.Printf("\nSummary:\n")
		fmt.Printf("- Total images indexed: %d\n", stats.TotalImages)
		fmt.Printf("- Unique fingerprints: %d\n", stats.UniqueHashes)
	}
}

func handleDupesCommand(args map[string]string, cfg *config.Config) {
	folderPath := args["folder"]
	validateFolder(folderPath)

	ctx, cancel := signalhandler.NewContext()
	defer cancel()

	startTime := time.Now()

	opts := scanner.Options{
		FolderPath: folderPath,
		DebugMode:  cfg.Debug,
		GridEdge:   cfg.GridEdge,
		MaxWorkers: cfg.MaxWorkers,
	}

	fmt.Printf("Looking for duplicates in %s (threshold %.1f%%)...\n", folderPath, cfg.Threshold)

	groups, batch, err := scanner.FindDuplicateGroups(ctx, opts, cfg.Threshold)
	if err != nil {
		log.Fatalf("Error finding duplicates: %v", err)
	}

	printDuplicateReport(groups, batch, cfg.Threshold)
	fmt.Printf("\nTotal time: %v\n", time.Since(startTime).Round(time.Millisecond))
}

// printDuplicateReport renders groups with the seed marked as the image
// to keep, then the unique count, then any files that failed to decode.
func printDuplicateReport(groups []dedupe.Group, batch *scanner.BatchResult, threshold float64) {
	grouped := 0
	for i, group := range groups {
		fmt.Printf("\nGroup %d (%d images):\n", i+1, len(group.Records))
		keep := group.Keep()
		fmt.Printf("  [Keep] %s\n", keep.Path)
		for _, dup := range group.Duplicates() {
			fmt.Printf("  [Dup ] %s (similarity to keep: %.1f%%)\n",
				dup.Path, fingerprint.Similarity(keep.Fingerprint, dup.Fingerprint))
		}
		grouped += len(group.Records)
	}

	if len(groups) == 0 {
		fmt.Println("\nNo duplicate groups found.")
	}

	fmt.Printf("\nUnique images: %d\n", len(batch.Records)-grouped)

	if len(batch.Failures) > 0 {
		fmt.Printf("\nFailed to process %d file(s):\n", len(batch.Failures))
		for _, failure := range batch.Failures {
			fmt.Printf("  %s: %v\n", failure.Path, failure.Err)
		}
	}
}

func handleSearchCommand(args map[string]string, cfg *config.Config) {
	queryPath := args["image"]

	if _, err := os.Stat(queryPath); os.IsNotExist(err) {
		log.Fatalf("Query image does not exist: %s", queryPath)
	}

	if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
		log.Fatalf("Database does not exist: %s. Run scan command first.", cfg.Database)
	}

	startTime := time.Now()

	data, err := os.ReadFile(queryPath)
	if err != nil {
		log.Fatalf("Cannot read query image: %v", err)
	}

	queryFp, err := fingerprint.FromBytes(data, cfg.GridEdge)
	if err != nil {
		log.Fatalf("Cannot fingerprint query image: %v", err)
	}

	db, err := database.OpenDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	fmt.Println("Searching for similar images...")
	if prefix := args["prefix"]; prefix != "" {
		fmt.Printf("Filtering by source prefix: %s\n", prefix)
	}

	records, err := database.LoadFingerprints(db, args["prefix"])
	if err != nil {
		log.Fatalf("Error loading fingerprints: %v", err)
	}

	var matches []types.ImageMatch
	for _, record := range records {
		similarity := fingerprint.Similarity(queryFp, record.Fingerprint)
		if similarity >= cfg.Threshold {
			matches = append(matches, types.ImageMatch{
				Path:       record.Path,
				Similarity: similarity,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	fmt.Println("\nTop Matches:")
	limit := 5 // Show top 5 matches

	if len(matches) == 0 {
		fmt.Println("No matches found.")
	} else {
		for i := 0; i < limit && i < len(matches); i++ {
			fmt.Printf("%d. Image: %s\n", i+1, matches[i].Path)
			fmt.Printf("   Similarity: %.1f%%\n", matches[i].Similarity)
		}
	}

	fmt.Printf("\nTotal search time: %v\n", time.Since(startTime))
}
