package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"socialnet/app/config"
	"socialnet/app/repositories"
)

// Overridden in tests; nil means the process streams.
var (
	stdin  io.Reader
	stdout io.Writer
)

func input() io.Reader {
	if stdin != nil {
		return stdin
	}
	return os.Stdin
}

func output() io.Writer {
	if stdout != nil {
		return stdout
	}
	return os.Stdout
}

// HandleCommand handles db subcommands and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printDbHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "help":
		printDbHelp()
		return 0
	case "init", "clean", "backup", "restore":
	default:
		fmt.Fprintf(output(), "Unknown db command: %s\n\n", cmd)
		printDbHelp()
		return 1
	}

	if cmd == "restore" && len(args) < 2 {
		fmt.Fprintln(output(), "Error: backup file path required for restore")
		return 1
	}

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(output(), "Failed to load config: %v\n", err)
		return 1
	}
	if cfg.Database.Driver != config.DriverBadger {
		fmt.Fprintf(output(), "db commands require DATABASE_DRIVER=%s, got %s\n", config.DriverBadger, cfg.Database.Driver)
		return 1
	}
	dbPath := cfg.Database.Path

	switch cmd {
	case "init":
		return initDb(dbPath)
	case "clean":
		return clean(dbPath)
	case "backup":
		out := ""
		if len(args) > 1 {
			out = args[1]
		}
		return backup(dbPath, out)
	default:
		return restore(dbPath, args[1])
	}
}

// printDbHelp prints help for db subcommands.
func printDbHelp() {
	helpText := `Usage: socialnet db <command>

Commands:
  init                            Initialize a new empty database
  clean                           Remove the database
  backup [file]                   Create a backup of the database
  restore <file>                  Restore database from backup
  help                            Display this help message

The database location is taken from DATABASE_PATH.
`
	fmt.Fprintln(output(), helpText)
}

func confirm(prompt string) bool {
	fmt.Fprintf(output(), "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(input()).ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// clean removes the database.
func clean(dbPath string) int {
	if !exists(dbPath) {
		fmt.Fprintln(output(), "Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(output(), "Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Fprintf(output(), "Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Fprintln(output(), "Database cleaned successfully")
	return 0
}

// initDb initializes a new empty database.
func initDb(dbPath string) int {
	if exists(dbPath) {
		fmt.Fprintln(output(), "Database already exists. Use 'clean' first if you want to reinitialize.")
		return 1
	}

	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		fmt.Fprintf(output(), "Failed to create database directory: %v\n", err)
		return 1
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to initialize database: %v\n", err)
		return 1
	}
	if err := repo.Close(); err != nil {
		fmt.Fprintf(output(), "Failed to close database: %v\n", err)
		return 1
	}

	fmt.Fprintln(output(), "Database initialized successfully")
	return 0
}

// backup writes a backup of the database to out, or to a timestamped file
// next to the database when out is empty.
func backup(dbPath, out string) int {
	if !exists(dbPath) {
		fmt.Fprintln(output(), "No database exists to backup")
		return 1
	}

	if out == "" {
		backupDir := filepath.Join(filepath.Dir(filepath.Clean(dbPath)), "backups")
		out = filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fmt.Fprintf(output(), "Failed to create backup directory: %v\n", err)
		return 1
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(output(), "Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := repo.Backup(f); err != nil {
		fmt.Fprintf(output(), "Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Fprintf(output(), "Database backed up successfully to %s\n", out)
	return 0
}

// restore replaces the database with the contents of a backup.
func restore(dbPath, backupFile string) int {
	fi, err := os.Stat(backupFile)
	if err != nil {
		fmt.Fprintf(output(), "Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(output(), "Backup file is empty: %s\n", backupFile)
		return 1
	}

	if exists(dbPath) {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(output(), "Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Fprintf(output(), "Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		fmt.Fprintf(output(), "Failed to create database directory: %v\n", err)
		return 1
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := repo.Restore(f); err != nil {
		fmt.Fprintf(output(), "Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Fprintln(output(), "Database restored successfully")
	return 0
}
