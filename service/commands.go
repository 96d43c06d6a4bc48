package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blogsite/app/repositories"
	"blogsite/app/repositories/sqlstore"
	"blogsite/config"

	"github.com/spf13/cobra"
)

// maxPendingWrites bounds the batches badger applies while loading a backup.
const maxPendingWrites = 256

var errBackupUnsupported = errors.New("backup and restore are only supported for the badger driver; use pg_dump for postgres")

func newDBCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the blog database",
	}
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initDb(cmd, opts.cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Delete all blog data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clean(cmd, opts.cfg, yes)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "backup [file]",
		Short: "Create a backup of the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			}
			return backup(cmd, opts.cfg, target)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return restore(cmd, opts.cfg, args[0], yes)
		},
	})
	return cmd
}

// badgerDir returns the on-disk database directory.
func badgerDir(cfg *config.Config) (string, error) {
	if cfg.Storage.InMemory {
		return "", errors.New("storage.in_memory is set; there is no database on disk")
	}
	return cfg.Storage.BadgerPath, nil
}

// initDb creates the badger directory or applies the postgres schema.
func initDb(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	if cfg.Storage.Driver == "postgres" {
		db, err := sqlstore.Open(cmd.Context(), cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := sqlstore.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(out, "Database schema applied successfully")
		return nil
	}

	dir, err := badgerDir(cfg)
	if err != nil {
		return err
	}
	if pathExists(dir) {
		fmt.Fprintln(out, "Database already exists. Use 'db clean' first if you want to reinitialize.")
		return nil
	}

	db, err := repositories.OpenBadger(dir, false, quietLogger())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	fmt.Fprintln(out, "Database initialized successfully")
	return nil
}

// clean removes every post, comment and user.
func clean(cmd *cobra.Command, cfg *config.Config, yes bool) error {
	out := cmd.OutOrStdout()

	if cfg.Storage.Driver == "postgres" {
		if !confirm(cmd, "Are you sure you want to drop all blog tables? This cannot be undone.", yes) {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		db, err := sqlstore.Open(cmd.Context(), cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := sqlstore.Reset(cmd.Context(), db); err != nil {
			return err
		}
		if err := sqlstore.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(out, "Database cleaned successfully")
		return nil
	}

	dir, err := badgerDir(cfg)
	if err != nil {
		return err
	}
	if !pathExists(dir) {
		fmt.Fprintln(out, "Database is already clean (does not exist)")
		return nil
	}

	if !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.", yes) {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clean database: %w", err)
	}
	fmt.Fprintln(out, "Database cleaned successfully")
	return nil
}

// backup writes a full badger backup to target, or to a timestamped file
// under a backups directory next to the database.
func backup(cmd *cobra.Command, cfg *config.Config, target string) error {
	if cfg.Storage.Driver == "postgres" {
		return errBackupUnsupported
	}

	dir, err := badgerDir(cfg)
	if err != nil {
		return err
	}
	if !pathExists(dir) {
		return fmt.Errorf("no database exists at %s to back up", dir)
	}

	if target == "" {
		target = filepath.Join(filepath.Dir(dir), "backups", fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	db, err := repositories.OpenBadger(dir, false, quietLogger())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", target)
	return nil
}

// restore replaces the badger database with the contents of backupFile.
func restore(cmd *cobra.Command, cfg *config.Config, backupFile string, yes bool) error {
	out := cmd.OutOrStdout()

	if cfg.Storage.Driver == "postgres" {
		return errBackupUnsupported
	}

	dir, err := badgerDir(cfg)
	if err != nil {
		return err
	}

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if err != nil {
		return fmt.Errorf("failed to stat backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if pathExists(dir) {
		if !confirm(cmd, "Existing database found. Do you want to replace it?", yes) {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	db, err := repositories.OpenBadger(dir, false, quietLogger())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	err = func() (loadErr error) {
		defer func() {
			if r := recover(); r != nil {
				loadErr = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(f, maxPendingWrites)
	}()
	if err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}

	fmt.Fprintln(out, "Database restored successfully")
	return nil
}

// confirm asks a y/N question on the command's streams. yes skips the prompt.
func confirm(cmd *cobra.Command, question string, yes bool) bool {
	if yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// quietLogger keeps badger's housekeeping out of command output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
