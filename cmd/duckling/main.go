package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Phonebooth/duckling/bridge"
	"github.com/Phonebooth/duckling/engine"
)

func main() {
	var (
		dbPath      = flag.String("db", engine.InMemory, "Database path (:memory: for transient)")
		sqlText     = flag.String("c", "", "SQL to execute and exit")
		accessMode  = flag.String("access", "", "Access mode: automatic, read_only, read_write")
		threads     = flag.Uint("threads", 0, "Maximum worker threads (0 = engine default)")
		maxMemory   = flag.Uint64("max-memory", 0, "Maximum memory in bytes (0 = engine default)")
		strict      = flag.Bool("strict", false, "Reject malformed configuration values")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive SQL shell")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			bridge.SetLogger(logger)
			engine.SetLogger(logger)
		}
	}

	settings := bridge.Settings{}
	if *accessMode != "" {
		settings[bridge.OptAccessMode] = *accessMode
	}
	if *threads > 0 {
		settings[bridge.OptMaximumThreads] = uint64(*threads)
	}
	if *maxMemory > 0 {
		settings[bridge.OptMaximumMemory] = *maxMemory
	}

	if *sqlText == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: duckling -db <path> -c <sql>")
		fmt.Fprintln(os.Stderr, "       duckling -db <path> -i  (interactive shell)")
		os.Exit(1)
	}

	validation := bridge.Lenient
	if *strict {
		validation = bridge.Strict
	}

	if *interactive {
		if err := runInteractive(*dbPath, settings, validation); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*dbPath, *sqlText, settings, validation); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path, sqlText string, settings bridge.Settings, validation bridge.ValidationMode) error {
	ctx := context.Background()

	b := bridge.NewWithConfig(&bridge.Config{Validation: validation})
	if err := b.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	conn, err := b.Open(ctx, path, settings)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer b.Close(ctx, conn)

	fmt.Printf("Connected to %s (%s)\n\n", path, b.LibraryVersion(ctx, conn))

	for _, stmt := range splitStatements(sqlText) {
		cur, err := b.Query(ctx, conn, stmt, nil)
		if err != nil {
			return err
		}
		cols, _ := b.ColumnNames(ctx, cur)
		rows, err := b.FetchAll(ctx, cur)
		b.CloseCursor(ctx, cur)
		if err != nil {
			return err
		}
		printResult(cols, rows)
	}
	return nil
}

// splitStatements breaks a semicolon-separated script into statements.
func splitStatements(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func printResult(cols []string, rows [][]any) {
	if len(cols) > 0 {
		fmt.Println(strings.Join(cols, "\t"))
	}
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = fmt.Sprintf("%v", v)
		}
		fmt.Println(strings.Join(parts, "\t"))
	}
	fmt.Printf("(%d rows)\n\n", len(rows))
}
