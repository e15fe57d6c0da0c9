package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/greenmtnboy/space-reporting/internal/bundle"
	"github.com/greenmtnboy/space-reporting/internal/config"
	"github.com/greenmtnboy/space-reporting/internal/db"
	"github.com/greenmtnboy/space-reporting/internal/emit"
	"github.com/greenmtnboy/space-reporting/internal/gcat"
	"github.com/greenmtnboy/space-reporting/internal/pipeline"
	"github.com/greenmtnboy/space-reporting/internal/sanitize"
	"github.com/greenmtnboy/space-reporting/internal/stage"
	"github.com/greenmtnboy/space-reporting/internal/table"
)

var (
	version    = "dev"
	commit     = "none"
	buildDate  = "unknown"
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spacerep",
		Short: "Space reporting dataset ingester",
		Long: `Spacerep ingests GCAT catalog datasets: it resolves the catalog's
published update date, downloads and sanitizes a tab-separated dataset,
builds a typed columnar table, and emits it as an Arrow IPC stream.`,
	}

	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    buildDate,
				})
			} else {
				fmt.Printf("spacerep %s (%s, %s)\n", version, commit, buildDate)
			}
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Initialize spacerep config and database directories",
		Run: func(cmd *cobra.Command, args []string) {
			configDir, err := config.GetConfigDir()
			if err != nil {
				fail("get config directory: %v", err)
			}
			dataDir, err := config.GetDataDir()
			if err != nil {
				fail("get data directory: %v", err)
			}
			if err := os.MkdirAll(configDir, 0755); err != nil {
				fail("create config directory: %v", err)
			}
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				fail("create data directory: %v", err)
			}
			if err := db.Init(); err != nil {
				fail("initialize database: %v", err)
			}
			dbPath, err := db.GetPath()
			if err != nil {
				fail("get database path: %v", err)
			}
			if jsonOutput {
				printJSON(map[string]string{
					"config_dir": configDir,
					"data_dir":   dataDir,
					"db_path":    dbPath,
				})
			} else {
				fmt.Printf("Config directory: %s\n", configDir)
				fmt.Printf("Data directory: %s\n", dataDir)
				fmt.Printf("Database: %s\n", dbPath)
			}
		},
	})

	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newBundleCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newIngestCmd() *cobra.Command {
	var (
		baseURL     string
		homepageURL string
		outPath     string
		stageDir    string
	)

	cmd := &cobra.Command{
		Use:   "ingest <dataset>",
		Short: "Ingest a GCAT dataset and emit it as an Arrow IPC stream",
		Long: `Ingest downloads a GCAT dataset file (a relative path such as
tsv/tables/lv.tsv, or a shortcut from config), cleans it, builds a typed
table stamped with the catalog's data update date, and writes the table
as an Arrow IPC stream to stdout (or --out). Run status goes to stderr
so the data stream stays clean.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fail("load config: %v", err)
			}
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			if homepageURL != "" {
				cfg.HomepageURL = homepageURL
			}

			dataset := args[0]
			if mapped, ok := cfg.Datasets[dataset]; ok {
				dataset = mapped
			}

			client := gcat.NewClient(gcat.ClientConfig{
				BaseURL:     cfg.BaseURL,
				HomepageURL: cfg.HomepageURL,
				UserAgent:   cfg.UserAgent,
				Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
				ChunkSize:   cfg.ChunkSizeBytes,
			})
			p := pipeline.New(client, sanitize.Encoding(cfg.Encoding))

			rec, res, err := p.Ingest(cmd.Context(), dataset)
			if err != nil {
				fail("ingest %s: %v", dataset, err)
			}
			defer rec.Release()

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					fail("create output file: %v", err)
				}
				defer f.Close()
				out = f
			}
			if err := emit.Stream(out, rec); err != nil {
				fail("emit %s: %v", dataset, err)
			}

			if stageDir != "" {
				artifact, err := stage.WriteArtifact(stageDir, dataset, res.RunID, rec)
				if err != nil {
					fail("stage %s: %v", dataset, err)
				}
				fmt.Fprintf(os.Stderr, "staged %s\n", artifact)
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stderr)
				enc.SetIndent("", "  ")
				_ = enc.Encode(res)
			} else {
				fmt.Fprintf(os.Stderr, "ingested %s: %d rows, %d columns, update date %s (%s)\n",
					res.Dataset, res.Rows, res.Columns,
					res.UpdateDate.Format("2006-01-02"), res.Duration.Round(time.Millisecond))
			}
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Override the catalog base URL")
	cmd.Flags().StringVar(&homepageURL, "homepage-url", "", "Override the catalog homepage URL")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the IPC stream to a file instead of stdout")
	cmd.Flags().StringVar(&stageDir, "stage", "", "Also write a Parquet staging artifact under this directory")
	return cmd
}

func newLoadCmd() *cobra.Command {
	var (
		dbPath    string
		tableName string
		dataset   string
	)

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load an emitted Arrow IPC file into the local SQLite database",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			f, err := os.Open(args[0])
			if err != nil {
				fail("open stream: %v", err)
			}
			defer f.Close()

			schema, recs, err := emit.ReadAll(f)
			if err != nil {
				fail("read stream: %v", err)
			}
			defer func() {
				for _, rec := range recs {
					rec.Release()
				}
			}()

			database, err := db.Open(dbPath)
			if err != nil {
				fail("open database: %v", err)
			}
			defer database.Close()

			rows, err := db.LoadTable(database, tableName, schema, recs)
			if err != nil {
				fail("load table: %v", err)
			}

			updateDate := updateDateFrom(schema, recs)
			runID := uuid.New().String()
			if err := db.RecordRun(database, runID, dataset, tableName, rows, updateDate); err != nil {
				fail("record run: %v", err)
			}

			if jsonOutput {
				printJSON(map[string]any{
					"run_id": runID,
					"table":  tableName,
					"rows":   rows,
				})
			} else {
				fmt.Printf("loaded %d rows into %s (run %s)\n", rows, tableName, runID)
			}
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: spacerep data dir)")
	cmd.Flags().StringVar(&tableName, "table", "dataset", "Destination table name")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Source dataset label for the run catalog")
	return cmd
}

func newBundleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bundle <models-dir> <out-file>",
		Short: "Bundle .preql model files into a JSON manifest",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			count, err := bundle.Bundle(args[0], args[1])
			if err != nil {
				fail("bundle models: %v", err)
			}
			if jsonOutput {
				printJSON(map[string]any{"models": count, "out": args[1]})
			} else {
				fmt.Printf("Bundled %d models into %s\n", count, args[1])
			}
		},
	}
}

// updateDateFrom pulls the provenance timestamp out of the stream's
// data_update_date column when present; all rows carry the same value.
func updateDateFrom(schema *arrow.Schema, recs []arrow.Record) time.Time {
	idx := schema.FieldIndices(table.UpdateDateColumn)
	if len(idx) == 0 {
		return time.Time{}
	}
	for _, rec := range recs {
		col, ok := rec.Column(idx[0]).(*array.Timestamp)
		if !ok || col.Len() == 0 || col.IsNull(0) {
			continue
		}
		typ := col.DataType().(*arrow.TimestampType)
		return col.Value(0).ToTime(typ.Unit).UTC()
	}
	return time.Time{}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
