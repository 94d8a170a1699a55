// Command redisframe is a small CLI for poking at connector tables:
// insert rows from JSON, scan a table, dump its schema, or check emptiness.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzpsarthak13/redisframe/pkg/redisframe"
)

var (
	flagConfig    string
	flagTable     string
	flagAddr      string
	flagPassword  string
	flagDB        int
	flagCluster   bool
	flagUnits     int
	flagWriteRate int
	flagTimeout   time.Duration
)

func main() {
	root := &cobra.Command{
		Use:           "redisframe",
		Short:         "Table connector over a Redis cluster",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().StringVarP(&flagTable, "table", "t", "", "table name")
	root.PersistentFlags().StringVar(&flagAddr, "addr", "", "store node address (host:port)")
	root.PersistentFlags().StringVar(&flagPassword, "password", "", "store password")
	root.PersistentFlags().IntVar(&flagDB, "db", 0, "logical database index (non-cluster only)")
	root.PersistentFlags().BoolVar(&flagCluster, "cluster", false, "discover cluster topology from the seed node")
	root.PersistentFlags().IntVar(&flagUnits, "units", 0, "execution units for partitioned I/O")
	root.PersistentFlags().IntVar(&flagWriteRate, "write-rate", 0, "max write commands per second (0 = unthrottled)")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-connection network timeout")

	root.AddCommand(insertCmd(), scanCmd(), schemaCmd(), emptyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges the optional YAML file with command-line overrides.
func buildConfig() (*redisframe.Config, error) {
	config := redisframe.DefaultConfig()
	if flagConfig != "" {
		loaded, err := redisframe.LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if flagTable != "" {
		config.Table = flagTable
	}
	if flagAddr != "" {
		config.Store.Addr = flagAddr
	}
	if flagPassword != "" {
		config.Store.Password = flagPassword
	}
	if flagDB != 0 {
		config.Store.DB = flagDB
	}
	if flagCluster {
		config.Store.ClusterMode = true
	}
	if flagUnits > 0 {
		config.Units = flagUnits
	}
	if flagWriteRate > 0 {
		config.WriteRate = flagWriteRate
	}
	if flagTimeout > 0 {
		config.Store.DialTimeout = flagTimeout
		config.Store.ReadTimeout = flagTimeout
		config.Store.WriteTimeout = flagTimeout
	}
	return config, nil
}

func openTable(cmd *cobra.Command) (redisframe.Table, error) {
	config, err := buildConfig()
	if err != nil {
		return nil, err
	}
	return redisframe.Open(cmd.Context(), config)
}

func insertCmd() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "insert [file]",
		Short: "Insert rows from a JSON-lines file (or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			rows, err := readRows(in)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no rows to insert")
			}

			tbl, err := openTable(cmd)
			if err != nil {
				return err
			}
			if err := tbl.Insert(cmd.Context(), rows, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d row(s)\n", len(rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "truncate existing data before writing")
	return cmd
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Print every row of the table as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := openTable(cmd)
			if err != nil {
				return err
			}
			rows, _, err := tbl.Scan(cmd.Context(), nil, nil)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, row := range rows {
				if err := enc.Encode(row); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the table schema descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := openTable(cmd)
			if err != nil {
				return err
			}
			schema, err := tbl.Schema(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schema)
		},
	}
}

func emptyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "empty",
		Short: "Report whether the table holds no data keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := openTable(cmd)
			if err != nil {
				return err
			}
			empty, err := tbl.IsEmpty(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), empty)
			return nil
		},
	}
}

// readRows parses one JSON object per line into rows.
func readRows(in io.Reader) ([]redisframe.Row, error) {
	var rows []redisframe.Row
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row redisframe.Row
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("invalid row %q: %w", scanner.Text(), err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
