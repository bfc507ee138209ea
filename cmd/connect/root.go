package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lunagic/connect/connect"
	"github.com/lunagic/connect/connectservices/database"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	fs         afero.Fs
	configFile string
	verbose    bool
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	options := &rootOptions{fs: fs}

	cmd := &cobra.Command{
		Use:           "connect",
		Short:         "Single table reads and writes against a SQL database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&options.configFile, "config", "", "Config file (default .connect.yaml)")
	cmd.PersistentFlags().BoolVarP(&options.verbose, "verbose", "v", false, "Log every statement to stderr")

	cmd.AddCommand(newFindCommand(options))
	cmd.AddCommand(newFindOneCommand(options))
	cmd.AddCommand(newInsertCommand(options))
	cmd.AddCommand(newUpdateCommand(options))
	cmd.AddCommand(newDeleteCommand(options))
	cmd.AddCommand(newExecCommand(options))
	cmd.AddCommand(newQueryCommand(options))

	return cmd
}

// withService opens the configured service for the duration of run.
func (options *rootOptions) withService(cmd *cobra.Command, run func(service *database.Service) (any, error)) error {
	config, err := connect.LoadConfig(options.fs, options.configFile)
	if err != nil {
		return err
	}

	configFuncs := []database.ServiceConfigFunc{}
	if options.verbose {
		configFuncs = append(configFuncs, database.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))))
	}

	service, err := config.Database(configFuncs...)
	if err != nil {
		return err
	}
	defer func() {
		_ = service.Close()
	}()

	result, err := run(service)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}

// parseAssignments turns repeated key=value flags into ordered columns.
func parseAssignments(assignments []string) (*database.Columns, error) {
	columns := database.NewColumns()
	for _, assignment := range assignments {
		key, value, found := strings.Cut(assignment, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", assignment)
		}

		columns.Set(key, value)
	}

	return columns, nil
}

func parseBindings(assignments []string) (map[string]any, error) {
	columns, err := parseAssignments(assignments)
	if err != nil {
		return nil, err
	}

	bindings := make(map[string]any, columns.Len())
	for _, column := range columns.All() {
		bindings[column.Name] = column.Value
	}

	return bindings, nil
}
