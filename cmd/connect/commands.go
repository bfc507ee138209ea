package main

import (
	"fmt"

	"github.com/lunagic/connect/connectservices/database"
	"github.com/spf13/cobra"
)

type criteriaFlags struct {
	where  []string
	raw    string
	bind   []string
	order  string
	limit  int
	offset int
}

func (flags *criteriaFlags) register(cmd *cobra.Command, paginate bool) {
	cmd.Flags().StringArrayVarP(&flags.where, "where", "w", nil, "Equality filter column=value (repeatable)")
	cmd.Flags().StringVar(&flags.raw, "raw", "", "Raw WHERE predicate with :named placeholders, replaces --where")
	cmd.Flags().StringArrayVarP(&flags.bind, "bind", "b", nil, "Value for a --raw placeholder name=value (repeatable)")
	cmd.Flags().StringVar(&flags.order, "order", "", "ORDER BY clause, e.g. \"id DESC\"")
	if paginate {
		cmd.Flags().IntVar(&flags.limit, "limit", -1, "Maximum number of rows")
		cmd.Flags().IntVar(&flags.offset, "offset", -1, "Rows to skip, requires --limit")
	}
}

func (flags *criteriaFlags) criteria() (*database.Criteria, error) {
	criteria := database.NewCriteria().
		OrderBy(flags.order).
		Limit(flags.limit).
		Offset(flags.offset)

	if flags.raw != "" {
		bindings, err := parseBindings(flags.bind)
		if err != nil {
			return nil, err
		}

		return criteria.WhereRaw(flags.raw, bindings), nil
	}

	where, err := parseAssignments(flags.where)
	if err != nil {
		return nil, err
	}

	return criteria.WheresEqual(where), nil
}

func newFindCommand(options *rootOptions) *cobra.Command {
	flags := &criteriaFlags{}

	cmd := &cobra.Command{
		Use:   "find <table>",
		Short: "Print every matching row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			return options.withService(cmd, func(service *database.Service) (any, error) {
				return service.FindRowsBy(cmd.Context(), args[0], criteria)
			})
		},
	}

	flags.register(cmd, true)

	return cmd
}

func newFindOneCommand(options *rootOptions) *cobra.Command {
	flags := &criteriaFlags{limit: -1, offset: -1}

	cmd := &cobra.Command{
		Use:   "find-one <table>",
		Short: "Print the first matching row, {} when nothing matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			return options.withService(cmd, func(service *database.Service) (any, error) {
				return service.FindRowBy(cmd.Context(), args[0], criteria)
			})
		},
	}

	flags.register(cmd, false)

	return cmd
}

func newInsertCommand(options *rootOptions) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "insert <table>",
		Short: "Insert a row and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(set)
			if err != nil {
				return err
			}

			return options.withService(cmd, func(service *database.Service) (any, error) {
				id, err := service.InsertRowReturningID(cmd.Context(), args[0], values)
				if err != nil {
					return nil, err
				}

				return map[string]int64{"id": id}, nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "Column value column=value (repeatable)")

	return cmd
}

func newUpdateCommand(options *rootOptions) *cobra.Command {
	var where []string
	var set []string

	cmd := &cobra.Command{
		Use:   "update <table>",
		Short: "Update the rows matching --where",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := parseAssignments(where)
			if err != nil {
				return err
			}

			values, err := parseAssignments(set)
			if err != nil {
				return err
			}

			return options.withService(cmd, func(service *database.Service) (any, error) {
				updated, err := service.UpdateRow(cmd.Context(), args[0], filters, values)
				if err != nil {
					return nil, err
				}

				return map[string]bool{"updated": updated}, nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Equality filter column=value (repeatable)")
	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "New value column=value (repeatable)")

	return cmd
}

func newDeleteCommand(options *rootOptions) *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "delete <table>",
		Short: "Delete the rows matching --where",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := parseAssignments(where)
			if err != nil {
				return err
			}

			return options.withService(cmd, func(service *database.Service) (any, error) {
				deleted, err := service.DeleteRow(cmd.Context(), args[0], filters)
				if err != nil {
					return nil, err
				}

				return map[string]bool{"deleted": deleted}, nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Equality filter column=value (repeatable)")

	return cmd
}

func newExecCommand(options *rootOptions) *cobra.Command {
	var bind []string

	cmd := &cobra.Command{
		Use:   "exec <statement>",
		Short: "Run a statement that returns no rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindings, err := parseBindings(bind)
			if err != nil {
				return err
			}

			return options.withService(cmd, func(service *database.Service) (any, error) {
				result, err := service.ExecuteQuery(cmd.Context(), args[0], bindings)
				if err != nil {
					return nil, err
				}

				rowsAffected, err := result.RowsAffected()
				if err != nil {
					return nil, fmt.Errorf("rows affected: %w", err)
				}

				return map[string]int64{"rowsAffected": rowsAffected}, nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&bind, "bind", "b", nil, "Placeholder value name=value (repeatable)")

	return cmd
}

func newQueryCommand(options *rootOptions) *cobra.Command {
	var bind []string

	cmd := &cobra.Command{
		Use:   "query <statement>",
		Short: "Run a SELECT and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindings, err := parseBindings(bind)
			if err != nil {
				return err
			}

			return options.withService(cmd, func(service *database.Service) (any, error) {
				return service.SelectRows(cmd.Context(), args[0], bindings)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&bind, "bind", "b", nil, "Placeholder value name=value (repeatable)")

	return cmd
}
