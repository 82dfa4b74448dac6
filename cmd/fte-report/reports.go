package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/fte-report/internal/report"
	"github.com/iwvelando/fte-report/internal/workbook"
	"github.com/iwvelando/fte-report/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newListCommand(f *flags, use, short string, all func(*report.Session) []string, match func(*report.Session, string) []string) *cobra.Command {
	maxArgs := 0
	if match != nil {
		maxArgs = 1
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(maxArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(f)
			if err != nil {
				return err
			}
			defer env.close()

			s, err := env.session()
			if err != nil {
				return err
			}
			values := all(s)
			if len(args) == 1 {
				values = match(s, args[0])
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newReportCommand(f *flags, view report.View, use, short string) *cobra.Command {
	var export bool
	args := cobra.ExactArgs(1)
	if view == report.ViewDump {
		args = cobra.MinimumNArgs(1)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(f)
			if err != nil {
				return err
			}
			defer env.close()

			s, err := env.session()
			if err != nil {
				return err
			}
			return runReport(cmd, env, s, view, strings.Join(args, ","), export)
		},
	}
	cmd.Flags().BoolVar(&export, "export", false, "also save the report as a workbook in output.directory")
	return cmd
}

func runReport(cmd *cobra.Command, env *environment, s *report.Session, view report.View, value string, export bool) error {
	const op = "main.runReport"

	reports, unknown, err := s.Generate(view, value)
	if err != nil {
		var ambiguous *report.AmbiguousError
		if errors.As(err, &ambiguous) {
			return fmt.Errorf("%w; be more specific", err)
		}
		return err
	}
	for _, name := range unknown {
		env.logger.Warn("division not found",
			zap.String("op", op),
			zap.String("division", name),
		)
	}

	out := cmd.OutOrStdout()
	for _, r := range reports {
		output.Write(out, env.conf.Output.Format, r.Table())
	}

	if !export {
		return nil
	}
	exporter := workbook.NewExporter(env.logger, env.conf.ResolvePath(env.conf.Output.Directory))
	var path string
	if view == report.ViewDump {
		path, err = exporter.SaveDump(&report.DumpResult{Reports: reports, Unknown: unknown})
	} else {
		path, err = exporter.SaveReport(reports[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", path)
	return nil
}
