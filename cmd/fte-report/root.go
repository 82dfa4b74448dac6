package main

import (
	"errors"
	"fmt"

	"github.com/iwvelando/fte-report/internal/config"
	"github.com/iwvelando/fte-report/internal/ingest"
	"github.com/iwvelando/fte-report/internal/report"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flags are the persistent command line overrides.
type flags struct {
	configPath   string
	logLevel     string
	outputFormat string
	sections     string
}

// environment is what every command works from: the loaded configuration,
// its logger and the shared reference tables.
type environment struct {
	conf     *config.Configuration
	logger   *zap.Logger
	reader   *ingest.Reader
	refs     *ingest.References
	sections string
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "fte-report",
		Short: "Compute FTE funding reports from course section exports",
		Long: `fte-report joins a section export against the contact hour and tier
tables and reports Total FTE and Generated FTE by division, instructor and
course, along with enrollment percentages and raw division dumps.

Examples:
  fte-report divisions
  fte-report division Business --export
  fte-report instructor "Smith, John"
  fte-report course CSC-151 --output-format csv
  fte-report dump ALL --export
  fte-report serve`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	pf.StringVar(&f.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&f.outputFormat, "output-format", "", "type of output override: pretty, csv")
	pf.StringVar(&f.sections, "sections", "", "section export to report on, overriding data.sections")

	root.AddCommand(
		newListCommand(f, "divisions", "List the divisions of the section export", (*report.Session).Divisions, nil),
		newListCommand(f, "instructors [query]", "List instructors, optionally those matching a query", (*report.Session).Instructors, (*report.Session).MatchInstructors),
		newListCommand(f, "courses [query]", "List course codes, optionally those matching a query", (*report.Session).Courses, (*report.Session).MatchCourses),
		newReportCommand(f, report.ViewDivision, "division NAME", "FTE by division, subtotalled per course"),
		newReportCommand(f, report.ViewInstructor, "instructor NAME", "FTE by instructor, subtotalled per course"),
		newReportCommand(f, report.ViewCourse, "course CODE", "FTE by course"),
		newReportCommand(f, report.ViewEnrollment, "enrollment CODE", "Enrollment percentage of each section of a course"),
		newReportCommand(f, report.ViewDump, "dump DIVISION... | ALL", "Every uploaded column for one or more divisions"),
		newServeCommand(f),
	)
	return root
}

// loadEnvironment loads and checks the configuration, builds the logger and
// reads the reference tables.
func loadEnvironment(f *flags) (*environment, error) {
	conf, err := config.LoadConfiguration(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", f.configPath, err)
	}
	if f.outputFormat != "" {
		conf.Output.Format = f.outputFormat
	}
	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		return nil, err
	}
	if err := validation.ValidateTierKey(conf.Policy.CourseTierKey); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	logger, err := initializeLogger(conf.Logging, f.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	reader := ingest.NewReader(logger)
	refs, err := reader.LoadReferences(conf.ResolvePath(conf.Data.ContactHours), conf.ResolvePath(conf.Data.Tiers))
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	return &environment{
		conf:     conf,
		logger:   logger,
		reader:   reader,
		refs:     refs,
		sections: sectionsPath(conf, f.sections),
	}, nil
}

// sectionsPath picks the section export to read. A path given on the
// command line is used as is; one from the configuration file is relative
// to that file.
func sectionsPath(conf *config.Configuration, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return conf.ResolvePath(conf.Data.Sections)
}

// policy is the report options the configuration asks for.
func (e *environment) policy() report.Options {
	return report.Options{
		Support:   &e.conf.Policy.SupportConstant,
		CourseKey: e.conf.KeyMode(),
	}
}

// session reads the configured section export.
func (e *environment) session() (*report.Session, error) {
	path := e.sections
	if path == "" {
		return nil, errors.New("no section export given: set data.sections or --sections")
	}
	ds, err := e.reader.SectionsFile(path)
	if err != nil {
		return nil, err
	}
	s := report.NewSession(e.logger, ds, e.refs.ContactHours, e.refs.Tiers, e.policy())
	e.logger.Debug("session ready",
		zap.String("op", "main.session"),
		zap.String("session", s.ID),
		zap.Any("diagnostics", s.Diagnostics()),
	)
	return s, nil
}

func (e *environment) close() {
	_ = e.logger.Sync()
}
