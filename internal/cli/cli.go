// Package cli implements the xmljson command line interface.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/KimNorgaard/go-xmljson"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code. An
// empty Message means the failure has already been logged.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	output           string
	pretty           bool
	indent           int
	strategy         string
	arrays           []string
	noAttributes     bool
	preserveComments bool
	validate         bool
	batch            bool
	syntax           string
	logLevel         string
	logFormat        string
}

func (o *options) config() xmljson.Config {
	var arrays []string
	for _, a := range o.arrays {
		if a = strings.TrimSpace(a); a != "" {
			arrays = append(arrays, a)
		}
	}
	return xmljson.Config{
		Pretty:             o.pretty,
		Indent:             o.indent,
		Strategy:           xmljson.Strategy(o.strategy),
		Arrays:             arrays,
		PreserveAttributes: !o.noAttributes,
		PreserveComments:   o.preserveComments,
		Validate:           o.validate,
		Syntax:             xmljson.Syntax(o.syntax),
	}
}

// NewRootCmd returns the xmljson command. All I/O goes through the given
// streams; files named on the command line are read and written directly.
func NewRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	defaults := xmljson.DefaultConfig()
	o := &options{}

	cmd := &cobra.Command{
		Use:           "xmljson [input]",
		Short:         "Bidirectional converter between XML and JSON",
		Long:          "Convert XML to JSON (or YAML) and back. The input format is detected from its content.\nWithout an input file, data is read from stdin.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			logger := newLogger(o.logLevel, o.logFormat, stderr)

			conv, err := xmljson.New(o.config())
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			p := &processor{conv: conv, logger: logger, stdin: stdin, stdout: stdout}
			switch {
			case o.batch && len(args) == 1:
				return p.processBatch(args[0], o.output)
			case len(args) == 1:
				return p.processFile(args[0], o.output)
			default:
				return p.processStdin(o.output)
			}
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "Output file, or output directory in batch mode (omit for stdout)")
	f.BoolVarP(&o.pretty, "pretty", "p", defaults.Pretty, "Pretty print output")
	f.IntVarP(&o.indent, "indent", "i", defaults.Indent, "Indentation spaces")
	f.StringVarP(&o.strategy, "strategy", "s", string(defaults.Strategy), "Conversion strategy (compact|explicit)")
	f.StringSliceVarP(&o.arrays, "arrays", "a", nil, "Comma-separated list of elements to treat as arrays")
	f.BoolVar(&o.noAttributes, "no-attributes", !defaults.PreserveAttributes, "Strip attributes during conversion")
	f.BoolVar(&o.preserveComments, "preserve-comments", defaults.PreserveComments, "Keep XML comments")
	f.BoolVarP(&o.validate, "validate", "v", defaults.Validate, "Validate input before conversion")
	f.BoolVarP(&o.batch, "batch", "b", false, "Process all files in directory")
	f.StringVar(&o.syntax, "syntax", string(defaults.Syntax), "Document syntax (json|yaml)")
	f.StringVar(&o.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	f.StringVar(&o.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	cmd.Version = Version
	cmd.SetVersionTemplate(fmt.Sprintf("xmljson %s\n", Version))
	return cmd
}

// Version is the command version.
var Version = "1.0.0"
