// Command richtext converts rich text between the CoreMedia RichText data
// dialect and its HTML view dialect, checks round trips and queries data
// documents.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/richtext/core/dataprocessor"
	"github.com/FocuswithJustin/richtext/core/richtext"
	"github.com/FocuswithJustin/richtext/core/rules"
	"github.com/FocuswithJustin/richtext/core/selfcheck"
	"github.com/FocuswithJustin/richtext/core/xml"
	"github.com/FocuswithJustin/richtext/internal/logging"
	"github.com/FocuswithJustin/richtext/internal/validation"
)

const version = "0.1.0"

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// CLI defines the command-line interface for richtext.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" env:"RICHTEXT_LOG_LEVEL" default:"warn" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" env:"RICHTEXT_LOG_FORMAT" default:"text" enum:"text,json" help:"Log format (text, json)"`
	ImageSrc  string `name:"image-src" env:"RICHTEXT_IMAGE_SRC" help:"Image URL template with {id}, {property} and {href} placeholders"`
	CacheSize int    `name:"cache-size" default:"0" help:"Conversion cache size (0 disables the cache)"`

	ToData    ToDataCmd    `cmd:"" name:"to-data" help:"Convert a view HTML fragment to a data document"`
	ToView    ToViewCmd    `cmd:"" name:"to-view" help:"Convert a data document to a view HTML fragment"`
	Roundtrip RoundtripCmd `cmd:"" help:"Check that a document survives a round trip"`
	Rules     RulesCmd     `cmd:"" help:"List the conversion rules"`
	Query     QueryCmd     `cmd:"" help:"Run an XPath query against a data document"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// ToDataCmd converts view to data.
type ToDataCmd struct {
	File   string `arg:"" help:"Input file (- for stdin, .xz is decompressed)"`
	Out    string `short:"o" help:"Output file (default stdout)" type:"path"`
	Report bool   `help:"Print the loss report as JSON to stderr"`
}

func (c *ToDataCmd) Run(ctx context.Context) error {
	return convertFile(ctx, rules.ToData, c.File, c.Out, c.Report)
}

// ToViewCmd converts data to view.
type ToViewCmd struct {
	File   string `arg:"" help:"Input file (- for stdin, .xz is decompressed)"`
	Out    string `short:"o" help:"Output file (default stdout)" type:"path"`
	Report bool   `help:"Print the loss report as JSON to stderr"`
}

func (c *ToViewCmd) Run(ctx context.Context) error {
	return convertFile(ctx, rules.ToView, c.File, c.Out, c.Report)
}

// RoundtripCmd runs a self check on one document.
type RoundtripCmd struct {
	File   string `arg:"" help:"Input file (- for stdin, .xz is decompressed)"`
	From   string `default:"auto" enum:"auto,data,view" help:"Dialect of the input (auto, data, view)"`
	Budget string `default:"L3" enum:"L0,L1,L2,L3" help:"Highest acceptable loss class"`
	JSON   bool   `help:"Output as JSON"`
}

func (c *RoundtripCmd) Run(ctx context.Context) error {
	input, err := readInput(c.File)
	if err != nil {
		return err
	}
	p, err := newProcessor()
	if err != nil {
		return err
	}

	from := c.From
	if from == "auto" {
		from = validation.DetectDialect(input)
	}

	checker := selfcheck.NewChecker(p, selfcheck.NewLossBudget(rules.LossClass(c.Budget)))
	report, err := checker.Run(ctx, []selfcheck.Input{{Label: c.File, Dialect: from, Content: input}})
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := report.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to serialize report: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		fmt.Fprintf(stdout, "Round-Trip Report\n")
		fmt.Fprintf(stdout, "  Status: %s\n", report.Status)
		fmt.Fprintf(stdout, "  Created: %s\n", report.CreatedAt)
		fmt.Fprintln(stdout)
		for _, result := range report.Results {
			status := "[PASS]"
			if !result.Pass {
				status = "[FAIL]"
			}
			fmt.Fprintf(stdout, "  %s %s %s (loss %s)\n", status, result.CheckType, result.Label, result.LossClass)
			if result.Error != "" {
				fmt.Fprintf(stdout, "    Error: %s\n", result.Error)
			}
			if !result.Pass && result.Expected != nil && result.Actual != nil {
				fmt.Fprintf(stdout, "    Expected: %s\n", result.Expected.BLAKE3)
				fmt.Fprintf(stdout, "    Actual:   %s\n", result.Actual.BLAKE3)
			}
			if result.Budget != nil {
				for _, v := range result.Budget.Violations {
					fmt.Fprintf(stdout, "    Budget: %s\n", v)
				}
			}
			for _, d := range result.Details {
				fmt.Fprintf(stdout, "    %s\n", d)
			}
		}
	}

	if report.Status != selfcheck.StatusPass {
		return fmt.Errorf("round trip failed")
	}
	return nil
}

// RulesCmd lists the configured rules.
type RulesCmd struct {
	JSON bool `help:"Output as JSON"`
}

type ruleInfo struct {
	ID         string `json:"id"`
	Directions string `json:"directions"`
	Priority   string `json:"priority"`
}

func (c *RulesCmd) Run() error {
	p, err := newProcessor()
	if err != nil {
		return err
	}

	var infos []ruleInfo
	for _, r := range p.Engine().Rules() {
		infos = append(infos, ruleInfo{
			ID:         r.ID,
			Directions: r.Directions().String(),
			Priority:   r.Priority.String(),
		})
	}

	if c.JSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDIRECTIONS\tPRIORITY")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.ID, info.Directions, info.Priority)
	}
	return w.Flush()
}

// QueryCmd runs an XPath query. The rt and xlink prefixes are bound.
type QueryCmd struct {
	File  string `arg:"" help:"Data document (- for stdin, .xz is decompressed)"`
	XPath string `arg:"" name:"xpath" help:"XPath expression"`
	Text  bool   `help:"Print text content instead of markup"`
}

func (c *QueryCmd) Run() error {
	input, err := readInput(c.File)
	if err != nil {
		return err
	}
	doc, err := xml.Parse(input)
	if err != nil {
		return err
	}
	nodes, err := doc.XPath(c.XPath)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if c.Text {
			fmt.Fprintln(stdout, n.Text())
		} else {
			fmt.Fprintln(stdout, n.OuterXML())
		}
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "richtext version %s\n", version)
	return nil
}

// Helper functions

func newProcessor() (*dataprocessor.Processor, error) {
	opts := []dataprocessor.Option{dataprocessor.WithCache(CLI.CacheSize)}
	if CLI.ImageSrc != "" {
		opts = append(opts, dataprocessor.WithRuleOptions(
			richtext.WithImageResolver(richtext.TemplateResolver(CLI.ImageSrc))))
	}
	return dataprocessor.New(opts...)
}

func convertFile(ctx context.Context, dir rules.Direction, path, out string, printReport bool) error {
	input, err := readInput(path)
	if err != nil {
		return err
	}
	p, err := newProcessor()
	if err != nil {
		return err
	}

	var res *dataprocessor.Result
	if dir == rules.ToData {
		res, err = p.ToData(ctx, input)
	} else {
		res, err = p.ToView(ctx, input)
	}
	if err != nil {
		return err
	}

	if out == "" {
		if _, err := fmt.Fprintln(stdout, string(res.Output)); err != nil {
			return err
		}
	} else if err := os.WriteFile(out, res.Output, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if printReport {
		data, err := json.MarshalIndent(res.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize loss report: %w", err)
		}
		fmt.Fprintln(stderr, string(data))
	}
	return nil
}

// readInput reads path, or stdin for "-". Files ending in .xz are
// decompressed. The decompressed size is limited and binary content is
// rejected.
func readInput(path string) ([]byte, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}

	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		r = xr
	}

	data, err := validation.ReadLimited(r, validation.MaxInputSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if err := validation.ValidateText(data); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return data, nil
}

func initLogging() error {
	level, err := logging.ParseLevel(CLI.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(CLI.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLoggerTo(stderr, level, format)
	return nil
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("richtext"),
		kong.Description("CoreMedia RichText data/view conversion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	kctx.FatalIfErrorf(initLogging())

	ctx := logging.WithRunID(context.Background(), uuid.NewString())
	kctx.BindTo(ctx, (*context.Context)(nil))
	err := kctx.Run()
	if err != nil {
		logging.ErrorContext(ctx, "command failed", "command", kctx.Command(), "error", err)
	}
	kctx.FatalIfErrorf(err)
}
