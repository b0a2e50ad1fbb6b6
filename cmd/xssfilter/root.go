package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/dsh2dsh/xssfilter"
	"github.com/dsh2dsh/xssfilter/internal/config"
)

type options struct {
	configPath string
	blockTags  []string
	blockMime  []string
	allowTags  []string
	outDir     string
	jobs       int
	list       bool
	verbose    bool

	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{logger: log.New()}
	cmd := &cobra.Command{
		Use:   "xssfilter [flags] [file...]",
		Short: "removes scripts from HTML",
		Long: `Reads HTML from files or stdin, removes elements, attributes and styles able
to execute scripts and outputs sanitized HTML to stdout or --out-dir.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

func (self *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&self.configPath, "config", "c", "", "policy YAML file.")
	fs.StringSliceVar(&self.blockTags, "block-tags", nil,
		"additional elements to remove.")
	fs.StringSliceVar(&self.blockMime, "block-mime", nil,
		"additional MIME types removing elements with this type.")
	fs.StringSliceVar(&self.allowTags, "allow-tags", nil,
		"elements to remove from the blacklist.")
	fs.StringVarP(&self.outDir, "out-dir", "o", "",
		"write sanitized files into this directory instead of stdout.")
	fs.IntVarP(&self.jobs, "jobs", "j", runtime.GOMAXPROCS(0),
		"number of files sanitized in parallel.")
	fs.BoolVar(&self.list, "list", false,
		"print blacklisted elements and MIME types and exit.")
	fs.BoolVarP(&self.verbose, "verbose", "v", false,
		"log every removed element and attribute.")
}

func (self *options) run(cmd *cobra.Command, args []string) error {
	self.logger.SetOutput(cmd.ErrOrStderr())
	if self.verbose {
		self.logger.SetLevel(log.DebugLevel)
	}

	p, err := self.policy()
	if err != nil {
		return err
	}

	if self.list {
		return self.printBlacklists(cmd.OutOrStdout(), p)
	}

	if len(args) == 0 {
		stats, err := p.SanitizeReaderStats(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("sanitize stdin: %w", err)
		}
		self.logStats("-", stats)
		return nil
	}
	return self.sanitizeFiles(cmd.OutOrStdout(), p, args)
}

func (self *options) policy() (*xssfilter.Policy, error) {
	cfg := &config.Config{}
	if self.configPath != "" {
		c, err := config.Load(self.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	cfg.AllowTags = append(cfg.AllowTags, self.allowTags...)
	cfg.BlockTags = append(cfg.BlockTags, self.blockTags...)
	cfg.BlockMimeTypes = append(cfg.BlockMimeTypes, self.blockMime...)
	return cfg.Policy().WithLogger(self.logger), nil
}

func (self *options) printBlacklists(w io.Writer, p *xssfilter.Policy) error {
	_, err := fmt.Fprintf(w, "elements: %s\nmime types: %s\n",
		strings.Join(p.BlacklistedElements(), ", "),
		strings.Join(p.BlacklistedMimeTypes(), ", "))
	if err != nil {
		return fmt.Errorf("print blacklists: %w", err)
	}
	return nil
}

// sanitizeFiles sanitizes files concurrently. Without --out-dir, results are
// written to w in order of files.
func (self *options) sanitizeFiles(w io.Writer, p *xssfilter.Policy,
	files []string,
) error {
	if self.outDir != "" {
		if err := os.MkdirAll(self.outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	results := make([]bytes.Buffer, len(files))
	var g errgroup.Group
	g.SetLimit(max(self.jobs, 1))
	for i, name := range files {
		g.Go(func() error { return self.sanitizeFile(p, name, &results[i]) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if self.outDir != "" {
		return nil
	}

	for i := range results {
		if _, err := results[i].WriteTo(w); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func (self *options) sanitizeFile(p *xssfilter.Policy, name string,
	buf *bytes.Buffer,
) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	stats, err := p.SanitizeReaderStats(f, buf)
	if err != nil {
		return fmt.Errorf("sanitize %q: %w", name, err)
	}
	self.logStats(name, stats)

	if self.outDir == "" {
		return nil
	}

	path := filepath.Join(self.outDir, filepath.Base(name))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (self *options) logStats(name string, stats xssfilter.Stats) {
	self.logger.WithFields(log.Fields{
		"file":           name,
		"removed":        stats.RemovedElements,
		"stripped_attrs": stats.StrippedAttrs,
	}).Info("sanitized")
}
