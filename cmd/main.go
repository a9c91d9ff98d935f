package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/brettbedarf/filetree/adapters"
	"github.com/brettbedarf/filetree/config"
	"github.com/brettbedarf/filetree/internal/util"
	"github.com/brettbedarf/filetree/requests"
	"github.com/brettbedarf/filetree/server"
)

const usage = `Usage: filetree [flags] [command]

Builds an in-memory file tree from a manifest and inspects it.

Commands:
  list        print every path, files before subdirectories (default)
  stat PATH   print the node type and size
  cat PATH    write the file's content to stdout
  check       validate every tree invariant

Flags:
`

var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		configPath string
		nodesDef   string
		verbose    int
		noColor    bool
	)
	flags := flag.NewFlagSet("filetree", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flags.StringVar(&configPath, "c", "", "--config (shorthand)")
	flags.StringVar(&nodesDef, "nodes", "", "Path to a JSON or YAML manifest of nodes to load")
	flags.StringVar(&nodesDef, "n", "", "--nodes (shorthand)")
	flags.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flags.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// Config file first, then explicit flags on top
	cfg := config.NewDefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(configPath); err != nil {
			fmt.Fprintln(stderr, "filetree:", err)
			return 1
		}
	}
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "v" || f.Name == "verbose" {
			cfg.Merge(&config.ConfigOverride{LogLvl: util.Pointer(verbose)})
		}
	})

	util.InitializeLoggerTo(cfg.LogLvl, stderr)
	logger := util.GetLogger("main")
	if noColor {
		color.NoColor = true
	}

	// the CLI hosts a single namespace
	reg := server.NewRegistry(cfg)
	ns, err := reg.Create()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create namespace")
		return 1
	}
	defer reg.Delete(ns.ID()) // nolint:errcheck

	if nodesDef != "" {
		if err := loadManifest(ctx, ns, nodesDef); err != nil {
			logger.Error().Err(err).Str("nodes", nodesDef).Msg("Failed to load manifest")
			return 1
		}
	} else {
		logger.Warn().Msg("No manifest provided; the tree is empty")
	}

	if err := runCommand(ns, flags.Args(), stdout); err != nil {
		fmt.Fprintln(stderr, "filetree:", err)
		if errors.Is(err, errUsage) {
			flags.Usage()
			return 2
		}
		return 1
	}
	return 0
}

func loadManifest(ctx context.Context, ns *server.Namespace, path string) error {
	logger := util.GetLogger("main.loadManifest")

	manifest, err := requests.LoadManifestFile(adapters.NewBuiltinRegistry(), path)
	if err != nil {
		return err
	}
	logger.Debug().Int("files", len(manifest.Files)).Int("directories", len(manifest.Dirs)).
		Msg("Successfully loaded manifest")

	report, err := ns.Load(ctx, manifest.Dirs, manifest.Files)
	if err != nil {
		return err
	}
	for _, f := range report.Failures {
		logger.Warn().Err(f.Err).Str("path", f.Path).Str("type", f.Type.String()).Msg("Skipped manifest entry")
	}
	return nil
}

func runCommand(ns *server.Namespace, args []string, out io.Writer) error {
	cmd := "list"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	pathArg := func() (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%w: %s takes exactly one PATH", errUsage, cmd)
		}
		return args[0], nil
	}

	switch cmd {
	case "list":
		return list(ns, out)
	case "stat":
		p, err := pathArg()
		if err != nil {
			return err
		}
		info, err := ns.Info(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			fmt.Fprintf(out, "%s\tdir\t%d entries\n", info.Path, info.NumChildren)
		} else {
			fmt.Fprintf(out, "%s\tfile\t%d bytes\n", info.Path, info.Size)
		}
		return nil
	case "cat":
		p, err := pathArg()
		if err != nil {
			return err
		}
		content, err := ns.GetFileContents(p)
		if err != nil {
			return err
		}
		_, err = out.Write(content)
		return err
	case "check":
		if !ns.Check() {
			return errors.New("tree invariants violated; see log for details")
		}
		fmt.Fprintf(out, "ok: %d nodes\n", ns.Count())
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// list prints the serialized tree with directories highlighted.
func list(ns *server.Namespace, out io.Writer) error {
	serialized, err := ns.Serialize()
	if err != nil {
		return err
	}
	if color.NoColor {
		_, err = io.WriteString(out, serialized)
		return err
	}

	dir := color.New(color.FgBlue, color.Bold)
	for line := range strings.Lines(serialized) {
		p := strings.TrimSuffix(line, "\n")
		if ns.ContainsDir(p) {
			dir.Fprintln(out, p) // nolint:errcheck
		} else {
			fmt.Fprintln(out, p)
		}
	}
	return nil
}
