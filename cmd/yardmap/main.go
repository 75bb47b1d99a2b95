// Command yardmap maintains a yard map of zones, beacons and motorcycles.
//
// Usage:
//
//	yardmap [-config dir] shell
//	yardmap [-config dir] run script.yaml
//	yardmap inspect export.json[.gz]
//	yardmap version
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/yardtrack/yardmap/internal/export"
)

// BuildDate and Version can be set at build time via ldflags
var (
	Version   = "0.0.1"
	BuildDate = "unknown"
)

const appName = "yardmap"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(appName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configDir := flags.String("config", ".", "directory containing the config file and .env")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [-config dir] shell | run <script.yaml> | inspect <export> | version\n", appName)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	rest := flags.Args()
	if len(rest) == 0 {
		flags.Usage()
		return 2
	}

	switch rest[0] {
	case "version":
		fmt.Fprintf(stdout, "%s %s (%s)\n", appName, Version, BuildDate)
		return 0
	case "inspect":
		if len(rest) != 2 {
			flags.Usage()
			return 2
		}
		doc, err := export.Read(rest[1])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		printDocument(stdout, doc)
		return 0
	case "run", "shell":
	default:
		flags.Usage()
		return 2
	}

	var script *Script
	if rest[0] == "run" {
		if len(rest) != 2 {
			flags.Usage()
			return 2
		}
		var err error
		if script, err = LoadScript(rest[1]); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, *configDir)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintln(stderr, "shutdown:", err)
		}
	}()

	if script != nil {
		if err := RunScript(ctx, a.dispatcher, script, stdout); err != nil {
			a.logger.Error("Script failed", "script", script.Name, "error", err)
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	sh, err := NewShell(a.dispatcher)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	sh.Run(ctx, cancel)
	return 0
}

func printDocument(w io.Writer, doc export.Document) {
	fmt.Fprintf(w, "format %d, revision %d, exported %s\n",
		doc.FormatVersion, doc.Revision, doc.ExportedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%d zones, %d markers, %d beacons, %d motorcycles\n",
		len(doc.Zones), len(doc.Markers), len(doc.Beacons), len(doc.Motorcycles))
	for _, z := range doc.Zones {
		n := 0
		for _, m := range doc.Markers {
			if m.ZoneID != nil && *m.ZoneID == z.ID {
				n++
			}
		}
		fmt.Fprintf(w, "  %s %q at %s,%s size %sx%s: %d markers\n",
			z.ID, z.Name, z.Position.Top, z.Position.Left, z.Position.Width, z.Position.Height, n)
	}
}
