// Command netname prints the persistent logical name for a network device.
// It is meant to be called from a udev rule as the device appears:
//
//	SUBSYSTEM=="net", ACTION=="add", PROGRAM="/usr/libexec/confgen/netname -current-name $name %k", NAME="%c"
//
// Usage:
//
//	netname [flags] <kernel-name> [predefined-name]
//
// The predefined name comes from the positional argument, or else from the
// CONFGEN_IFNAME or ID_NET_NAME udev properties. When no logical name
// applies, nothing is printed and the device keeps its kernel name.
// Diagnostics go to stderr only.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/netforge-os/confgen/pkg/audit"
	"github.com/netforge-os/confgen/pkg/hwid"
	"github.com/netforge-os/confgen/pkg/netname"
	"github.com/netforge-os/confgen/pkg/settings"
	"github.com/netforge-os/confgen/pkg/util"
	"github.com/netforge-os/confgen/pkg/version"
)

type options struct {
	src       hwid.Source
	sysfsRoot string
	current   string
	auditPath string
	verbose   bool
	logJSON   bool
	version   bool
}

func main() {
	util.SetLogOutput(os.Stderr)

	opts, args, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if opts.version {
		fmt.Println(version.Info("netname"))
		return
	}
	if err := run(context.Background(), opts, args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "netname: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(argv []string) (*options, []string, error) {
	s, err := settings.Load()
	if err != nil {
		s = &settings.Settings{}
	}

	opts := &options{}
	fs := flag.NewFlagSet("netname", flag.ContinueOnError)
	fs.StringVar(&opts.src.Path, "hwid", s.GetHWIDPath(), "Hardware-ID table file (YAML or TOML)")
	fs.StringVar(&opts.src.Config, "hwid-config", "", "Read hardware IDs from a configuration document")
	fs.StringVar(&opts.src.RedisAddr, "redis", s.RedisAddr, "Read hardware IDs from Redis at this address")
	fs.IntVar(&opts.src.RedisDB, "redis-db", hwid.DefaultRedisDB, "Redis database number")
	fs.StringVar(&opts.sysfsRoot, "sysfs-root", netname.DefaultSysfsRoot, "sysfs network class directory")
	fs.StringVar(&opts.current, "current-name", "", "Name already assigned by an earlier rule")
	fs.StringVar(&opts.auditPath, "audit-log", s.GetAuditLog(), "Audit log file (empty disables auditing)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging to stderr")
	fs.BoolVar(&opts.logJSON, "log-json", false, "Log in JSON format")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: netname [flags] <kernel-name> [predefined-name]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return nil, nil, err
	}
	return opts, fs.Args(), nil
}

// run resolves one device and writes its logical name, if any, to stdout.
func run(ctx context.Context, opts *options, args []string, stdout io.Writer) error {
	if opts.verbose {
		util.SetLogLevel("debug")
	} else {
		util.SetLogLevel("warn")
	}
	if opts.logJSON {
		util.SetJSONFormat()
	}

	kernelName := os.Getenv("INTERFACE")
	if len(args) > 0 {
		kernelName = args[0]
	}
	if kernelName == "" {
		return fmt.Errorf("%w: no kernel name given", util.ErrInvalidConfig)
	}

	start := time.Now()
	ev, err := netname.EventFromSysfs(opts.sysfsRoot, kernelName)
	if err != nil {
		return err
	}
	ev.PredefinedName = predefinedName(args)
	// udev passes $name as the kernel name when no earlier rule set one.
	if opts.current != "" && opts.current != kernelName {
		ev.CurrentName = opts.current
	}

	table, err := opts.src.Load(ctx)
	if err != nil {
		// A broken table must not stall device bring-up: fall back to the
		// guards that need no table.
		util.WithInterface(kernelName).Errorf("loading hardware-ID table from %s: %v", opts.src, err)
		table = nil
	}

	d := netname.Resolve(ev, table)
	if d.Matched() {
		fmt.Fprintln(stdout, d.Name)
	}

	if opts.auditPath != "" {
		event := audit.NewEvent(os.Getenv("USER"), audit.OpResolve).
			WithInterface(ev.KernelName, ev.HardwareAddress).
			WithDecision(d.Name, string(d.Rule)).
			WithDuration(time.Since(start)).
			WithSuccess()
		logAudit(opts.auditPath, event)
	}
	return nil
}

// predefinedEnv lists the udev properties that may carry a predefined name,
// highest precedence first.
var predefinedEnv = []string{"CONFGEN_IFNAME", "ID_NET_NAME"}

func predefinedName(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	for _, key := range predefinedEnv {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func logAudit(path string, event *audit.Event) {
	logger, err := audit.NewFileLogger(path, audit.DefaultRotation)
	if err != nil {
		util.Warnf("Could not open audit log: %v", err)
		return
	}
	defer logger.Close()
	if err := logger.Log(event); err != nil {
		util.Warnf("Could not write audit event: %v", err)
	}
}
