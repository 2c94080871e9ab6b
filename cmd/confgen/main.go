// Confgen - router configuration generator
//
// Compiles the static-route section of a router configuration document into
// FRR statements and manages the hardware-ID table used to give network
// devices stable names.
//
// Examples:
//
//	confgen render -c /etc/confgen/config.yaml -o /run/frr/static.conf
//	confgen resolve --kernel-name enp3s0 --address 00:0c:29:aa:bb:01 --driver-linked
//	confgen resolve --sysfs enp3s0
//	confgen hwid list
//	confgen --redis 127.0.0.1:6379 hwid import hwid.yaml
//	confgen audit list --last 24h
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netforge-os/confgen/pkg/hwid"
	"github.com/netforge-os/confgen/pkg/settings"
	"github.com/netforge-os/confgen/pkg/util"
	"github.com/netforge-os/confgen/pkg/version"
)

// App holds state shared by every subcommand.
type App struct {
	verbose    bool
	logJSON    bool
	jsonOutput bool

	hwidPath   string
	hwidConfig string
	redisAddr  string
	redisDB    int
	sshHost    string
	sshUser    string
	sshPass    string
	knownHosts string
	auditPath  string

	settings *settings.Settings
}

var app = &App{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "confgen",
	Short:             "Router configuration generator",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Confgen compiles router configuration documents into FRR statements and
manages the hardware-ID table that gives network devices stable names.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if app.verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}
		if app.logJSON {
			util.SetJSONFormat()
		}

		s, err := settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			s = &settings.Settings{}
		}
		app.settings = s

		if app.hwidPath == "" {
			app.hwidPath = s.GetHWIDPath()
		}
		if app.redisAddr == "" && !cmd.Flags().Changed("redis") {
			app.redisAddr = s.RedisAddr
		}
		if app.auditPath == "" {
			app.auditPath = s.GetAuditLog()
		}
		return nil
	},
}

// hwidSource returns the table source selected by the global flags.
func (a *App) hwidSource() hwid.Source {
	return hwid.Source{
		Path:      a.hwidPath,
		Config:    a.hwidConfig,
		RedisAddr: a.redisAddr,
		RedisDB:   a.redisDB,
		SSHHost:   a.sshHost,
		SSHUser:   a.sshUser,
		SSHPass:   a.sshPass,

		SSHKnownHosts: a.knownHosts,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info("confgen"))
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "Verbose output")
	pf.BoolVar(&app.logJSON, "log-json", false, "Log in JSON format")

	pf.StringVar(&app.hwidPath, "hwid", "", "Hardware-ID table file, YAML or TOML (default from settings)")
	pf.StringVar(&app.hwidConfig, "hwid-config", "", "Read hardware IDs from the interfaces section of a configuration document")
	pf.StringVar(&app.redisAddr, "redis", "", "Read hardware IDs from Redis at this address")
	pf.IntVar(&app.redisDB, "redis-db", hwid.DefaultRedisDB, "Redis database number")
	pf.StringVar(&app.sshHost, "ssh-host", "", "Reach the router's Redis through an SSH tunnel to this host (see --ssh-known-hosts)")
	pf.StringVar(&app.sshUser, "ssh-user", "admin", "SSH user for --ssh-host")
	pf.StringVar(&app.sshPass, "ssh-pass", "", "SSH password for --ssh-host")
	pf.StringVar(&app.knownHosts, "ssh-known-hosts", "", "known_hosts file for --ssh-host; host keys are not verified when empty")
	pf.StringVar(&app.auditPath, "audit-log", "", "Audit log file (default from settings)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(hwidCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
}
