// bafctl inspects, exports, renders and synthesizes binary acquisition files
// without the desktop viewer.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/iafilius/BinaryAcquisitionViewer/src/config"
	"github.com/iafilius/BinaryAcquisitionViewer/src/logging"
	"github.com/iafilius/BinaryAcquisitionViewer/src/session"
)

var app *commander.Command

func init() {
	app = &commander.Command{
		UsageLine: "bafctl [-config file.jsonc] [-log-level level] <command> [args]",
		Subcommands: []*commander.Command{
			bafMakeCmdInfo(),
			bafMakeCmdExport(),
			bafMakeCmdRender(),
			bafMakeCmdSpectrum(),
			bafMakeCmdSimulate(),
		},
		Flag: *flag.NewFlagSet("bafctl", flag.ExitOnError),
	}
	app.Flag.String("config", "", "path to a JSONC configuration file")
	app.Flag.String("log-level", "", "log level (debug|info|warn|error), overrides the config file")
}

// env is what every subcommand needs: the configuration and a logger.
type env struct {
	cfg config.Config
	log *logging.Logger
}

func newEnv() (*env, error) {
	cfg, err := config.Load(app.Flag.Lookup("config").Value.Get().(string))
	if err != nil {
		return nil, err
	}
	if lvl := app.Flag.Lookup("log-level").Value.Get().(string); lvl != "" {
		if _, ok := logging.ParseLevel(lvl); !ok {
			return nil, fmt.Errorf("unknown log level %q", lvl)
		}
		cfg.LogLevel = lvl
	}
	lg := logging.New(os.Stderr)
	lg.SetLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		if err := lg.OpenFile(config.ExpandHost(cfg.LogFile)); err != nil {
			return nil, err
		}
	}
	return &env{cfg: cfg, log: lg}, nil
}

func (e *env) close() { e.log.Close() }

// open returns a session showing path.
func (e *env) open(path string) (*session.Session, error) {
	s := session.New(e.log, e.cfg.PageTimeSeconds)
	if err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

func wantArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("invalid number of arguments. got %d. want %d", len(args), n)
	}
	return nil
}

func main() {
	err := app.Flag.Parse(os.Args[1:])
	if err != nil {
		log.Printf("error parsing flags: %v\n", err)
		os.Exit(1)
	}

	err = app.Dispatch(app.Flag.Args())
	if err != nil {
		log.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
