package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/children0001/inchain/chaincfg"
	"github.com/children0001/inchain/infrastructure/logger"
	"github.com/children0001/inchain/version"
)

const (
	defaultConfigFilename = "inchaind.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "inchaind.log"
	defaultErrLogFilename = "inchaind_err.log"
)

var (
	// DefaultHomeDir is the default home directory for inchaind.
	DefaultHomeDir = btcutil.AppDataDir("inchaind", false)

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(DefaultHomeDir, defaultLogDirname)
)

// Flags defines the configuration options for inchaind.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion       bool          `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile        string        `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir           string        `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir            string        `long:"logdir" description:"Directory to log output."`
	LogLevel          string        `short:"d" long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	SimNet            bool          `long:"simnet" description:"Use the simulation test network"`
	CreditGrantAmount uint64        `long:"creditgrant" description:"Credit value awarded per payment-reason grant"`
	CreditWindow      time.Duration `long:"creditwindow" description:"Minimum time between two grants of the same reason to one identity. Valid time units are {s, m, h}"`
}

// Config defines the configuration options for inchaind after applying
// defaults, the config file and command-line flags.
type Config struct {
	*Flags
	ActiveParams chaincfg.Params
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = filepath.Join(homeDir, path[1:])
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// defaultFlags returns the default configuration.
func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:        defaultConfigFile,
		DataDir:           defaultDataDir,
		LogDir:            defaultLogDir,
		LogLevel:          defaultLogLevel,
		CreditGrantAmount: chaincfg.MainNetParams.CreditGrantAmount,
		CreditWindow:      chaincfg.MainNetParams.CreditWindow,
	}
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file was specified. The help message flag can be ignored here since
	// the final parse below will pick it up.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, err
		}
	}

	appName := filepath.Base(os.Args[0])
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, version.Version())
		os.Exit(0)
	}

	// Load additional config from file.
	parser := flags.NewParser(cfgFlags, flags.Default)
	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		// A missing config file at the default location is fine;
		// anywhere else it was asked for explicitly.
		if !os.IsNotExist(errors.Cause(err)) || preCfg.ConfigFile != defaultConfigFile {
			return nil, errors.Wrapf(err, "error parsing config file %s", configFile)
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		return nil, err
	}

	if _, ok := logger.LevelFromString(cfgFlags.LogLevel); !ok {
		return nil, errors.Errorf("the specified log level [%s] is invalid", cfgFlags.LogLevel)
	}

	activeParams := chaincfg.MainNetParams
	if cfgFlags.SimNet {
		activeParams = chaincfg.SimNetParams
	}
	activeParams.CreditGrantAmount = cfgFlags.CreditGrantAmount
	activeParams.CreditWindow = cfgFlags.CreditWindow

	cfg := &Config{
		Flags:        cfgFlags,
		ActiveParams: activeParams,
	}
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.DataDir = filepath.Join(cfg.DataDir, activeParams.Name)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.LogDir = filepath.Join(cfg.LogDir, activeParams.Name)

	err = os.MkdirAll(cfg.DataDir, 0700)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create data directory %s", cfg.DataDir)
	}

	return cfg, nil
}

// LogFile returns the path of the primary rotating log file.
func (cfg *Config) LogFile() string {
	return filepath.Join(cfg.LogDir, defaultLogFilename)
}

// ErrLogFile returns the path of the error-level rotating log file.
func (cfg *Config) ErrLogFile() string {
	return filepath.Join(cfg.LogDir, defaultErrLogFilename)
}
