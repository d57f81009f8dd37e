package fonttools

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/schuko/schukonf/testconfig"
)

// EnvCommand is the environment variable which overrides the fontTools command,
// e.g. "python3 -m fontTools".
const EnvCommand = "OTSLICE_FONTTOOLS"

// Configuration keys.
const (
	KeyCommand  = "fonttools.exe"
	KeyTimeout  = "fonttools.timeout"
	KeyKeepTemp = "fonttools.keeptemp"
	KeyVerify   = "fonttools.verify"
)

// Config configures the fontTools backend.
type Config struct {
	Command  []string      // executable and leading arguments
	Timeout  time.Duration // per subprocess invocation
	KeepTemp bool          // keep intermediate files for inspection
	Verify   bool          // check instancer output with an independent parser
}

// DefaultConfig returns the configuration used if nothing else is set.
func DefaultConfig() Config {
	return Config{
		Command: []string{"fonttools"},
		Timeout: 2 * time.Minute,
		Verify:  true,
	}
}

// ConfigFrom derives a configuration from key/value settings. Settings override
// environment variable EnvCommand, which overrides the defaults.
//
// Values are interpreted by their string form. fonttools.timeout may be given as
// a duration ("90s") or in seconds.
func ConfigFrom(conf testconfig.Conf) (Config, error) {
	c := DefaultConfig()
	if env := strings.Fields(os.Getenv(EnvCommand)); len(env) > 0 {
		c.Command = env
	}
	if v, ok := conf[KeyCommand]; ok {
		cmd := strings.Fields(fmt.Sprint(v))
		if len(cmd) == 0 {
			return c, fmt.Errorf("config %s: empty command", KeyCommand)
		}
		c.Command = cmd
	}
	if v, ok := conf[KeyTimeout]; ok {
		d, err := parseTimeout(v)
		if err != nil {
			return c, fmt.Errorf("config %s: %w", KeyTimeout, err)
		}
		c.Timeout = d
	}
	var err error
	if c.KeepTemp, err = flag(conf, KeyKeepTemp, c.KeepTemp); err != nil {
		return c, err
	}
	if c.Verify, err = flag(conf, KeyVerify, c.Verify); err != nil {
		return c, err
	}
	return c, nil
}

func parseTimeout(v interface{}) (time.Duration, error) {
	s := strings.TrimSpace(fmt.Sprint(v))
	d, err := time.ParseDuration(s)
	if n, atoiErr := strconv.Atoi(s); atoiErr == nil {
		d, err = time.Duration(n)*time.Second, nil
	}
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, is %s", d)
	}
	return d, nil
}

func flag(conf testconfig.Conf, key string, dflt bool) (bool, error) {
	v, ok := conf[key]
	if !ok {
		return dflt, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(fmt.Sprint(v)))
	if err != nil {
		return dflt, fmt.Errorf("config %s: %w", key, err)
	}
	return b, nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s (timeout %s)", strings.Join(c.Command, " "), c.Timeout)
}
