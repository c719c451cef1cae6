package gc

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Environment variables read by LoadConfig.
const (
	// EnvHeapWords holds the total heap size in words (both halves).
	EnvHeapWords = "MINT_HEAP_WORDS"

	// EnvLog enables the collector trace when set to "1".
	EnvLog = "MINT_GC_LOG"

	// EnvConfig optionally names a YAML file the configuration is read from
	// instead of the two variables above.
	EnvConfig = "MINT_GC_CONFIG"
)

// Config holds the two values the runtime is configured with.
type Config struct {
	// HeapWords is the total heap size in words. It must be positive and
	// even; NewHeap fails fatally otherwise.
	HeapWords uint64 `yaml:"heap-words"`

	// Log enables the collector trace.
	Log bool `yaml:"log"`
}

// LoadConfig reads the runtime configuration from the environment, or from
// the YAML file named by MINT_GC_CONFIG if that is set. A missing heap size
// is fatal; a malformed one reads as zero and is rejected by NewHeap.
func LoadConfig() Config {
	if path := os.Getenv(EnvConfig); path != "" {
		return loadConfigFile(path)
	}

	value := os.Getenv(EnvHeapWords)
	if value == "" {
		fatal(msgMissingHeapWords)
		return Config{}
	}
	return Config{
		HeapWords: parseHeapWords(value),
		Log:       os.Getenv(EnvLog) == "1",
	}
}

// parseHeapWords parses a heap size. Anything but a plain run of digits (a
// sign, spaces, a suffix) yields zero, which fails the positive-and-even
// check in NewHeap with the same message a zero size does.
func parseHeapWords(s string) uint64 {
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func loadConfigFile(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("unable to read " + path + ": " + err.Error())
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fatal("unable to parse " + path + ": " + err.Error())
		return Config{}
	}
	return cfg
}
