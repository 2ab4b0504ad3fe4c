package sandbox

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
	"golang.org/x/text/encoding/ianaindex"
)

// ImageFamily tags an image with the user-resolution bucket it belongs to.
// Interpreter images (python and friends) ship with a low-privileged uid we
// can run as; base images keep their default identity.
type ImageFamily string

const (
	FamilyInterpreter ImageFamily = "interpreter"
	FamilyBase        ImageFamily = "base"
)

// sandboxUsers is the two-bucket user policy. An empty string means the
// image's default user.
var sandboxUsers = map[ImageFamily]string{
	FamilyInterpreter: "1000",
	FamilyBase:        "",
}

// ResolveUser returns the in-container user for an image family. Returns the
// image default (empty string) when non-root execution is not requested or
// the family has no low-privileged identity.
func ResolveUser(family ImageFamily, nonRoot bool) string {
	if !nonRoot {
		return ""
	}
	return sandboxUsers[family]
}

// Config holds every recognized engine option with its default. It is
// validated once at engine construction and treated as immutable afterwards.
type Config struct {
	PythonImage    string
	AlpineImage    string
	MemoryLimit    string  // e.g. "512m"
	CPULimit       float64 // cores
	Timeout        int     // overall budget per request, seconds
	CommandTimeout int     // per-command ceiling, seconds
	NetworkAccess  bool
	MaxOutputSize  int    // bytes
	OutputEncoding string // IANA encoding name
	NonRootUser    bool
	EnablePython   bool
	EnableBash     bool
}

// DefaultConfig returns the built-in defaults with environment overrides
// applied (CRUCIBLE_* variables).
func DefaultConfig() Config {
	return Config{
		PythonImage:    getEnvOrDefault("CRUCIBLE_PYTHON_IMAGE", "python:3.12-slim"),
		AlpineImage:    getEnvOrDefault("CRUCIBLE_ALPINE_IMAGE", "alpine:latest"),
		MemoryLimit:    getEnvOrDefault("CRUCIBLE_MEMORY_LIMIT", "512m"),
		CPULimit:       getEnvFloat("CRUCIBLE_CPU_LIMIT", 1.0),
		Timeout:        getEnvInt("CRUCIBLE_TIMEOUT", 30),
		CommandTimeout: getEnvInt("CRUCIBLE_COMMAND_TIMEOUT", 25),
		NetworkAccess:  getEnvBool("CRUCIBLE_NETWORK_ACCESS", false),
		MaxOutputSize:  getEnvInt("CRUCIBLE_MAX_OUTPUT_SIZE", 10*1024),
		OutputEncoding: getEnvOrDefault("CRUCIBLE_OUTPUT_ENCODING", "utf-8"),
		NonRootUser:    getEnvBool("CRUCIBLE_NON_ROOT_USER", true),
		EnablePython:   getEnvBool("CRUCIBLE_ENABLE_PYTHON", true),
		EnableBash:     getEnvBool("CRUCIBLE_ENABLE_BASH", true),
	}
}

// Validate checks every option once so the engine never has to re-check.
func (c Config) Validate() error {
	if c.PythonImage == "" || c.AlpineImage == "" {
		return fmt.Errorf("image identifiers must not be empty")
	}
	if _, err := units.RAMInBytes(c.MemoryLimit); err != nil {
		return fmt.Errorf("invalid memory limit %q: %w", c.MemoryLimit, err)
	}
	if c.CPULimit <= 0 {
		return fmt.Errorf("cpu limit must be positive, got %v", c.CPULimit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command timeout must be positive, got %d", c.CommandTimeout)
	}
	if c.MaxOutputSize <= 0 {
		return fmt.Errorf("max output size must be positive, got %d", c.MaxOutputSize)
	}
	enc, err := ianaindex.IANA.Encoding(c.OutputEncoding)
	if err != nil || enc == nil {
		return fmt.Errorf("unsupported output encoding %q", c.OutputEncoding)
	}
	return nil
}

// MemoryBytes returns the memory ceiling in bytes. Config must be validated
// first; an unparseable limit yields 0.
func (c Config) MemoryBytes() int64 {
	n, err := units.RAMInBytes(c.MemoryLimit)
	if err != nil {
		return 0
	}
	return n
}

// NewRequest builds an execution request carrying this configuration's
// resource, time, and output policy.
func (c Config) NewRequest(image string, family ImageFamily, files map[string]string, commands []string) Request {
	return Request{
		Image:          image,
		Family:         family,
		Files:          files,
		Commands:       commands,
		Memory:         c.MemoryBytes(),
		CPU:            c.CPULimit,
		Timeout:        c.Timeout,
		CommandTimeout: c.CommandTimeout,
		NetworkAccess:  c.NetworkAccess,
		MaxOutputSize:  c.MaxOutputSize,
		OutputEncoding: c.OutputEncoding,
		NonRootUser:    c.NonRootUser,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultValue
}
