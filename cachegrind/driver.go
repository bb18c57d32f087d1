package cachegrind

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bytesnake/alco/params"
)

// InternalRunFlag is the first argument of an instrumented child
// invocation. Everything after it is the benchmark index and the
// serialized assignment tokens.
const InternalRunFlag = "--internal-run"

// Fixed cache geometry for every invocation. The exact sizes matter less
// than having fixed sizes: cachegrind would otherwise take them from the
// host CPU and make runs incomparable between machines.
const (
	l1InstructionConfig = "--I1=32768,8,64"
	l1DataConfig        = "--D1=32768,8,64"
	lastLevelConfig     = "--LL=8388608,16,64"
)

// CheckValgrind verifies that the simulator binary is callable. A
// failure is benign: the caller logs a note and skips all benchmark
// groups.
func CheckValgrind() error {
	cmd := exec.Command("valgrind", "--tool=cachegrind", "--version")
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrValgrindAbsent, err)
	}
	return nil
}

// DetectArch reads the CPU architecture string, used by the ASLR-off
// invocation.
func DetectArch() (string, error) {
	out, err := exec.Command("uname", "-m").Output()
	if err != nil {
		return "", fmt.Errorf("failed to run uname to determine CPU architecture: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Driver wraps one cachegrind invocation of the current executable per
// Measure call. It is strictly synchronous: cachegrind output is only
// meaningful in isolation, so each measurement blocks until the child
// exits.
type Driver struct {
	executable string
	systemName string
	arch       string
	allowASLR  bool
	logger     zerolog.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithSystemName overrides the output directory name under target/.
func WithSystemName(name string) DriverOption {
	return func(d *Driver) {
		d.systemName = name
	}
}

// WithAllowASLR leaves address-space layout randomization enabled for
// child processes.
func WithAllowASLR(allow bool) DriverOption {
	return func(d *Driver) {
		d.allowASLR = allow
	}
}

// WithArch sets the CPU architecture string used by the ASLR-off
// invocation.
func WithArch(arch string) DriverOption {
	return func(d *Driver) {
		d.arch = arch
	}
}

// WithLogger sets the driver's diagnostic logger.
func WithLogger(logger zerolog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// NewDriver creates a measurement driver for the given executable.
func NewDriver(executable string, opts ...DriverOption) *Driver {
	d := &Driver{
		executable: executable,
		systemName: "alco",
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OutputPath returns the deterministic output file path for a benchmark
// name.
func (d *Driver) OutputPath(name string) string {
	return filepath.Join("target", d.systemName, "cachegrind.out."+name)
}

// Measure runs the current executable under cachegrind with the
// assignment encoded on the command line and returns the parsed
// counters, plus the counters of the previous run when one exists.
func (d *Driver) Measure(
	benchIndex int,
	name string,
	samples *params.Samples,
) (Stats, *Stats, error) {
	outputFile := d.OutputPath(name)
	oldFile := outputFile + ".old"

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return Stats{}, nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Already ran this benchmark once; rotate the last results to .old.
	if _, err := os.Stat(outputFile); err == nil {
		if err := os.Rename(outputFile, oldFile); err != nil {
			return Stats{}, nil, fmt.Errorf("failed to rotate previous output: %w", err)
		}
	}

	args := []string{
		"--tool=cachegrind",
		l1InstructionConfig,
		l1DataConfig,
		lastLevelConfig,
		"--cachegrind-out-file=" + outputFile,
		d.executable,
		InternalRunFlag,
		strconv.Itoa(benchIndex),
	}
	args = append(args, samples.Tokens()...)

	cmd := d.valgrindCommand(args)
	cmd.Stdout = nil
	cmd.Stderr = nil

	d.logger.Debug().
		Str("benchmark", name).
		Strs("tokens", samples.Tokens()).
		Msg("running measurement")

	if err := cmd.Run(); err != nil {
		return Stats{}, nil, fmt.Errorf("%w: %v", ErrMeasurement, err)
	}

	stats, err := ParseOutput(outputFile)
	if err != nil {
		return Stats{}, nil, err
	}

	var oldStats *Stats
	if _, err := os.Stat(oldFile); err == nil {
		parsed, err := ParseOutput(oldFile)
		if err != nil {
			return Stats{}, nil, err
		}
		oldStats = &parsed
	}

	return stats, oldStats, nil
}

// valgrindCommand builds the simulator command, suppressing ASLR when
// requested. ASLR suppression is a platform-specific extension point:
// benchmark comparability across runs depends on it.
func (d *Driver) valgrindCommand(args []string) *exec.Cmd {
	if d.allowASLR {
		return exec.Command("valgrind", args...)
	}
	return valgrindWithoutASLR(d.arch, args)
}

// valgrindWithoutASLR launches valgrind with address-space layout
// randomization disabled for the child. On Linux this goes through
// setarch -R; other platforms fall back to a plain invocation.
func valgrindWithoutASLR(arch string, args []string) *exec.Cmd {
	if runtime.GOOS == "linux" && arch != "" {
		wrapped := append([]string{arch, "-R", "valgrind"}, args...)
		return exec.Command("setarch", wrapped...)
	}
	return exec.Command("valgrind", args...)
}
