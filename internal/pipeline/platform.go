package pipeline

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
)

// elaborateArgs returns platform-specific extra flags for the elaborate
// stage. On macOS the linker needs the deployment target spelled out or
// it rejects GHDL's objects; everywhere else no extra flags are passed.
func elaborateArgs(ctx context.Context) ([]string, error) {
	if runtime.GOOS != "darwin" {
		return nil, nil
	}
	version, err := macOSVersion(ctx)
	if err != nil {
		return nil, err
	}
	return []string{"-Wl,-mmacosx-version-min=" + version}, nil
}

func macOSVersion(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "sw_vers").Output()
	if err != nil {
		return "", eris.Wrap(err, "querying the macOS version with sw_vers")
	}
	version := productVersion(out)
	if version == "" {
		return "", eris.New("sw_vers output did not contain a ProductVersion field")
	}
	return version, nil
}

// productVersion extracts the ProductVersion field from sw_vers output.
func productVersion(out []byte) string {
	for _, line := range strings.Split(string(out), "\n") {
		if rest, ok := strings.CutPrefix(line, "ProductVersion:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
