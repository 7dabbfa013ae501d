package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"recast/internal/services/voicevox"
)

const voiceVoxCheckTimeout = 5 * time.Second

// CheckVoiceVox verifies the engine answers its version endpoint.
func CheckVoiceVox(ctx context.Context, baseURL string) Result {
	const name = "VOICEVOX"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, voiceVoxCheckTimeout)
	defer cancel()

	client := voicevox.New(base, voicevox.WithTimeout(voiceVoxCheckTimeout))
	version, err := client.HealthCheck(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", base, summarizeError(err))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (engine %s)", base, version)}
}

// CheckGoogleCredentials reports which credential source the Google backend
// will use. A configured file must exist and be readable.
func CheckGoogleCredentials(credentialsFile string) Result {
	const name = "Google credentials"

	path := strings.TrimSpace(credentialsFile)
	if path != "" {
		if strings.HasPrefix(path, "{") {
			return Result{Name: name, Passed: true, Detail: "inline JSON"}
		}
		info, err := os.Stat(path)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
		}
		if info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
		}
		if err := unix.Access(path, unix.R_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: path}
	}
	if strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")) != "" {
		return Result{Name: name, Passed: true, Detail: "GOOGLE_APPLICATION_CREDENTIALS_JSON"}
	}
	return Result{Name: name, Passed: true, Detail: "application default credentials"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (engine unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (engine unreachable)"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "connection failed (is the engine running?)"
	}
	return err.Error()
}
