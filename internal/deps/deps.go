package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"mkvlang/internal/toolexec"
)

// Requirement defines an external binary mkvlang relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// ToolRequirements lists the MKVToolNix binaries used for identification and
// flag editing.
func ToolRequirements(mkvmerge, mkvpropedit string) []Requirement {
	return []Requirement{
		{Name: "mkvmerge", Command: mkvmerge, Description: "Identifies tracks (mkvmerge -J)"},
		{Name: "mkvpropedit", Command: mkvpropedit, Description: "Rewrites track flags in place"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(req))
	}
	return results
}

// CheckVersions is CheckBinaries plus a `--version` probe of every available
// binary through runner. A failing probe leaves the binary available and
// records the reason in Detail.
func CheckVersions(ctx context.Context, runner toolexec.Runner, requirements []Requirement) []Status {
	results := CheckBinaries(requirements)
	if runner == nil {
		return results
	}
	for i := range results {
		if !results[i].Available {
			continue
		}
		result, err := runner.Run(ctx, results[i].Path, "--version")
		switch {
		case err != nil:
			results[i].Detail = fmt.Sprintf("version probe failed: %v", err)
		case !result.Succeeded():
			results[i].Detail = fmt.Sprintf("version probe exited %d", result.ExitCode)
		default:
			results[i].Version = firstLine(result.Output)
		}
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			out = append(out, status)
		}
	}
	return out
}

func check(req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     cmd,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	status.Path = resolved
	status.Available = true
	return status
}

func firstLine(output string) string {
	output = strings.TrimSpace(output)
	if idx := strings.IndexByte(output, '\n'); idx >= 0 {
		output = output[:idx]
	}
	return strings.TrimSpace(output)
}
