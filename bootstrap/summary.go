package bootstrap

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kbukum/injex/di"
)

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a new bootstrap summary tracker writing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		out:         os.Stdout,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetOutput redirects the summary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// DisplaySummary prints the startup header and a tree of the registry's entries.
func (s *Summary) DisplaySummary(registry *di.Registry) {
	fmt.Fprintf(s.out, "\n")
	fmt.Fprintf(s.out, "🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	var infos []di.RegistrationInfo
	if registry != nil {
		infos = registry.Registrations()
	}

	if len(infos) == 0 {
		fmt.Fprintf(s.out, "   └── No dependencies registered\n\n")
		return
	}

	fmt.Fprintf(s.out, "📦 Registry %s (%d)\n", registry.Name(), len(infos))
	pending := 0
	for i, info := range infos {
		prefix := "├──"
		if i == len(infos)-1 {
			prefix = "└──"
		}
		status := registrationStatus(info)
		if info.Pending {
			pending++
		}
		fmt.Fprintf(s.out, "   %s %s %s (%s)\n", prefix, statusIcon(status), info.Identifier, status)
	}
	fmt.Fprintf(s.out, "\n")

	if pending > 0 {
		fmt.Fprintf(s.out, "⚡ %d lazy instance(s) will be built on first use\n", pending)
	}
	fmt.Fprintf(s.out, "\n")
}

func registrationStatus(info di.RegistrationInfo) string {
	switch {
	case info.Deprecated:
		return "deprecated"
	case info.Pending:
		return "lazy"
	default:
		return "ready"
	}
}

func statusIcon(status string) string {
	switch status {
	case "ready":
		return "✅"
	case "lazy":
		return "⚡"
	case "deprecated":
		return "⚠️"
	default:
		return "❓"
	}
}
