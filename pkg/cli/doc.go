// Package cli implements the command-line interface for the lmsctl deployment tool.
//
// # Overview
//
// The lmsctl CLI drives the lifecycle of the EduForge learning platform (an
// LMS web application, a CMS companion, and their shared storage) on a
// Kubernetes cluster. It is designed for platform operators who deploy, check,
// and reset the stack as one unit rather than as individual manifests.
//
// # Commands
//
// deploy - Apply the platform in dependency order:
//
//	lmsctl deploy [--namespace NS] [--manifest-dir DIR] [--settle DURATION]
//
// Runs preflight checks, applies namespace, storage, configuration, the LMS
// and CMS workloads with their services, autoscaling, and ingress, waits for
// the cluster to settle, then verifies and probes the result. This is also
// what bare lmsctl runs when no command is given.
//
// verify - List the deployed state:
//
//	lmsctl verify [--format table|json|yaml] [--output FILE]
//
// Renders a read-only report of the pods, services, ingresses, and
// autoscalers in the platform namespace. Never changes the cluster and
// always exits zero.
//
// clean - Tear the platform down:
//
//	lmsctl clean [--namespace NS]
//
// Deletes the platform resources in reverse deployment order with the
// namespace last. Best-effort: missing resources are skipped, rejected
// deletions are recorded, and the command always exits zero. cleanup is an
// alias.
//
// # Global Flags
//
//	--config, -c       Run configuration file (default: lmsctl.yaml)
//	--namespace, -n    Platform namespace
//	--kubeconfig       Kubeconfig path
//	--manifest-dir, -m Manifest tree the per-set paths resolve against
//	--log-level        Logging verbosity: debug, info, warn, error
//	--log-dir          Directory for per-run log files
//	--settle           Wait between the last apply and verification
//	--no-log-file      Disable the per-run log file artifact
//	--help, -h         Show command help
//	--version, -v      Show version information
//
// # Output Formats
//
// Table (default):
//   - Aligned human-readable listing
//   - Suitable for terminal viewing
//
// JSON:
//   - Machine-parseable, compact
//   - Suitable for programmatic consumption
//
// YAML:
//   - Human-readable, preserves structure
//   - Suitable for version control
//
// # Usage Examples
//
// Deploy with the defaults:
//
//	lmsctl
//
// Deploy a staging copy from a different manifest tree:
//
//	lmsctl deploy -n staging -m ./manifests-staging
//
// Capture the deployed state as JSON:
//
//	lmsctl verify --format json --output state.json
//
// Reset the platform:
//
//	lmsctl clean && lmsctl deploy
//
// # Environment Variables
//
// Every flag has an LMSCTL_-prefixed variable, e.g.:
//
//	LMSCTL_NAMESPACE     Platform namespace
//	LMSCTL_KUBECONFIG    Kubeconfig path
//	LMSCTL_MANIFEST_DIR  Manifest tree
//	LMSCTL_LOG_LEVEL     Logging verbosity (debug, info, warn, error)
//	LMSCTL_SETTLE_DELAY  Settle wait duration
//
// Flags win over environment variables, which win over the configuration
// file.
//
// # Exit Codes
//
//	0  Success; verify and clean always exit 0
//	1  Deploy failure, invalid arguments, or rejected configuration
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/orchestrator - Stage assembly for deploy, verify, and clean
//   - pkg/pipeline - Ordered stage execution and run records
//   - pkg/manifest - Manifest loading and decoding
//   - pkg/apply - Convergent applies and best-effort deletes
//   - pkg/serializer - Report formatting
//   - pkg/logging - Structured logging and per-run artifacts
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/eduforge/lmsctl/pkg/cli.version=1.0.0'"
package cli
