// Package preflight provides readiness checks for the external tools,
// directories, and model backend a pipeline run depends on.
//
// The pipeline runs them before touching the source so a missing binary or
// unreachable model server fails in seconds instead of minutes into a run.
// The CLI "descant status" command shows the same checks individually.
package preflight
