// Package script emits the standalone removal script for a prune plan.
//
// The planner never deletes anything itself. When asked, it writes one
// executable shell script that re-checks every target's existence right
// before removing it and that demands two interactive confirmations, a
// y/N prompt followed by typing the literal word DELETE. The gates are
// part of the generated artifact and cannot be disabled by any flag.
package script

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jlaasanen/nas-janitor/internal/logging"
	"github.com/jlaasanen/nas-janitor/pkg/planner"
)

// Write generates the removal script for a non-empty plan at outPath
// with mode 0755. Writing the script is the planner's only side effect.
func Write(outPath string, plan planner.Plan, sourceRoot string) error {
	if plan.IsEmpty() {
		return fmt.Errorf("refusing to generate a removal script for an empty plan")
	}

	var folders, files int
	for _, entry := range plan.Entries {
		if entry.Kind == planner.KindFolder {
			folders++
		} else {
			files++
		}
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "# Removal script generated by nas-janitor prune on %s\n",
		time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "# Source tree: %s\n", sourceRoot)
	b.WriteString("# Review the list below before running. Nothing is removed\n")
	b.WriteString("# without both confirmations.\n\n")
	b.WriteString("set -u\n\n")
	b.WriteString("total_freed=0\n\n")

	fmt.Fprintf(&b, "echo \"This script permanently removes %d folder(s) and %d file(s)\"\n",
		folders, files)
	fmt.Fprintf(&b, "printf 'under %%s (potential savings: %s).\\n' %s\n",
		logging.FormatBytes(plan.TotalBytes), shellQuote(sourceRoot))
	b.WriteString(`read -r -p "Continue? [y/N] " answer
if [ "$answer" != "y" ] && [ "$answer" != "Y" ]; then
    echo "Aborted, nothing removed."
    exit 0
fi
read -r -p "Type DELETE to confirm: " confirm
if [ "$confirm" != "DELETE" ]; then
    echo "Aborted, nothing removed."
    exit 0
fi

`)

	// Paths come from the staging tree and are untrusted; every use,
	// display lines included, goes through shellQuote so metacharacters
	// in a folder name stay literal.
	for _, entry := range plan.Entries {
		quoted := shellQuote(entry.TargetPath)
		switch entry.Kind {
		case planner.KindFolder:
			fmt.Fprintf(&b, "if [ -d %s ]; then\n", quoted)
			fmt.Fprintf(&b, "    printf 'Removing folder: %%s (%s)\\n' %s\n",
				logging.FormatBytes(entry.SizeBytes), quoted)
			fmt.Fprintf(&b, "    rm -rf -- %s\n", quoted)
			fmt.Fprintf(&b, "    total_freed=$((total_freed + %d))\n", entry.SizeBytes)
			b.WriteString("else\n")
			fmt.Fprintf(&b, "    printf 'Skipping %%s: no longer exists\\n' %s\n", quoted)
			b.WriteString("fi\n\n")
		case planner.KindStandaloneFile:
			fmt.Fprintf(&b, "if [ -f %s ]; then\n", quoted)
			fmt.Fprintf(&b, "    printf 'Removing file: %%s (%s)\\n' %s\n",
				logging.FormatBytes(entry.SizeBytes), quoted)
			fmt.Fprintf(&b, "    rm -f -- %s\n", quoted)
			fmt.Fprintf(&b, "    total_freed=$((total_freed + %d))\n", entry.SizeBytes)
			b.WriteString("else\n")
			fmt.Fprintf(&b, "    printf 'Skipping %%s: no longer exists\\n' %s\n", quoted)
			b.WriteString("fi\n\n")
		}
	}

	b.WriteString("echo \"Done. Freed $total_freed bytes.\"\n")

	if err := os.WriteFile(outPath, []byte(b.String()), 0755); err != nil {
		return fmt.Errorf("write removal script: %w", err)
	}
	return nil
}

// shellQuote single-quotes a path for safe use in the generated script
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
